package nes

import (
	"fmt"

	"github.com/mizaimao/NESEmulator/logger"
)

// Mapper2 covers NROM (mapper 0) and UNROM (mapper 2). Both fix the last
// 16KB PRG bank at $C000; UNROM additionally switches the bank at $8000 by
// writing anywhere in ROM space. NROM images simply never write, so one
// implementation serves both.
type Mapper2 struct {
	*Cartridge
	prgBanks int
	prgBank1 int
	prgBank2 int
}

func NewMapper2(cartridge *Cartridge) *Mapper2 {
	prgBanks := len(cartridge.PRG) / 0x4000
	return &Mapper2{cartridge, prgBanks, 0, prgBanks - 1}
}

func (m *Mapper2) Step() {}

func (m *Mapper2) Read(addr uint16) byte {
	switch {
	case addr < 0x2000:
		return m.CHR[addr]
	case addr >= 0xc000:
		index := m.prgBank2*0x4000 + int(addr-0xc000)
		return m.PRG[index]
	case addr >= 0x8000:
		index := m.prgBank1*0x4000 + int(addr-0x8000)
		return m.PRG[index]
	case addr >= 0x6000:
		return m.SRAM[addr-0x6000]
	default:
		panic(fmt.Sprintf("unhandled mapper2 read at address: 0x%04X", addr))
	}
}

func (m *Mapper2) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.CHR[addr] = value
	case addr >= 0x8000:
		m.prgBank1 = int(value) % m.prgBanks
	case addr >= 0x6000:
		m.SRAM[addr-0x6000] = value
	default:
		logger.Logf("mapper2", "unhandled write at address: 0x%04X", addr)
	}
}
