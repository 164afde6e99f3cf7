package nes

import (
	"fmt"

	"github.com/mizaimao/NESEmulator/logger"
)

// Mapper3 is CNROM: PRG is fixed, writes to ROM space select one of up to
// four 8KB CHR banks.
type Mapper3 struct {
	*Cartridge
	chrBank  int
	prgBank1 int
	prgBank2 int
}

func NewMapper3(cartridge *Cartridge) *Mapper3 {
	prgBanks := len(cartridge.PRG) / 0x4000
	return &Mapper3{cartridge, 0, 0, prgBanks - 1}
}

func (m *Mapper3) Step() {}

func (m *Mapper3) Read(addr uint16) byte {
	switch {
	case addr < 0x2000:
		index := m.chrBank*0x2000 + int(addr)
		return m.CHR[index]
	case addr >= 0xc000:
		index := m.prgBank2*0x4000 + int(addr-0xc000)
		return m.PRG[index]
	case addr >= 0x8000:
		index := m.prgBank1*0x4000 + int(addr-0x8000)
		return m.PRG[index]
	case addr >= 0x6000:
		return m.SRAM[addr-0x6000]
	default:
		panic(fmt.Sprintf("unhandled mapper3 read at address: 0x%04X", addr))
	}
}

func (m *Mapper3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		index := m.chrBank*0x2000 + int(addr)
		m.CHR[index] = value
	case addr >= 0x8000:
		m.chrBank = int(value & 3)
	case addr >= 0x6000:
		m.SRAM[addr-0x6000] = value
	default:
		logger.Logf("mapper3", "unhandled write at address: 0x%04X", addr)
	}
}
