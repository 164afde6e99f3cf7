package nes

import "fmt"

// Mapper1 is the MMC1. Registers are loaded serially: five writes to ROM
// space shift one bit each into a shift register, and the fifth write
// commits the value to the register selected by the address. A write with
// bit 7 set resets the shift register and forces PRG mode 3.
type Mapper1 struct {
	*Cartridge
	shiftRegister byte
	control       byte
	prgMode       byte
	chrMode       byte
	prgBank       byte
	chrBank0      byte
	chrBank1      byte
	prgOffsets    [2]int
	chrOffsets    [2]int
}

func NewMapper1(cartridge *Cartridge) *Mapper1 {
	m := Mapper1{Cartridge: cartridge, shiftRegister: 0x10}
	m.prgOffsets[1] = m.prgBankOffset(-1)
	return &m
}

func (m *Mapper1) Step() {}

func (m *Mapper1) Read(addr uint16) byte {
	switch {
	case addr < 0x2000:
		bank := addr / 0x1000
		offset := int(addr % 0x1000)
		return m.CHR[m.chrOffsets[bank]+offset]
	case addr >= 0x8000:
		addr = addr - 0x8000
		bank := addr / 0x4000
		offset := int(addr % 0x4000)
		return m.PRG[m.prgOffsets[bank]+offset]
	case addr >= 0x6000:
		return m.SRAM[addr-0x6000]
	default:
		panic(fmt.Sprintf("unhandled mapper1 read at address: 0x%04X", addr))
	}
}

func (m *Mapper1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		bank := addr / 0x1000
		offset := int(addr % 0x1000)
		m.CHR[m.chrOffsets[bank]+offset] = value
	case addr >= 0x8000:
		m.loadRegister(addr, value)
	case addr >= 0x6000:
		m.SRAM[addr-0x6000] = value
	default:
		panic(fmt.Sprintf("unhandled mapper1 write at address: 0x%04X", addr))
	}
}

func (m *Mapper1) loadRegister(addr uint16, value byte) {
	if value&0x80 != 0 {
		m.shiftRegister = 0x10
		m.writeControl(m.control | 0x0c)
		return
	}
	complete := m.shiftRegister&1 != 0
	m.shiftRegister = m.shiftRegister>>1 | value<<4&0x10
	if complete {
		m.writeRegister(addr, m.shiftRegister)
		m.shiftRegister = 0x10
	}
}

func (m *Mapper1) writeRegister(addr uint16, value byte) {
	switch {
	case addr < 0xa000:
		m.writeControl(value)
	case addr < 0xc000:
		m.chrBank0 = value
	case addr < 0xe000:
		m.chrBank1 = value
	default:
		m.prgBank = value & 0x0f
	}
	m.updateOffsets()
}

// Control ($8000-$9FFF): CPPMM. CC selects PRG mode, P CHR mode, MM the
// nametable mirroring.
func (m *Mapper1) writeControl(value byte) {
	m.control = value
	m.chrMode = value >> 4 & 1
	m.prgMode = value >> 2 & 3
	switch value & 3 {
	case 0:
		m.Mirror = MirrorSingle0
	case 1:
		m.Mirror = MirrorSingle1
	case 2:
		m.Mirror = MirrorVertical
	case 3:
		m.Mirror = MirrorHorizontal
	}
	m.updateOffsets()
}

func (m *Mapper1) prgBankOffset(index int) int {
	if index >= 0x80 {
		index -= 0x100
	}
	index %= len(m.PRG) / 0x4000
	offset := index * 0x4000
	if offset < 0 {
		offset += len(m.PRG)
	}
	return offset
}

func (m *Mapper1) chrBankOffset(index int) int {
	if index >= 0x80 {
		index -= 0x100
	}
	index %= len(m.CHR) / 0x1000
	offset := index * 0x1000
	if offset < 0 {
		offset += len(m.CHR)
	}
	return offset
}

func (m *Mapper1) updateOffsets() {
	switch m.prgMode {
	case 0, 1:
		// 32KB switch, ignoring the low bank bit
		m.prgOffsets[0] = m.prgBankOffset(int(m.prgBank & 0xfe))
		m.prgOffsets[1] = m.prgBankOffset(int(m.prgBank | 0x01))
	case 2:
		// fix first bank, switch $C000
		m.prgOffsets[0] = 0
		m.prgOffsets[1] = m.prgBankOffset(int(m.prgBank))
	case 3:
		// switch $8000, fix last bank
		m.prgOffsets[0] = m.prgBankOffset(int(m.prgBank))
		m.prgOffsets[1] = m.prgBankOffset(-1)
	}
	switch m.chrMode {
	case 0:
		m.chrOffsets[0] = m.chrBankOffset(int(m.chrBank0 & 0xfe))
		m.chrOffsets[1] = m.chrBankOffset(int(m.chrBank0 | 0x01))
	case 1:
		m.chrOffsets[0] = m.chrBankOffset(int(m.chrBank0))
		m.chrOffsets[1] = m.chrBankOffset(int(m.chrBank1))
	}
}
