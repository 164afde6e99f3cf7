package nes

import "fmt"

// Mapper4 is the MMC3. Eight bank registers cover PRG and CHR, and a
// scanline counter, clocked by watching PPU rendering, raises IRQs for
// raster effects. The counter model here is the simplified one: decrement
// once per visible scanline while rendering is on.
type Mapper4 struct {
	*Cartridge
	console    *Console
	register   byte
	registers  [8]byte
	prgMode    byte
	chrMode    byte
	prgOffsets [4]int
	chrOffsets [8]int
	reload     byte
	counter    byte
	irqEnable  bool
}

func NewMapper4(console *Console, cartridge *Cartridge) *Mapper4 {
	m := Mapper4{Cartridge: cartridge, console: console}
	m.prgOffsets[0] = m.prgBankOffset(0)
	m.prgOffsets[1] = m.prgBankOffset(1)
	m.prgOffsets[2] = m.prgBankOffset(-2)
	m.prgOffsets[3] = m.prgBankOffset(-1)
	return &m
}

func (m *Mapper4) Step() {
	ppu := m.console.PPU
	// A12 rises around dot 260 when rendering, which is when the counter
	// clocks on the real board
	if ppu.Cycle != 260 {
		return
	}
	if ppu.ScanLine > 239 && ppu.ScanLine < 261 {
		return
	}
	if ppu.flagShowBackground == 0 && ppu.flagShowSprites == 0 {
		return
	}
	m.handleScanLine()
}

func (m *Mapper4) handleScanLine() {
	if m.counter == 0 {
		m.counter = m.reload
	} else {
		m.counter--
		if m.counter == 0 && m.irqEnable {
			m.console.CPU.TriggerIRQ()
		}
	}
}

func (m *Mapper4) Read(addr uint16) byte {
	switch {
	case addr < 0x2000:
		bank := addr / 0x0400
		offset := int(addr % 0x0400)
		return m.CHR[m.chrOffsets[bank]+offset]
	case addr >= 0x8000:
		addr = addr - 0x8000
		bank := addr / 0x2000
		offset := int(addr % 0x2000)
		return m.PRG[m.prgOffsets[bank]+offset]
	case addr >= 0x6000:
		return m.SRAM[addr-0x6000]
	default:
		panic(fmt.Sprintf("unhandled mapper4 read at address: 0x%04X", addr))
	}
}

func (m *Mapper4) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		bank := addr / 0x0400
		offset := int(addr % 0x0400)
		m.CHR[m.chrOffsets[bank]+offset] = value
	case addr >= 0x8000:
		m.writeRegister(addr, value)
	case addr >= 0x6000:
		m.SRAM[addr-0x6000] = value
	default:
		panic(fmt.Sprintf("unhandled mapper4 write at address: 0x%04X", addr))
	}
}

func (m *Mapper4) writeRegister(addr uint16, value byte) {
	switch {
	case addr <= 0x9fff && addr%2 == 0:
		m.writeBankSelect(value)
	case addr <= 0x9fff && addr%2 == 1:
		m.writeBankData(value)
	case addr <= 0xbfff && addr%2 == 0:
		m.writeMirror(value)
	case addr <= 0xbfff && addr%2 == 1:
		// SRAM protect, no games we run depend on it
	case addr <= 0xdfff && addr%2 == 0:
		m.reload = value
	case addr <= 0xdfff && addr%2 == 1:
		m.counter = 0
	case addr <= 0xffff && addr%2 == 0:
		m.irqEnable = false
	case addr <= 0xffff && addr%2 == 1:
		m.irqEnable = true
	}
}

func (m *Mapper4) writeBankSelect(value byte) {
	m.prgMode = value >> 6 & 1
	m.chrMode = value >> 7 & 1
	m.register = value & 7
	m.updateOffsets()
}

func (m *Mapper4) writeBankData(value byte) {
	m.registers[m.register] = value
	m.updateOffsets()
}

func (m *Mapper4) writeMirror(value byte) {
	switch value & 1 {
	case 0:
		m.Mirror = MirrorVertical
	case 1:
		m.Mirror = MirrorHorizontal
	}
}

func (m *Mapper4) prgBankOffset(index int) int {
	if index >= 0x80 {
		index -= 0x100
	}
	index %= len(m.PRG) / 0x2000
	offset := index * 0x2000
	if offset < 0 {
		offset += len(m.PRG)
	}
	return offset
}

func (m *Mapper4) chrBankOffset(index int) int {
	if index >= 0x80 {
		index -= 0x100
	}
	index %= len(m.CHR) / 0x0400
	offset := index * 0x0400
	if offset < 0 {
		offset += len(m.CHR)
	}
	return offset
}

func (m *Mapper4) updateOffsets() {
	switch m.prgMode {
	case 0:
		m.prgOffsets[0] = m.prgBankOffset(int(m.registers[6]))
		m.prgOffsets[1] = m.prgBankOffset(int(m.registers[7]))
		m.prgOffsets[2] = m.prgBankOffset(-2)
		m.prgOffsets[3] = m.prgBankOffset(-1)
	case 1:
		m.prgOffsets[0] = m.prgBankOffset(-2)
		m.prgOffsets[1] = m.prgBankOffset(int(m.registers[7]))
		m.prgOffsets[2] = m.prgBankOffset(int(m.registers[6]))
		m.prgOffsets[3] = m.prgBankOffset(-1)
	}
	switch m.chrMode {
	case 0:
		m.chrOffsets[0] = m.chrBankOffset(int(m.registers[0] & 0xfe))
		m.chrOffsets[1] = m.chrBankOffset(int(m.registers[0] | 0x01))
		m.chrOffsets[2] = m.chrBankOffset(int(m.registers[1] & 0xfe))
		m.chrOffsets[3] = m.chrBankOffset(int(m.registers[1] | 0x01))
		m.chrOffsets[4] = m.chrBankOffset(int(m.registers[2]))
		m.chrOffsets[5] = m.chrBankOffset(int(m.registers[3]))
		m.chrOffsets[6] = m.chrBankOffset(int(m.registers[4]))
		m.chrOffsets[7] = m.chrBankOffset(int(m.registers[5]))
	case 1:
		m.chrOffsets[0] = m.chrBankOffset(int(m.registers[2]))
		m.chrOffsets[1] = m.chrBankOffset(int(m.registers[3]))
		m.chrOffsets[2] = m.chrBankOffset(int(m.registers[4]))
		m.chrOffsets[3] = m.chrBankOffset(int(m.registers[5]))
		m.chrOffsets[4] = m.chrBankOffset(int(m.registers[0] & 0xfe))
		m.chrOffsets[5] = m.chrBankOffset(int(m.registers[0] | 0x01))
		m.chrOffsets[6] = m.chrBankOffset(int(m.registers[1] & 0xfe))
		m.chrOffsets[7] = m.chrBankOffset(int(m.registers[1] | 0x01))
	}
}
