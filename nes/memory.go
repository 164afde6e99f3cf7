package nes

import (
	"fmt"

	"github.com/mizaimao/NESEmulator/logger"
)

// Memory is a 16-bit address bus.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// cpuMemory is the CPU side of the bus.
//
//	$0000-$1FFF  2KB RAM, mirrored every $0800
//	$2000-$3FFF  PPU registers, mirrored every 8
//	$4000-$4013  APU registers
//	$4014        OAM DMA
//	$4015        APU status
//	$4016        controller 1 (strobe on write)
//	$4017        controller 2 / APU frame counter
//	$4018-$5FFF  open bus on a stock console
//	$6000-$FFFF  cartridge, routed through the mapper
type cpuMemory struct {
	console *Console
}

// NewCPUMemory builds the CPU bus for a console.
func NewCPUMemory(console *Console) Memory {
	return &cpuMemory{console: console}
}

func (mem *cpuMemory) Read(addr uint16) byte {
	switch {
	case addr < 0x2000:
		return mem.console.RAM[addr%0x0800]
	case addr < 0x4000:
		return mem.console.PPU.readRegister(0x2000 + addr%8)
	case addr == 0x4014:
		// OAM DMA is write-only
		logger.Logf("bus", "read from write-only $%04X", addr)
		return 0
	case addr == 0x4015:
		return mem.console.APU.readRegister(addr)
	case addr == 0x4016:
		return mem.console.Controller1.Read()
	case addr == 0x4017:
		return mem.console.Controller2.Read()
	case addr < 0x6000:
		// expansion port, open bus
		return 0
	default:
		return mem.console.Mapper.Read(addr)
	}
}

func (mem *cpuMemory) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		mem.console.RAM[addr%0x0800] = value
	case addr < 0x4000:
		mem.console.PPU.writeRegister(0x2000+addr%8, value)
	case addr < 0x4014:
		mem.console.APU.writeRegister(addr, value)
	case addr == 0x4014:
		mem.console.PPU.writeRegister(addr, value)
	case addr == 0x4015:
		mem.console.APU.writeRegister(addr, value)
	case addr == 0x4016:
		mem.console.Controller1.Write(value)
		mem.console.Controller2.Write(value)
	case addr == 0x4017:
		mem.console.APU.writeRegister(addr, value)
	case addr < 0x6000:
		logger.Logf("bus", "write to expansion port $%04X ignored", addr)
	default:
		mem.console.Mapper.Write(addr, value)
	}
}

// ppuMemory is the PPU side of the bus.
//
//	$0000-$1FFF  pattern tables, routed through the mapper
//	$2000-$3EFF  nametables, folded by the cartridge mirroring mode
//	$3F00-$3FFF  palette RAM, 32 bytes mirrored
type ppuMemory struct {
	console *Console
}

// NewPPUMemory builds the PPU bus for a console.
func NewPPUMemory(console *Console) Memory {
	return &ppuMemory{console: console}
}

func (mem *ppuMemory) Read(addr uint16) byte {
	addr = addr % 0x4000
	switch {
	case addr < 0x2000:
		return mem.console.Mapper.Read(addr)
	case addr < 0x3f00:
		mode := mem.console.Card.Mirror
		return mem.console.PPU.nameTableData[MirrorAddress(mode, addr)%2048]
	case addr < 0x4000:
		return mem.console.PPU.readPalette(addr % 32)
	default:
		panic(fmt.Sprintf("unhandled ppu memory read at address: 0x%04X", addr))
	}
}

func (mem *ppuMemory) Write(addr uint16, value byte) {
	addr = addr % 0x4000
	switch {
	case addr < 0x2000:
		mem.console.Mapper.Write(addr, value)
	case addr < 0x3f00:
		mode := mem.console.Card.Mirror
		mem.console.PPU.nameTableData[MirrorAddress(mode, addr)%2048] = value
	case addr < 0x4000:
		mem.console.PPU.writePalette(addr%32, value)
	default:
		panic(fmt.Sprintf("unhandled ppu memory write at address: 0x%04X", addr))
	}
}

// Nametable mirroring modes. The PPU has 2KB for four 1KB nametables, so
// two of the four are always mirrors; which two is set by the cartridge
// (and can change at runtime on some mappers).
const (
	MirrorHorizontal = iota
	MirrorVertical
	MirrorSingle0
	MirrorSingle1
	MirrorFour
)

// MirrorLookup maps a mirroring mode and a logical nametable (0-3) to one
// of the physical 1KB banks.
var MirrorLookup = [...][4]uint16{
	{0, 0, 1, 1},
	{0, 1, 0, 1},
	{0, 0, 0, 0},
	{1, 1, 1, 1},
	{0, 1, 2, 3},
}

// MirrorAddress folds a $2000-$3EFF nametable address down to an offset in
// the PPU's 2KB of internal VRAM.
func MirrorAddress(mode byte, addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x0400
	offset := addr % 0x0400
	return 0x2000 + MirrorLookup[mode][table]*0x0400 + offset
}
