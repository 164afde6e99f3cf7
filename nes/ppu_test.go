package nes

import "testing"

func TestAddressDoubleWrite(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	ppu.writeRegister(0x2006, 0x21)
	ppu.writeRegister(0x2006, 0x08)
	if ppu.v != 0x2108 {
		t.Errorf("v = $%04X, want $2108", ppu.v)
	}
	if ppu.w != 0 {
		t.Error("write toggle should clear after the second write")
	}
}

func TestScrollDoubleWrite(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	ppu.writeRegister(0x2005, 0x7d) // coarse x = 15, fine x = 5
	if ppu.t&0x001f != 15 {
		t.Errorf("coarse x = %d, want 15", ppu.t&0x001f)
	}
	if ppu.x != 5 {
		t.Errorf("fine x = %d, want 5", ppu.x)
	}

	ppu.writeRegister(0x2005, 0x5e) // coarse y = 11, fine y = 6
	if got := ppu.t >> 5 & 0x1f; got != 11 {
		t.Errorf("coarse y = %d, want 11", got)
	}
	if got := ppu.t >> 12 & 7; got != 6 {
		t.Errorf("fine y = %d, want 6", got)
	}
}

func TestStatusReadResetsToggle(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	ppu.writeRegister(0x2006, 0x3f)
	if ppu.w != 1 {
		t.Fatal("first address write should set the toggle")
	}
	ppu.readRegister(0x2002)
	if ppu.w != 0 {
		t.Error("status read must reset the write toggle")
	}
}

func TestStatusReadClearsVBlank(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	ppu.nmiOccurred = true
	first := ppu.readRegister(0x2002)
	if first&0x80 == 0 {
		t.Error("first status read should report VBlank")
	}
	second := ppu.readRegister(0x2002)
	if second&0x80 != 0 {
		t.Error("VBlank must clear on read")
	}
}

func TestDataReadBuffered(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	ppu.Write(0x2100, 0xaa)
	ppu.Write(0x2101, 0xbb)

	ppu.writeRegister(0x2006, 0x21)
	ppu.writeRegister(0x2006, 0x00)

	// first read returns the stale buffer, then the stream catches up
	ppu.readRegister(0x2007)
	if got := ppu.readRegister(0x2007); got != 0xaa {
		t.Errorf("second read = $%02X, want $AA", got)
	}
	if got := ppu.readRegister(0x2007); got != 0xbb {
		t.Errorf("third read = $%02X, want $BB", got)
	}
}

func TestDataIncrement(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	ppu.writeRegister(0x2000, 0x00) // +1
	ppu.writeRegister(0x2006, 0x20)
	ppu.writeRegister(0x2006, 0x00)
	ppu.writeRegister(0x2007, 0x01)
	if ppu.v != 0x2001 {
		t.Errorf("v = $%04X, want $2001 with increment 1", ppu.v)
	}

	ppu.writeRegister(0x2000, 0x04) // +32
	ppu.writeRegister(0x2006, 0x20)
	ppu.writeRegister(0x2006, 0x00)
	ppu.writeRegister(0x2007, 0x01)
	if ppu.v != 0x2020 {
		t.Errorf("v = $%04X, want $2020 with increment 32", ppu.v)
	}
}

func TestPaletteMirrors(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	ppu.writePalette(0x10, 0x2a)
	if got := ppu.readPalette(0x00); got != 0x2a {
		t.Errorf("readPalette($00) = $%02X, want $2A; $3F10 mirrors $3F00", got)
	}

	ppu.Write(0x3f00, 0x15)
	if got := ppu.Read(0x3f20); got != 0x15 {
		t.Errorf("Read($3F20) = $%02X, want $15; palette mirrors every 32", got)
	}
}

func TestOAMReadWrite(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	ppu.writeRegister(0x2003, 0x10)
	ppu.writeRegister(0x2004, 0x5a)
	// writes advance the address, reads do not
	ppu.writeRegister(0x2003, 0x10)
	if got := ppu.readRegister(0x2004); got != 0x5a {
		t.Errorf("OAM[$10] = $%02X, want $5A", got)
	}
	if got := ppu.readRegister(0x2004); got != 0x5a {
		t.Errorf("repeat read = $%02X, OAM reads must not advance the address", got)
	}
}

func TestOAMDMA(t *testing.T) {
	console := testConsole(t)
	cpu := console.CPU
	ppu := console.PPU

	for i := 0; i < 256; i++ {
		cpu.Write(uint16(0x0200+i), byte(i))
	}
	cpu.Write(0x4014, 0x02)

	for i := 0; i < 256; i++ {
		if ppu.oamData[i] != byte(i) {
			t.Fatalf("oamData[%d] = $%02X, want $%02X", i, ppu.oamData[i], byte(i))
		}
	}
	if cpu.stall != 513 && cpu.stall != 514 {
		t.Errorf("stall = %d, want 513 or 514", cpu.stall)
	}
}

func TestSpriteEvaluation(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	// ten sprites on scanline 40; only eight fit, overflow must latch
	for i := 0; i < 10; i++ {
		ppu.oamData[i*4+0] = 35
		ppu.oamData[i*4+3] = byte(i * 8)
	}
	ppu.ScanLine = 40
	ppu.evaluateSprites()

	if ppu.spriteCount != 8 {
		t.Errorf("spriteCount = %d, want 8", ppu.spriteCount)
	}
	if ppu.flagSpriteOverflow != 1 {
		t.Error("nine or more sprites on a line must set the overflow flag")
	}

	// empty line
	ppu.flagSpriteOverflow = 0
	ppu.ScanLine = 200
	ppu.evaluateSprites()
	if ppu.spriteCount != 0 {
		t.Errorf("spriteCount = %d, want 0 on an empty line", ppu.spriteCount)
	}
}

func TestVBlankTiming(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	// run dots until scanline 241 cycle 1
	for !(ppu.ScanLine == 241 && ppu.Cycle == 1) {
		ppu.Step()
	}
	if !ppu.nmiOccurred {
		t.Error("VBlank should be set at scanline 241 dot 1")
	}

	for !(ppu.ScanLine == 261 && ppu.Cycle == 1) {
		ppu.Step()
	}
	if ppu.nmiOccurred {
		t.Error("VBlank should clear on the pre-render line")
	}
}

func TestFrameAdvances(t *testing.T) {
	console := testConsole(t)
	start := console.PPU.Frame
	console.StepFrame()
	if console.PPU.Frame != start+1 {
		t.Errorf("frame = %d, want %d", console.PPU.Frame, start+1)
	}
}

func TestDrawPatternTableSize(t *testing.T) {
	console := testConsole(t)
	img := console.PPU.DrawPatternTable(0, 0)
	if img.Rect.Dx() != 128 || img.Rect.Dy() != 128 {
		t.Errorf("pattern table image is %dx%d, want 128x128", img.Rect.Dx(), img.Rect.Dy())
	}
}

func TestDrawNameTable(t *testing.T) {
	console := testConsole(t)
	ppu := console.PPU

	img := ppu.DrawNameTable(0)
	if img.Rect.Dx() != 256 || img.Rect.Dy() != 240 {
		t.Errorf("nametable image is %dx%d, want 256x240", img.Rect.Dx(), img.Rect.Dy())
	}

	// with blank CHR every pixel resolves to the universal background
	ppu.writePalette(0, 0x21)
	img = ppu.DrawNameTable(0)
	if got := img.RGBAAt(0, 0); got != Palette[0x21] {
		t.Errorf("pixel = %v, want palette entry $21", got)
	}
}
