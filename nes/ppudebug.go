package nes

import "image"

// Diagnostic renderers. These read through the PPU bus outside the normal
// dot clock, which is fine for tools but not something the render loop
// ever does.

// DrawPatternTable renders one 4KB pattern table (0 or 1) as a 128x128
// image, colored with the chosen background palette (0-3).
func (ppu *PPU) DrawPatternTable(table, palette int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	base := uint16(table) * 0x1000
	for tile := 0; tile < 256; tile++ {
		tx := (tile % 16) * 8
		ty := (tile / 16) * 8
		for row := 0; row < 8; row++ {
			addr := base + uint16(tile)*16 + uint16(row)
			lo := ppu.Read(addr)
			hi := ppu.Read(addr + 8)
			for col := 0; col < 8; col++ {
				pixel := (lo&0x80)>>7 | (hi&0x80)>>6
				lo <<= 1
				hi <<= 1
				index := uint16(palette)*4 + uint16(pixel)
				if pixel == 0 {
					index = 0
				}
				c := Palette[ppu.readPalette(index)%64]
				img.SetRGBA(tx+col, ty+row, c)
			}
		}
	}
	return img
}

// DrawNameTable renders one of the four logical nametables (0-3) as a
// 256x240 image using the current background pattern table. Scroll and
// sprites are ignored; this shows the raw tile layout.
func (ppu *PPU) DrawNameTable(table int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 256, 240))
	base := 0x2000 + uint16(table)*0x0400
	patternBase := 0x1000 * uint16(ppu.flagBackgroundTable)
	for ty := 0; ty < 30; ty++ {
		for tx := 0; tx < 32; tx++ {
			tile := ppu.Read(base + uint16(ty*32+tx))
			attr := ppu.Read(base + 0x03c0 + uint16(ty/4*8+tx/4))
			shift := byte(ty%4/2*4 + tx%4/2*2)
			paletteHigh := attr >> shift & 3 << 2
			for row := 0; row < 8; row++ {
				addr := patternBase + uint16(tile)*16 + uint16(row)
				lo := ppu.Read(addr)
				hi := ppu.Read(addr + 8)
				for col := 0; col < 8; col++ {
					pixel := (lo&0x80)>>7 | (hi&0x80)>>6
					lo <<= 1
					hi <<= 1
					index := uint16(paletteHigh | pixel)
					if pixel == 0 {
						index = 0
					}
					c := Palette[ppu.readPalette(index)%64]
					img.SetRGBA(tx*8+col, ty*8+row, c)
				}
			}
		}
	}
	return img
}
