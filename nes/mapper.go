package nes

import "fmt"

// Mapper is the cartridge-side address decoder. It owns $6000-$FFFF on the
// CPU bus and $0000-$1FFF on the PPU bus. Step is clocked once per PPU dot
// so boards with counters (MMC3) can watch the scanline go by.
type Mapper interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	Step()
}

// NewMapper builds the mapper the cartridge header asks for.
func NewMapper(console *Console) (Mapper, error) {
	card := console.Card
	switch card.Mapper {
	case 0, 2:
		return NewMapper2(card), nil
	case 1:
		return NewMapper1(card), nil
	case 3:
		return NewMapper3(card), nil
	case 4:
		return NewMapper4(console, card), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, card.Mapper)
}
