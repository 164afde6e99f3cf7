package nes

import (
	"errors"

	"github.com/mizaimao/NESEmulator/logger"
)

// iNES image errors.
var (
	ErrNotINES           = errors.New("not an iNES file")
	ErrNES2              = errors.New("NES 2.0 images are not supported")
	ErrTruncated         = errors.New("iNES file shorter than its header claims")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// iNESMagic opens every iNES file: "NES" followed by an MS-DOS EOF.
var iNESMagic = [4]byte{'N', 'E', 'S', 0x1a}

// Cartridge holds the contents of a parsed iNES image.
type Cartridge struct {
	PRG     []byte // PRG-ROM banks
	CHR     []byte // CHR-ROM banks, or 8KB of CHR-RAM when the image has none
	SRAM    []byte // battery-backed work RAM at $6000
	Mapper  byte
	Mirror  byte
	Battery bool
}

// LoadROM parses an iNES image.
//
//	offset 0   magic "NES\x1a"
//	offset 4   PRG-ROM size in 16KB units
//	offset 5   CHR-ROM size in 8KB units, 0 means the board has CHR-RAM
//	offset 6   flags: mirroring, battery, trainer, mapper low nibble
//	offset 7   flags: mapper high nibble, NES 2.0 marker
//	offset 16  optional 512-byte trainer, then PRG, then CHR
func LoadROM(rom []byte) (*Cartridge, error) {
	if len(rom) < 16 {
		return nil, ErrNotINES
	}
	if [4]byte(rom[:4]) != iNESMagic {
		return nil, ErrNotINES
	}
	if rom[7]&0x0c == 0x08 {
		return nil, ErrNES2
	}

	prgBanks := int(rom[4])
	chrBanks := int(rom[5])
	flags6 := rom[6]
	flags7 := rom[7]

	mapper := flags7&0xf0 | flags6>>4

	mirror := flags6 & 1
	if flags6&0x08 != 0 {
		mirror = MirrorFour
	}
	battery := flags6&0x02 != 0

	offset := 16
	if flags6&0x04 != 0 {
		// trainer, not used by anything we run
		offset += 512
	}

	prgSize := prgBanks * 16384
	chrSize := chrBanks * 8192
	if len(rom) < offset+prgSize+chrSize {
		return nil, ErrTruncated
	}

	prg := make([]byte, prgSize)
	copy(prg, rom[offset:])
	chr := make([]byte, chrSize)
	copy(chr, rom[offset+prgSize:])
	if chrBanks == 0 {
		chr = make([]byte, 8192)
	}

	logger.Logf("cartridge", "mapper %d, %dx16KB PRG, %dx8KB CHR, mirror %d",
		mapper, prgBanks, chrBanks, mirror)
	if battery {
		logger.Log("cartridge", "battery-backed SRAM present")
	}

	return &Cartridge{
		PRG:     prg,
		CHR:     chr,
		SRAM:    make([]byte, 8192),
		Mapper:  mapper,
		Mirror:  mirror,
		Battery: battery,
	}, nil
}
