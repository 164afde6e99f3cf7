package nes

import (
	"errors"
	"testing"
)

// makeINES assembles a minimal iNES image. The last PRG bank gets a reset
// vector pointing at $8000 so a console built from it can run.
func makeINES(prgBanks, chrBanks int, mapper, flags6 byte) []byte {
	header := make([]byte, 16)
	copy(header, "NES\x1a")
	header[4] = byte(prgBanks)
	header[5] = byte(chrBanks)
	header[6] = flags6 | mapper<<4
	header[7] = mapper & 0xf0

	prg := make([]byte, prgBanks*16384)
	if len(prg) > 0 {
		prg[len(prg)-4] = 0x00 // $FFFC
		prg[len(prg)-3] = 0x80
	}
	chr := make([]byte, chrBanks*8192)

	rom := append(header, prg...)
	return append(rom, chr...)
}

func TestLoadROM(t *testing.T) {
	card, err := LoadROM(makeINES(2, 1, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(card.PRG) != 32768 {
		t.Errorf("PRG = %d bytes, want 32768", len(card.PRG))
	}
	if len(card.CHR) != 8192 {
		t.Errorf("CHR = %d bytes, want 8192", len(card.CHR))
	}
	if card.Mapper != 0 {
		t.Errorf("mapper = %d, want 0", card.Mapper)
	}
	if card.Mirror != MirrorVertical {
		t.Errorf("mirror = %d, want vertical", card.Mirror)
	}
	if card.Battery {
		t.Error("battery flag should be clear")
	}
}

func TestLoadROMMapperNibbles(t *testing.T) {
	// mapper 4 splits across flags 6 and 7
	card, err := LoadROM(makeINES(2, 1, 4, 0))
	if err != nil {
		t.Fatal(err)
	}
	if card.Mapper != 4 {
		t.Errorf("mapper = %d, want 4", card.Mapper)
	}
}

func TestLoadROMCHRRAM(t *testing.T) {
	card, err := LoadROM(makeINES(1, 0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(card.CHR) != 8192 {
		t.Errorf("a CHR-less image should get 8KB of CHR-RAM, got %d", len(card.CHR))
	}
}

func TestLoadROMBattery(t *testing.T) {
	card, err := LoadROM(makeINES(1, 1, 0, 0x02))
	if err != nil {
		t.Fatal(err)
	}
	if !card.Battery {
		t.Error("battery flag should be set")
	}
}

func TestLoadROMTrainer(t *testing.T) {
	rom := makeINES(1, 1, 0, 0)
	// splice a 512-byte trainer between the header and PRG
	withTrainer := append([]byte{}, rom[:16]...)
	withTrainer[6] |= 0x04
	withTrainer = append(withTrainer, make([]byte, 512)...)
	withTrainer = append(withTrainer, rom[16:]...)

	card, err := LoadROM(withTrainer)
	if err != nil {
		t.Fatal(err)
	}
	if card.PRG[0x3ffc] != 0x00 || card.PRG[0x3ffd] != 0x80 {
		t.Error("PRG should start after the trainer")
	}
}

func TestLoadROMRejectsBadMagic(t *testing.T) {
	rom := makeINES(1, 1, 0, 0)
	rom[0] = 'X'
	if _, err := LoadROM(rom); !errors.Is(err, ErrNotINES) {
		t.Errorf("err = %v, want ErrNotINES", err)
	}
	if _, err := LoadROM(nil); !errors.Is(err, ErrNotINES) {
		t.Errorf("err = %v, want ErrNotINES for an empty image", err)
	}
}

func TestLoadROMRejectsNES2(t *testing.T) {
	rom := makeINES(1, 1, 0, 0)
	rom[7] |= 0x08
	if _, err := LoadROM(rom); !errors.Is(err, ErrNES2) {
		t.Errorf("err = %v, want ErrNES2", err)
	}
}

func TestLoadROMRejectsTruncated(t *testing.T) {
	rom := makeINES(2, 1, 0, 0)
	if _, err := LoadROM(rom[:len(rom)-100]); !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestNewConsoleRejectsUnknownMapper(t *testing.T) {
	_, err := NewConsole(makeINES(1, 1, 7, 0))
	if !errors.Is(err, ErrUnsupportedMapper) {
		t.Errorf("err = %v, want ErrUnsupportedMapper", err)
	}
}
