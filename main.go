// Command NESEmulator executes iNES ROMs on an emulated Famicom.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/mizaimao/NESEmulator/debugger"
	"github.com/mizaimao/NESEmulator/logger"
	"github.com/mizaimao/NESEmulator/nes"
	"github.com/mizaimao/NESEmulator/ui"
)

func main() {
	var (
		debugFlag   = flag.Bool("debug", false, "run the interactive debugger alongside the window")
		watchFlag   = flag.Bool("watch", false, "reload the ROM whenever the file changes on disk")
		recordFlag  = flag.String("record", "", "write APU output to `file.wav` on exit")
		patternFlag = flag.String("pattern", "", "dump both pattern tables to `file.png` and exit")
		nameFlag    = flag.String("nametable", "", "dump the four nametables to `file.png` and exit")
		scaleFlag   = flag.Int("scale", 2, "window scale factor")
		verboseFlag = flag.Bool("v", false, "echo the log to stderr")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <rom.nes>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	if *verboseFlag {
		logger.SetEcho(os.Stderr)
	}

	romFile := flag.Arg(0)
	rom, err := os.ReadFile(romFile)
	if err != nil {
		fail(err)
	}

	console, err := nes.NewConsole(rom)
	if err != nil {
		fail(err)
	}

	if *patternFlag != "" {
		if err := dumpPatternTables(console, *patternFlag); err != nil {
			fail(err)
		}
		return
	}

	if *nameFlag != "" {
		if err := dumpNameTables(console, *nameFlag); err != nil {
			fail(err)
		}
		return
	}

	if *watchFlag {
		go watchROM(console, romFile)
	}

	if *debugFlag {
		dbg := debugger.New(console)
		go func() {
			if err := dbg.Run(); err != nil {
				fail(err)
			}
			os.Exit(0)
		}()
	}

	opts := ui.Options{
		Scale:  *scaleFlag,
		Record: *recordFlag,
		// with the debugger attached the debugger decides when the
		// console steps; the window only presents frames
		Paced: !*debugFlag,
	}
	if err := ui.OpenWindow(console, opts); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "NESEmulator: %v\n", err)
	os.Exit(1)
}

// dumpPatternTables renders the two pattern tables side by side, using the
// first background palette, and encodes the result as a PNG.
func dumpPatternTables(console *nes.Console, path string) error {
	left := console.PPU.DrawPatternTable(0, 0)
	right := console.PPU.DrawPatternTable(1, 0)

	out := image.NewRGBA(image.Rect(0, 0, 256, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			out.SetRGBA(x, y, left.RGBAAt(x, y))
			out.SetRGBA(x+128, y, right.RGBAAt(x, y))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}

// dumpNameTables renders the four logical nametables in their on-screen
// 2x2 arrangement and encodes the result as a PNG.
func dumpNameTables(console *nes.Console, path string) error {
	out := image.NewRGBA(image.Rect(0, 0, 512, 480))
	for table := 0; table < 4; table++ {
		img := console.PPU.DrawNameTable(table)
		ox := (table % 2) * 256
		oy := (table / 2) * 240
		for y := 0; y < 240; y++ {
			for x := 0; x < 256; x++ {
				out.SetRGBA(ox+x, oy+y, img.RGBAAt(x, y))
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}
