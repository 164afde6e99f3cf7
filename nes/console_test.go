package nes

import "testing"

func TestConsoleStepKeepsChipsInSync(t *testing.T) {
	console := testConsole(t)
	startFrame := console.PPU.Frame
	startLine := console.PPU.ScanLine
	startDot := console.PPU.Cycle

	cycles := console.Step()
	if cycles <= 0 {
		t.Fatal("Step should consume at least one cycle")
	}
	dots := (console.PPU.ScanLine-startLine)*341 + (console.PPU.Cycle - startDot) +
		int(console.PPU.Frame-startFrame)*341*262
	if int64(dots) != cycles*3 {
		t.Errorf("PPU advanced %d dots for %d CPU cycles, want 3 per cycle", dots, cycles)
	}
}

func TestStepSecondsAdvancesRoughlyOneFrame(t *testing.T) {
	console := testConsole(t)
	start := console.PPU.Frame
	console.StepSeconds(1.0 / 60)
	if console.PPU.Frame == start {
		t.Error("a sixtieth of a second should complete at least one frame")
	}
}

func TestSwapReplacesCartridge(t *testing.T) {
	console := testConsole(t)
	console.RAM[0] = 0xff
	console.CPU.PC = 0x1234

	if err := console.Swap(makeINES(2, 1, 0, 1)); err != nil {
		t.Fatal(err)
	}
	if len(console.Card.PRG) != 32768 {
		t.Error("swap should install the new cartridge")
	}
	if console.Card.Mirror != MirrorVertical {
		t.Error("swap should take the new cartridge's mirroring")
	}
	if console.RAM[0] != 0 {
		t.Error("swap should clear RAM")
	}
	if console.CPU.PC != 0x8000 {
		t.Errorf("PC = $%04X, want the new reset vector $8000", console.CPU.PC)
	}
}

func TestSwapWhileRunning(t *testing.T) {
	console := testConsole(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			console.StepFrame()
		}
	}()

	rom := makeINES(2, 1, 0, 1)
	for i := 0; i < 20; i++ {
		if err := console.Swap(rom); err != nil {
			t.Error(err)
			break
		}
	}
	<-done

	if console.Step() <= 0 {
		t.Error("console should keep stepping after concurrent swaps")
	}
	if len(console.Card.PRG) != 32768 {
		t.Error("the last swapped cartridge should be installed")
	}
}

func TestSwapRejectsBadImage(t *testing.T) {
	console := testConsole(t)
	oldCard := console.Card
	if err := console.Swap([]byte("junk")); err == nil {
		t.Fatal("swap of a bad image should fail")
	}
	if console.Card != oldCard {
		t.Error("a failed swap must leave the running cartridge in place")
	}
}

func TestBufferDimensions(t *testing.T) {
	console := testConsole(t)
	buf := console.Buffer()
	if buf.Rect.Dx() != 256 || buf.Rect.Dy() != 240 {
		t.Errorf("frame is %dx%d, want 256x240", buf.Rect.Dx(), buf.Rect.Dy())
	}
}
