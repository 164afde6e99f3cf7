package nes

import (
	"image"
	"sync"

	"github.com/mizaimao/NESEmulator/logger"
)

// Console wires the chips and the cartridge into one machine.
//
// Stepping and Swap are safe to call from different goroutines; the mutex
// keeps a cartridge swap from landing mid-instruction. Everything else
// assumes a single stepping goroutine.
type Console struct {
	CPU         *CPU
	APU         *APU
	PPU         *PPU
	Card        *Cartridge
	Controller1 *Controller
	Controller2 *Controller
	Mapper      Mapper
	RAM         []byte

	mu sync.Mutex
}

// NewConsole assembles a console around an iNES ROM image.
func NewConsole(rom []byte) (*Console, error) {
	card, err := LoadROM(rom)
	if err != nil {
		return nil, err
	}
	console := Console{
		Card:        card,
		Controller1: NewController(),
		Controller2: NewController(),
		RAM:         make([]byte, 2048),
	}
	mapper, err := NewMapper(&console)
	if err != nil {
		return nil, err
	}
	console.Mapper = mapper
	console.CPU = NewCPU(&console)
	console.APU = NewAPU(&console)
	console.PPU = NewPPU(&console)
	return &console, nil
}

// Reset presses the reset button.
func (console *Console) Reset() {
	console.mu.Lock()
	defer console.mu.Unlock()
	console.reset()
}

func (console *Console) reset() {
	console.CPU.Reset()
	console.PPU.Reset()
}

// Swap replaces the running cartridge with a new ROM image and resets. The
// console keeps its controllers and audio hookup, so a caller can swap
// cartridges without tearing down the machine. A concurrent stepper sees
// either the old machine or the freshly reset one, never a mix.
func (console *Console) Swap(rom []byte) error {
	card, err := LoadROM(rom)
	if err != nil {
		return err
	}

	console.mu.Lock()
	defer console.mu.Unlock()

	oldCard := console.Card
	console.Card = card
	mapper, err := NewMapper(console)
	if err != nil {
		console.Card = oldCard
		return err
	}
	console.Mapper = mapper
	for i := range console.RAM {
		console.RAM[i] = 0
	}
	console.reset()
	logger.Log("console", "cartridge swapped")
	return nil
}

// Step runs one CPU instruction and keeps the rest of the machine in sync:
// three PPU dots and one APU clock per CPU cycle. Returns the CPU cycles
// consumed.
func (console *Console) Step() int64 {
	console.mu.Lock()
	defer console.mu.Unlock()

	cpuCycles := console.CPU.Step()
	ppuCycles := cpuCycles * 3
	for i := int64(0); i < ppuCycles; i++ {
		console.PPU.Step()
		console.Mapper.Step()
	}
	for i := int64(0); i < cpuCycles; i++ {
		console.APU.Step()
	}
	return cpuCycles
}

// StepFrame runs until the PPU finishes the current frame.
func (console *Console) StepFrame() int64 {
	cpuCycles := int64(0)
	frame := console.frame()
	for frame == console.frame() {
		cpuCycles += console.Step()
	}
	return cpuCycles
}

func (console *Console) frame() uint64 {
	console.mu.Lock()
	defer console.mu.Unlock()
	return console.PPU.Frame
}

// StepSeconds runs the console for a wall-clock duration of emulated time.
func (console *Console) StepSeconds(seconds float64) {
	cycles := int64(CPUFrequency * seconds)
	for cycles > 0 {
		cycles -= console.Step()
	}
}

// Buffer returns the frame the PPU most recently completed.
func (console *Console) Buffer() *image.RGBA {
	return console.PPU.front
}

// SetButton1 sets the full button state of controller 1.
func (console *Console) SetButton1(buttons [8]bool) {
	console.Controller1.SetButtons(buttons)
}

// SetButton2 sets the full button state of controller 2.
func (console *Console) SetButton2(buttons [8]bool) {
	console.Controller2.SetButtons(buttons)
}

// SetAudioSampleRate tells the APU how often to emit a sample. A rate of
// zero disables sampling.
func (console *Console) SetAudioSampleRate(rate float64) {
	if rate != 0 {
		console.APU.sampleRate = CPUFrequency / rate
	} else {
		console.APU.sampleRate = 0
	}
}

// SetAudioOutputWork installs the callback that receives mixed samples.
func (console *Console) SetAudioOutputWork(work func(float32)) {
	console.APU.output = work
}
