package nes

import "testing"

func testAPU(t *testing.T) *APU {
	t.Helper()
	return testConsole(t).APU
}

func TestStatusReflectsLengthCounters(t *testing.T) {
	apu := testAPU(t)

	apu.writeRegister(0x4015, 0x01) // enable pulse 1
	apu.writeRegister(0x4003, 0x08) // load length from table index 1
	if apu.readRegister(0x4015)&0x01 == 0 {
		t.Error("status should report pulse 1 active after a length load")
	}

	apu.writeRegister(0x4015, 0x00)
	if apu.readRegister(0x4015)&0x01 != 0 {
		t.Error("disabling a channel must clear its length counter")
	}
}

func TestDisabledChannelIgnoresLength(t *testing.T) {
	apu := testAPU(t)
	apu.writeRegister(0x4003, 0x08)
	if apu.pulse1.output() != 0 {
		t.Error("a disabled channel must stay silent")
	}
}

func TestPulseEnvelopeDecay(t *testing.T) {
	p := Pulse{}
	p.writeControl(0x00) // envelope enabled, period 0
	p.stepEnvelope()     // start: volume 15
	if p.envelopeVolume != 15 {
		t.Fatalf("volume = %d, want 15 after start", p.envelopeVolume)
	}
	p.stepEnvelope()
	if p.envelopeVolume != 14 {
		t.Errorf("volume = %d, want 14 after one decay", p.envelopeVolume)
	}
}

func TestPulseSweepNegateDiffersByChannel(t *testing.T) {
	// pulse 1 uses one's complement, pulse 2 two's
	p1 := Pulse{channel: 1, timerPeriod: 0x100}
	p1.writeSweep(0x88 | 0x01) // enabled, negate, shift 1
	p1.sweep()
	p2 := Pulse{channel: 2, timerPeriod: 0x100}
	p2.writeSweep(0x88 | 0x01)
	p2.sweep()
	if p1.timerPeriod != p2.timerPeriod-1 {
		t.Errorf("pulse1 = $%04X pulse2 = $%04X, channels must negate differently",
			p1.timerPeriod, p2.timerPeriod)
	}
}

func TestPulseSilencedOutsideTimerRange(t *testing.T) {
	p := Pulse{enabled: true, lengthValue: 10, dutyMode: 2, dutyValue: 1, constantVolume: 8}
	p.envelopeEnabled = false
	p.timerPeriod = 4 // below 8, ultrasonic, muted
	if p.output() != 0 {
		t.Error("timer period under 8 must mute the channel")
	}
	p.timerPeriod = 0x100
	if p.output() != 8 {
		t.Errorf("output = %d, want constant volume 8", p.output())
	}
}

func TestTriangleStepsThroughSequence(t *testing.T) {
	tri := Triangle{enabled: true, lengthValue: 1, counterValue: 1, timerPeriod: 0}
	first := tri.output()
	tri.stepTimer()
	second := tri.output()
	if first != 15 || second != 14 {
		t.Errorf("sequence = %d, %d; want 15, 14", first, second)
	}
}

func TestNoiseShiftFeedback(t *testing.T) {
	n := Noise{shiftRegister: 1, timerPeriod: 0}
	n.stepTimer()
	// bit0 ^ bit1 of 1 is 1, shifted into bit 14
	if n.shiftRegister != 1<<14 {
		t.Errorf("shiftRegister = $%04X, want $4000", n.shiftRegister)
	}
}

func TestDMCRestartOnEnable(t *testing.T) {
	apu := testAPU(t)
	apu.writeRegister(0x4012, 0x04) // sample address $C100
	apu.writeRegister(0x4013, 0x02) // sample length 33
	apu.writeRegister(0x4015, 0x10)
	if apu.dmc.currentAddress != 0xc100 {
		t.Errorf("currentAddress = $%04X, want $C100", apu.dmc.currentAddress)
	}
	if apu.dmc.currentLength != 33 {
		t.Errorf("currentLength = %d, want 33", apu.dmc.currentLength)
	}
}

func TestMixerIsMonotonic(t *testing.T) {
	for i := 1; i < len(pulseTable); i++ {
		if pulseTable[i] <= pulseTable[i-1] {
			t.Fatalf("pulseTable[%d] not increasing", i)
		}
	}
	for i := 1; i < len(tndTable); i++ {
		if tndTable[i] <= tndTable[i-1] {
			t.Fatalf("tndTable[%d] not increasing", i)
		}
	}
}

func TestSampleCallback(t *testing.T) {
	console := testConsole(t)
	var samples int
	console.SetAudioSampleRate(44100)
	console.SetAudioOutputWork(func(float32) { samples++ })

	console.StepSeconds(0.05)
	// 0.05s at 44.1kHz is 2205 samples; allow slack for cycle rounding
	if samples < 2000 || samples > 2400 {
		t.Errorf("got %d samples for 50ms, want about 2205", samples)
	}
}
