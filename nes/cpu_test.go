package nes

import "testing"

// flatMemory is a 64KB RAM with no devices on the bus.
type flatMemory struct {
	data [0x10000]byte
}

func (m *flatMemory) Read(addr uint16) byte         { return m.data[addr] }
func (m *flatMemory) Write(addr uint16, value byte) { m.data[addr] = value }

// loadProgram builds a CPU whose reset vector points at a program placed
// at $8000.
func loadProgram(program ...byte) (*CPU, *flatMemory) {
	mem := &flatMemory{}
	copy(mem.data[0x8000:], program)
	mem.data[vectorReset] = 0x00
	mem.data[vectorReset+1] = 0x80
	return newRawCPU(mem), mem
}

func TestReset(t *testing.T) {
	cpu, _ := loadProgram(0xea)
	if cpu.PC != 0x8000 {
		t.Errorf("PC = $%04X, want $8000", cpu.PC)
	}
	if cpu.SP != 0xfd {
		t.Errorf("SP = $%02X, want $FD", cpu.SP)
	}
	if cpu.Flags() != 0x24 {
		t.Errorf("P = $%02X, want $24", cpu.Flags())
	}
}

func TestLDAImmediate(t *testing.T) {
	cpu, _ := loadProgram(0xa9, 0x42) // LDA #$42
	cycles := cpu.Step()
	if cpu.A != 0x42 {
		t.Errorf("A = $%02X, want $42", cpu.A)
	}
	if cpu.Z != 0 || cpu.N != 0 {
		t.Errorf("Z = %d, N = %d, want 0, 0", cpu.Z, cpu.N)
	}
	if cycles != 2 {
		t.Errorf("cycles = %d, want 2", cycles)
	}
}

func TestLDAZeroAndNegativeFlags(t *testing.T) {
	cpu, _ := loadProgram(0xa9, 0x00, 0xa9, 0x80)
	cpu.Step()
	if cpu.Z != 1 {
		t.Error("LDA #$00 should set Z")
	}
	cpu.Step()
	if cpu.N != 1 {
		t.Error("LDA #$80 should set N")
	}
	if cpu.Z != 0 {
		t.Error("LDA #$80 should clear Z")
	}
}

func TestADCCarryAndOverflow(t *testing.T) {
	// LDA #$50 ; ADC #$50 -> $A0, overflow set, carry clear
	cpu, _ := loadProgram(0xa9, 0x50, 0x69, 0x50)
	cpu.Step()
	cpu.Step()
	if cpu.A != 0xa0 {
		t.Errorf("A = $%02X, want $A0", cpu.A)
	}
	if cpu.V != 1 {
		t.Error("$50 + $50 should set V")
	}
	if cpu.C != 0 {
		t.Error("$50 + $50 should not set C")
	}

	// LDA #$FF ; ADC #$01 -> $00, carry set, zero set
	cpu, _ = loadProgram(0xa9, 0xff, 0x69, 0x01)
	cpu.Step()
	cpu.Step()
	if cpu.A != 0x00 || cpu.C != 1 || cpu.Z != 1 {
		t.Errorf("A = $%02X C = %d Z = %d, want $00 1 1", cpu.A, cpu.C, cpu.Z)
	}
}

func TestSBCBorrow(t *testing.T) {
	// SEC ; LDA #$10 ; SBC #$01 -> $0F with carry still set
	cpu, _ := loadProgram(0x38, 0xa9, 0x10, 0xe9, 0x01)
	cpu.Step()
	cpu.Step()
	cpu.Step()
	if cpu.A != 0x0f {
		t.Errorf("A = $%02X, want $0F", cpu.A)
	}
	if cpu.C != 1 {
		t.Error("no borrow expected, C should stay set")
	}
}

func TestAbsoluteXPageCross(t *testing.T) {
	// LDX #$01 ; LDA $80FF,X crosses into $8100
	cpu, mem := loadProgram(0xa2, 0x01, 0xbd, 0xff, 0x80)
	mem.data[0x8100] = 0x77
	cpu.Step()
	cycles := cpu.Step()
	if cpu.A != 0x77 {
		t.Errorf("A = $%02X, want $77", cpu.A)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5 (4 + 1 page cross)", cycles)
	}
}

func TestAbsoluteXSamePage(t *testing.T) {
	cpu, mem := loadProgram(0xa2, 0x01, 0xbd, 0x00, 0x90) // LDA $9000,X
	mem.data[0x9001] = 0x55
	cpu.Step()
	cycles := cpu.Step()
	if cpu.A != 0x55 || cycles != 4 {
		t.Errorf("A = $%02X cycles = %d, want $55 4", cpu.A, cycles)
	}
}

func TestBranchCycles(t *testing.T) {
	// LDA #$01 ; BNE +2, taken, same page
	cpu, _ := loadProgram(0xa9, 0x01, 0xd0, 0x02)
	cpu.Step()
	cycles := cpu.Step()
	if cycles != 3 {
		t.Errorf("taken same-page branch = %d cycles, want 3", cycles)
	}
	if cpu.PC != 0x8006 {
		t.Errorf("PC = $%04X, want $8006", cpu.PC)
	}

	// LDA #$00 ; BNE not taken
	cpu, _ = loadProgram(0xa9, 0x00, 0xd0, 0x02)
	cpu.Step()
	cycles = cpu.Step()
	if cycles != 2 {
		t.Errorf("untaken branch = %d cycles, want 2", cycles)
	}
}

func TestZeroPageXWraps(t *testing.T) {
	// LDX #$10 ; LDA $F8,X wraps to $08
	cpu, mem := loadProgram(0xa2, 0x10, 0xb5, 0xf8)
	mem.data[0x08] = 0x99
	cpu.Step()
	cpu.Step()
	if cpu.A != 0x99 {
		t.Errorf("A = $%02X, want $99; zero page index must wrap", cpu.A)
	}
}

func TestJMPIndirectBug(t *testing.T) {
	// JMP ($10FF): the pointer high byte comes from $1000, not $1100
	cpu, mem := loadProgram(0x6c, 0xff, 0x10)
	mem.data[0x10ff] = 0x34
	mem.data[0x1000] = 0x12
	mem.data[0x1100] = 0x56
	cpu.Step()
	if cpu.PC != 0x1234 {
		t.Errorf("PC = $%04X, want $1234", cpu.PC)
	}
}

func TestJSRAndRTS(t *testing.T) {
	// JSR $9000 ... at $9000: RTS
	cpu, mem := loadProgram(0x20, 0x00, 0x90)
	mem.data[0x9000] = 0x60
	cpu.Step()
	if cpu.PC != 0x9000 {
		t.Errorf("PC after JSR = $%04X, want $9000", cpu.PC)
	}
	cpu.Step()
	if cpu.PC != 0x8003 {
		t.Errorf("PC after RTS = $%04X, want $8003", cpu.PC)
	}
	if cpu.SP != 0xfd {
		t.Errorf("SP = $%02X, want $FD after a balanced call", cpu.SP)
	}
}

func TestStackPushPull(t *testing.T) {
	// LDA #$37 ; PHA ; LDA #$00 ; PLA
	cpu, _ := loadProgram(0xa9, 0x37, 0x48, 0xa9, 0x00, 0x68)
	for i := 0; i < 4; i++ {
		cpu.Step()
	}
	if cpu.A != 0x37 {
		t.Errorf("A = $%02X, want $37", cpu.A)
	}
}

func TestBRKAndRTI(t *testing.T) {
	cpu, mem := loadProgram(0x00) // BRK
	mem.data[vectorIRQ] = 0x00
	mem.data[vectorIRQ+1] = 0x90
	mem.data[0x9000] = 0x40 // RTI
	cpu.Step()
	if cpu.PC != 0x9000 {
		t.Errorf("PC = $%04X, want $9000", cpu.PC)
	}
	if cpu.I != 1 {
		t.Error("BRK should set I")
	}
	cpu.Step()
	if cpu.PC != 0x8002 {
		t.Errorf("PC after RTI = $%04X, want $8002", cpu.PC)
	}
}

func TestNMI(t *testing.T) {
	cpu, mem := loadProgram(0xea)
	mem.data[vectorNMI] = 0x00
	mem.data[vectorNMI+1] = 0xa0
	mem.data[0xa000] = 0xea
	cpu.TriggerNMI()
	cycles := cpu.Step()
	if cpu.PC != 0xa001 {
		t.Errorf("PC = $%04X, want $A001 after the NOP at the NMI vector", cpu.PC)
	}
	// 7 for the interrupt sequence plus the instruction at the vector
	if cycles != 7+2 {
		t.Errorf("cycles = %d, want 9", cycles)
	}
}

func TestIRQMasked(t *testing.T) {
	cpu, mem := loadProgram(0xea, 0xea)
	mem.data[vectorIRQ] = 0x00
	mem.data[vectorIRQ+1] = 0xa0
	mem.data[0xa000] = 0xea

	// I is set out of reset, so the request is dropped
	cpu.TriggerIRQ()
	cpu.Step()
	if cpu.PC == 0xa001 {
		t.Fatal("IRQ must be masked while I is set")
	}

	cpu.I = 0
	cpu.TriggerIRQ()
	cpu.Step()
	if cpu.PC != 0xa001 {
		t.Errorf("PC = $%04X, want $A001 after the NOP at the IRQ vector", cpu.PC)
	}
}

func TestStall(t *testing.T) {
	cpu, _ := loadProgram(0xa9, 0x42)
	cpu.AddStall(2)
	pc := cpu.PC
	for i := 0; i < 2; i++ {
		if cycles := cpu.Step(); cycles != 1 {
			t.Errorf("stalled step = %d cycles, want 1", cycles)
		}
		if cpu.PC != pc {
			t.Error("PC must not advance while stalled")
		}
	}
	cpu.Step()
	if cpu.A != 0x42 {
		t.Error("execution should resume after the stall drains")
	}
}

func TestCMPFlags(t *testing.T) {
	// LDA #$40 ; CMP #$40
	cpu, _ := loadProgram(0xa9, 0x40, 0xc9, 0x40)
	cpu.Step()
	cpu.Step()
	if cpu.Z != 1 || cpu.C != 1 || cpu.N != 0 {
		t.Errorf("Z=%d C=%d N=%d after equal compare, want 1 1 0", cpu.Z, cpu.C, cpu.N)
	}
}

func TestASLAccumulator(t *testing.T) {
	// LDA #$81 ; ASL A
	cpu, _ := loadProgram(0xa9, 0x81, 0x0a)
	cpu.Step()
	cpu.Step()
	if cpu.A != 0x02 {
		t.Errorf("A = $%02X, want $02", cpu.A)
	}
	if cpu.C != 1 {
		t.Error("ASL should shift bit 7 into C")
	}
}
