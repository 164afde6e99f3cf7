package nes

import "testing"

func TestDisassembleOne(t *testing.T) {
	cases := []struct {
		program []byte
		want    string
	}{
		{[]byte{0xa9, 0x42}, "$8000: LDA #$42"},
		{[]byte{0x8d, 0x06, 0x20}, "$8000: STA $2006"},
		{[]byte{0xbd, 0x00, 0x90}, "$8000: LDA $9000,X"},
		{[]byte{0x0a}, "$8000: ASL A"},
		{[]byte{0xea}, "$8000: NOP"},
		{[]byte{0x6c, 0xff, 0x10}, "$8000: JMP ($10FF)"},
		{[]byte{0xa1, 0x20}, "$8000: LDA ($20,X)"},
		{[]byte{0xb1, 0x20}, "$8000: LDA ($20),Y"},
		{[]byte{0xb5, 0x20}, "$8000: LDA $20,X"},
	}
	for _, c := range cases {
		cpu, _ := loadProgram(c.program...)
		line, _ := cpu.DisassembleOne(0x8000)
		if line.Text != c.want {
			t.Errorf("got %q, want %q", line.Text, c.want)
		}
	}
}

func TestDisassembleBranchTarget(t *testing.T) {
	// BNE -2 from $8000 lands back on $8000
	cpu, _ := loadProgram(0xd0, 0xfe)
	line, _ := cpu.DisassembleOne(0x8000)
	if line.Text != "$8000: BNE $8000" {
		t.Errorf("got %q, want resolved backward target", line.Text)
	}

	// forward branch
	cpu, _ = loadProgram(0xd0, 0x04)
	line, _ = cpu.DisassembleOne(0x8000)
	if line.Text != "$8000: BNE $8006" {
		t.Errorf("got %q, want resolved forward target", line.Text)
	}
}

func TestDisassembleAdvances(t *testing.T) {
	cpu, _ := loadProgram(
		0xa9, 0x01, // LDA #$01
		0x8d, 0x00, 0x02, // STA $0200
		0xea, // NOP
	)
	lines := cpu.Disassemble(0x8000, 0x8005)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	wantAddrs := []uint16{0x8000, 0x8002, 0x8005}
	for i, w := range wantAddrs {
		if lines[i].Addr != w {
			t.Errorf("line %d at $%04X, want $%04X", i, lines[i].Addr, w)
		}
	}
}
