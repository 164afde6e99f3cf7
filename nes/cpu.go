package nes

// The 2A03 is a 6502 without decimal mode. The CPU sees the rest of the
// machine through the Memory interface; everything else in this file is the
// instruction set.
//
// Interrupt vectors, two bytes each:
//
//	$FFFA-FFFB = NMI
//	$FFFC-FFFD = RESET
//	$FFFE-FFFF = IRQ/BRK

const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
)

// CPUFrequency is the NTSC 2A03 clock rate in Hz.
const CPUFrequency = 1789773

const (
	_ = iota
	interruptNone
	interruptNMI
	interruptIRQ
)

// addressing modes
const (
	_ = iota
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeAccumulator
	modeImmediate
	modeImplied
	modeIndexedIndirect
	modeIndirect
	modeIndirectIndexed
	modeRelative
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
)

// instructionModes is the addressing mode for each opcode.
var instructionModes = [256]byte{
	6, 7, 6, 7, 11, 11, 11, 11, 6, 5, 4, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	1, 7, 6, 7, 11, 11, 11, 11, 6, 5, 4, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	6, 7, 6, 7, 11, 11, 11, 11, 6, 5, 4, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	6, 7, 6, 7, 11, 11, 11, 11, 6, 5, 4, 5, 8, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	5, 7, 5, 7, 11, 11, 11, 11, 6, 5, 6, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 13, 13, 6, 3, 6, 3, 2, 2, 3, 3,
	5, 7, 5, 7, 11, 11, 11, 11, 6, 5, 6, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 13, 13, 6, 3, 6, 3, 2, 2, 3, 3,
	5, 7, 5, 7, 11, 11, 11, 11, 6, 5, 6, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
	5, 7, 5, 7, 11, 11, 11, 11, 6, 5, 6, 5, 1, 1, 1, 1,
	10, 9, 6, 9, 12, 12, 12, 12, 6, 3, 6, 3, 2, 2, 2, 2,
}

// instructionSizes is the length in bytes of each opcode, operand included.
var instructionSizes = [256]byte{
	2, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	3, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	1, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	1, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 0, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 0, 3, 0, 0,
	2, 2, 2, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 2, 1, 0, 3, 3, 3, 0,
	2, 2, 0, 0, 2, 2, 2, 0, 1, 3, 1, 0, 3, 3, 3, 0,
}

// instructionCycles is the base cycle cost of each opcode, not counting
// branch or page-cross penalties.
var instructionCycles = [256]byte{
	7, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 3, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 5, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 6, 2, 6, 4, 4, 4, 4, 2, 5, 2, 5, 5, 5, 5, 5,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 5, 2, 5, 4, 4, 4, 4, 2, 4, 2, 4, 4, 4, 4, 4,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
}

// instructionPageCycles is the extra cycle charged when the effective
// address crosses a page boundary.
var instructionPageCycles = [256]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 1, 0, 0, 0, 0, 0, 1, 0, 1, 1, 1, 1, 1,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0,
}

// instructionNames, unofficial opcodes included.
var instructionNames = [256]string{
	"BRK", "ORA", "KIL", "SLO", "NOP", "ORA", "ASL", "SLO",
	"PHP", "ORA", "ASL", "ANC", "NOP", "ORA", "ASL", "SLO",
	"BPL", "ORA", "KIL", "SLO", "NOP", "ORA", "ASL", "SLO",
	"CLC", "ORA", "NOP", "SLO", "NOP", "ORA", "ASL", "SLO",
	"JSR", "AND", "KIL", "RLA", "BIT", "AND", "ROL", "RLA",
	"PLP", "AND", "ROL", "ANC", "BIT", "AND", "ROL", "RLA",
	"BMI", "AND", "KIL", "RLA", "NOP", "AND", "ROL", "RLA",
	"SEC", "AND", "NOP", "RLA", "NOP", "AND", "ROL", "RLA",
	"RTI", "EOR", "KIL", "SRE", "NOP", "EOR", "LSR", "SRE",
	"PHA", "EOR", "LSR", "ALR", "JMP", "EOR", "LSR", "SRE",
	"BVC", "EOR", "KIL", "SRE", "NOP", "EOR", "LSR", "SRE",
	"CLI", "EOR", "NOP", "SRE", "NOP", "EOR", "LSR", "SRE",
	"RTS", "ADC", "KIL", "RRA", "NOP", "ADC", "ROR", "RRA",
	"PLA", "ADC", "ROR", "ARR", "JMP", "ADC", "ROR", "RRA",
	"BVS", "ADC", "KIL", "RRA", "NOP", "ADC", "ROR", "RRA",
	"SEI", "ADC", "NOP", "RRA", "NOP", "ADC", "ROR", "RRA",
	"NOP", "STA", "NOP", "SAX", "STY", "STA", "STX", "SAX",
	"DEY", "NOP", "TXA", "XAA", "STY", "STA", "STX", "SAX",
	"BCC", "STA", "KIL", "AHX", "STY", "STA", "STX", "SAX",
	"TYA", "STA", "TXS", "TAS", "SHY", "STA", "SHX", "AHX",
	"LDY", "LDA", "LDX", "LAX", "LDY", "LDA", "LDX", "LAX",
	"TAY", "LDA", "TAX", "LAX", "LDY", "LDA", "LDX", "LAX",
	"BCS", "LDA", "KIL", "LAX", "LDY", "LDA", "LDX", "LAX",
	"CLV", "LDA", "TSX", "LAS", "LDY", "LDA", "LDX", "LAX",
	"CPY", "CMP", "NOP", "DCP", "CPY", "CMP", "DEC", "DCP",
	"INY", "CMP", "DEX", "AXS", "CPY", "CMP", "DEC", "DCP",
	"BNE", "CMP", "KIL", "DCP", "NOP", "CMP", "DEC", "DCP",
	"CLD", "CMP", "NOP", "DCP", "NOP", "CMP", "DEC", "DCP",
	"CPX", "SBC", "NOP", "ISC", "CPX", "SBC", "INC", "ISC",
	"INX", "SBC", "NOP", "SBC", "CPX", "SBC", "INC", "ISC",
	"BEQ", "SBC", "KIL", "ISC", "NOP", "SBC", "INC", "ISC",
	"SED", "SBC", "NOP", "ISC", "NOP", "SBC", "INC", "ISC",
}

func (cpu *CPU) createTable() {
	cpu.table = [256]func(*stepInfo){
		cpu.brk, cpu.ora, cpu.kil, cpu.slo, cpu.nop, cpu.ora, cpu.asl, cpu.slo,
		cpu.php, cpu.ora, cpu.asl, cpu.anc, cpu.nop, cpu.ora, cpu.asl, cpu.slo,
		cpu.bpl, cpu.ora, cpu.kil, cpu.slo, cpu.nop, cpu.ora, cpu.asl, cpu.slo,
		cpu.clc, cpu.ora, cpu.nop, cpu.slo, cpu.nop, cpu.ora, cpu.asl, cpu.slo,
		cpu.jsr, cpu.and, cpu.kil, cpu.rla, cpu.bit, cpu.and, cpu.rol, cpu.rla,
		cpu.plp, cpu.and, cpu.rol, cpu.anc, cpu.bit, cpu.and, cpu.rol, cpu.rla,
		cpu.bmi, cpu.and, cpu.kil, cpu.rla, cpu.nop, cpu.and, cpu.rol, cpu.rla,
		cpu.sec, cpu.and, cpu.nop, cpu.rla, cpu.nop, cpu.and, cpu.rol, cpu.rla,
		cpu.rti, cpu.eor, cpu.kil, cpu.sre, cpu.nop, cpu.eor, cpu.lsr, cpu.sre,
		cpu.pha, cpu.eor, cpu.lsr, cpu.alr, cpu.jmp, cpu.eor, cpu.lsr, cpu.sre,
		cpu.bvc, cpu.eor, cpu.kil, cpu.sre, cpu.nop, cpu.eor, cpu.lsr, cpu.sre,
		cpu.cli, cpu.eor, cpu.nop, cpu.sre, cpu.nop, cpu.eor, cpu.lsr, cpu.sre,
		cpu.rts, cpu.adc, cpu.kil, cpu.rra, cpu.nop, cpu.adc, cpu.ror, cpu.rra,
		cpu.pla, cpu.adc, cpu.ror, cpu.arr, cpu.jmp, cpu.adc, cpu.ror, cpu.rra,
		cpu.bvs, cpu.adc, cpu.kil, cpu.rra, cpu.nop, cpu.adc, cpu.ror, cpu.rra,
		cpu.sei, cpu.adc, cpu.nop, cpu.rra, cpu.nop, cpu.adc, cpu.ror, cpu.rra,
		cpu.nop, cpu.sta, cpu.nop, cpu.sax, cpu.sty, cpu.sta, cpu.stx, cpu.sax,
		cpu.dey, cpu.nop, cpu.txa, cpu.xaa, cpu.sty, cpu.sta, cpu.stx, cpu.sax,
		cpu.bcc, cpu.sta, cpu.kil, cpu.ahx, cpu.sty, cpu.sta, cpu.stx, cpu.sax,
		cpu.tya, cpu.sta, cpu.txs, cpu.tas, cpu.shy, cpu.sta, cpu.shx, cpu.ahx,
		cpu.ldy, cpu.lda, cpu.ldx, cpu.lax, cpu.ldy, cpu.lda, cpu.ldx, cpu.lax,
		cpu.tay, cpu.lda, cpu.tax, cpu.lax, cpu.ldy, cpu.lda, cpu.ldx, cpu.lax,
		cpu.bcs, cpu.lda, cpu.kil, cpu.lax, cpu.ldy, cpu.lda, cpu.ldx, cpu.lax,
		cpu.clv, cpu.lda, cpu.tsx, cpu.las, cpu.ldy, cpu.lda, cpu.ldx, cpu.lax,
		cpu.cpy, cpu.cmp, cpu.nop, cpu.dcp, cpu.cpy, cpu.cmp, cpu.dec, cpu.dcp,
		cpu.iny, cpu.cmp, cpu.dex, cpu.axs, cpu.cpy, cpu.cmp, cpu.dec, cpu.dcp,
		cpu.bne, cpu.cmp, cpu.kil, cpu.dcp, cpu.nop, cpu.cmp, cpu.dec, cpu.dcp,
		cpu.cld, cpu.cmp, cpu.nop, cpu.dcp, cpu.nop, cpu.cmp, cpu.dec, cpu.dcp,
		cpu.cpx, cpu.sbc, cpu.nop, cpu.isc, cpu.cpx, cpu.sbc, cpu.inc, cpu.isc,
		cpu.inx, cpu.sbc, cpu.nop, cpu.sbc, cpu.cpx, cpu.sbc, cpu.inc, cpu.isc,
		cpu.beq, cpu.sbc, cpu.kil, cpu.isc, cpu.nop, cpu.sbc, cpu.inc, cpu.isc,
		cpu.sed, cpu.sbc, cpu.nop, cpu.isc, cpu.nop, cpu.sbc, cpu.inc, cpu.isc,
	}
}

// CPU is the 2A03 core. The embedded Memory is the CPU bus.
type CPU struct {
	Memory
	Cycles uint64
	PC     uint16
	SP     byte
	A      byte
	X      byte
	Y      byte

	// status flags, one byte each for cheap arithmetic
	C byte // carry
	Z byte // zero
	I byte // interrupt disable
	D byte // decimal, unused on the 2A03
	B byte // BRK
	U byte // unused, reads as set
	V byte // overflow
	N byte // negative

	interrupt byte
	table     [256]func(*stepInfo)
	stall     int // cycles to idle before the next instruction
}

// stepInfo carries the resolved operand to the instruction method.
type stepInfo struct {
	address uint16
	pc      uint16
	mode    byte
}

// NewCPU connects a CPU to the console bus and resets it.
func NewCPU(console *Console) *CPU {
	cpu := CPU{Memory: NewCPUMemory(console)}
	cpu.createTable()
	cpu.Reset()
	return &cpu
}

// newRawCPU connects a CPU directly to a Memory implementation. Used by
// tests that don't want a full console behind the bus.
func newRawCPU(mem Memory) *CPU {
	cpu := CPU{Memory: mem}
	cpu.createTable()
	cpu.Reset()
	return &cpu
}

// Read16 reads a little-endian word.
func (cpu *CPU) Read16(addr uint16) uint16 {
	lo := cpu.Read(addr)
	hi := cpu.Read(addr + 1)
	return (uint16(hi) << 8) | uint16(lo)
}

// read16bug reproduces the 6502 indirect-fetch bug: the high byte of the
// pointer does not carry. JMP ($10FF) fetches from $10FF and $1000, not
// $1100.
func (cpu *CPU) read16bug(address uint16) uint16 {
	a := address
	b := (a & 0xFF00) | uint16(byte(a)+1)
	lo := cpu.Read(a)
	hi := cpu.Read(b)
	return (uint16(hi) << 8) | uint16(lo)
}

// The stack lives in page one; SP of $00-$FF maps to $100-$1FF and grows
// downward.
func (cpu *CPU) push(value byte) {
	cpu.Write(0x100|uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) push16(value uint16) {
	cpu.push(byte(value >> 8))
	cpu.push(byte(value & 0xff))
}

func (cpu *CPU) pull() byte {
	cpu.SP++
	return cpu.Read(0x100 | uint16(cpu.SP))
}

func (cpu *CPU) pull16() uint16 {
	lo := uint16(cpu.pull())
	hi := uint16(cpu.pull())
	return (hi << 8) | lo
}

func (cpu *CPU) setZ(value byte) {
	if value == 0 {
		cpu.Z = 1
	} else {
		cpu.Z = 0
	}
}

func (cpu *CPU) setN(value byte) {
	if value&0x80 != 0 {
		cpu.N = 1
	} else {
		cpu.N = 0
	}
}

func (cpu *CPU) setZN(value byte) {
	cpu.setN(value)
	cpu.setZ(value)
}

// Flags packs the status flags into the P register layout NV-BDIZC.
func (cpu *CPU) Flags() byte {
	var flags byte
	flags |= cpu.C << 0
	flags |= cpu.Z << 1
	flags |= cpu.I << 2
	flags |= cpu.D << 3
	flags |= cpu.B << 4
	flags |= cpu.U << 5
	flags |= cpu.V << 6
	flags |= cpu.N << 7
	return flags
}

// SetFlags unpacks a P register byte into the individual flags.
func (cpu *CPU) SetFlags(p byte) {
	cpu.C = (p >> 0) & 1
	cpu.Z = (p >> 1) & 1
	cpu.I = (p >> 2) & 1
	cpu.D = (p >> 3) & 1
	cpu.B = (p >> 4) & 1
	cpu.U = (p >> 5) & 1
	cpu.V = (p >> 6) & 1
	cpu.N = (p >> 7) & 1
}

// TriggerIRQ requests a maskable interrupt. Ignored while I is set.
func (cpu *CPU) TriggerIRQ() {
	if cpu.I == 0 {
		cpu.interrupt = interruptIRQ
	}
}

// TriggerNMI requests a non-maskable interrupt.
func (cpu *CPU) TriggerNMI() {
	cpu.interrupt = interruptNMI
}

func (cpu *CPU) irq() {
	cpu.push16(cpu.PC)
	cpu.push(cpu.Flags())
	cpu.PC = cpu.Read16(vectorIRQ)
	cpu.I = 1
	cpu.Cycles += 7
}

func (cpu *CPU) nmi() {
	cpu.push16(cpu.PC)
	cpu.push(cpu.Flags())
	cpu.PC = cpu.Read16(vectorNMI)
	cpu.I = 1
	cpu.Cycles += 7
}

// addBranchCycles charges the extra cycle for a taken branch, plus another
// when the destination is on a different page.
func (cpu *CPU) addBranchCycles(info *stepInfo) {
	cpu.Cycles++
	if cpu.pageDiff(info.pc, info.address) {
		cpu.Cycles++
	}
}

func (cpu *CPU) pageDiff(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

// Reset puts the CPU into its power-on state and jumps through the reset
// vector.
func (cpu *CPU) Reset() {
	cpu.PC = cpu.Read16(vectorReset)
	cpu.Cycles = 0
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = 0xfd
	cpu.SetFlags(0x24)
}

// AddStall idles the CPU for the given number of cycles. OAM DMA and DMC
// sample fetches steal cycles this way.
func (cpu *CPU) AddStall(cycles int) {
	cpu.stall += cycles
}

// Step executes one instruction (or services a pending interrupt) and
// returns the cycles consumed.
func (cpu *CPU) Step() int64 {
	if cpu.stall > 0 {
		cpu.stall--
		return 1
	}

	switch cpu.interrupt {
	case interruptIRQ:
		cpu.irq()
	case interruptNMI:
		cpu.nmi()
	}
	cpu.interrupt = interruptNone

	opcode := cpu.Read(cpu.PC)
	mode := instructionModes[opcode]
	lastCycles := cpu.Cycles

	var address uint16
	var pageCrossed bool

	switch mode {
	case modeAbsolute:
		address = cpu.Read16(cpu.PC + 1)
	case modeAbsoluteX:
		address = cpu.Read16(cpu.PC+1) + uint16(cpu.X)
		pageCrossed = cpu.pageDiff(address-uint16(cpu.X), address)
	case modeAbsoluteY:
		address = cpu.Read16(cpu.PC+1) + uint16(cpu.Y)
		pageCrossed = cpu.pageDiff(address-uint16(cpu.Y), address)
	case modeAccumulator:
		address = 0
	case modeImmediate:
		address = cpu.PC + 1
	case modeImplied:
		address = 0
	case modeIndexedIndirect:
		address = cpu.read16bug(uint16(cpu.Read(cpu.PC+1) + cpu.X))
	case modeIndirect:
		address = cpu.read16bug(cpu.Read16(cpu.PC + 1))
	case modeIndirectIndexed:
		address = cpu.read16bug(uint16(cpu.Read(cpu.PC+1))) + uint16(cpu.Y)
		pageCrossed = cpu.pageDiff(address-uint16(cpu.Y), address)
	case modeRelative:
		offset := uint16(cpu.Read(cpu.PC + 1))
		if offset < 0x80 {
			address = cpu.PC + 2 + offset
		} else {
			address = cpu.PC + 2 + offset - 0x100
		}
	case modeZeroPage:
		address = uint16(cpu.Read(cpu.PC+1)) & 0xff
	case modeZeroPageX:
		address = uint16(cpu.Read(cpu.PC+1)+cpu.X) & 0xff
	case modeZeroPageY:
		address = uint16(cpu.Read(cpu.PC+1)+cpu.Y) & 0xff
	default:
		panic("unknown addressing mode")
	}

	cpu.PC += uint16(instructionSizes[opcode])

	cpu.Cycles += uint64(instructionCycles[opcode])
	if pageCrossed {
		cpu.Cycles += uint64(instructionPageCycles[opcode])
	}

	info := &stepInfo{address, cpu.PC, mode}
	cpu.table[opcode](info)

	return int64(cpu.Cycles - lastCycles)
}

// LDA - load A
func (cpu *CPU) lda(info *stepInfo) {
	cpu.A = cpu.Read(info.address)
	cpu.setZN(cpu.A)
}

// LDX - load X
func (cpu *CPU) ldx(info *stepInfo) {
	cpu.X = cpu.Read(info.address)
	cpu.setZN(cpu.X)
}

// LDY - load Y
func (cpu *CPU) ldy(info *stepInfo) {
	cpu.Y = cpu.Read(info.address)
	cpu.setZN(cpu.Y)
}

// STA - store A
func (cpu *CPU) sta(info *stepInfo) {
	cpu.Write(info.address, cpu.A)
}

// STX - store X
func (cpu *CPU) stx(info *stepInfo) {
	cpu.Write(info.address, cpu.X)
}

// STY - store Y
func (cpu *CPU) sty(info *stepInfo) {
	cpu.Write(info.address, cpu.Y)
}

// ADC - add with carry: A = A + M + C
func (cpu *CPU) adc(info *stepInfo) {
	a := cpu.A
	b := cpu.Read(info.address)
	c := cpu.C
	cpu.A = a + b + c
	cpu.setZN(cpu.A)
	if int(a)+int(b)+int(c) > 0xFF {
		cpu.C = 1
	} else {
		cpu.C = 0
	}
	// overflow when the operands agree in sign but the result doesn't
	if (a^b)&0x80 == 0 && (a^cpu.A)&0x80 != 0 {
		cpu.V = 1
	} else {
		cpu.V = 0
	}
}

// SBC - subtract with carry: A = A - M - (1 - C)
func (cpu *CPU) sbc(info *stepInfo) {
	a := cpu.A
	b := cpu.Read(info.address)
	c := cpu.C
	cpu.A = a - b - (1 - c)
	cpu.setZN(cpu.A)
	if int(a)-int(b)-int(1-c) >= 0 {
		cpu.C = 1
	} else {
		cpu.C = 0
	}
	if (a^b)&0x80 != 0 && (a^cpu.A)&0x80 != 0 {
		cpu.V = 1
	} else {
		cpu.V = 0
	}
}

// INC - increment memory
func (cpu *CPU) inc(info *stepInfo) {
	value := cpu.Read(info.address) + 1
	cpu.Write(info.address, value)
	cpu.setZN(value)
}

// DEC - decrement memory
func (cpu *CPU) dec(info *stepInfo) {
	value := cpu.Read(info.address) - 1
	cpu.Write(info.address, value)
	cpu.setZN(value)
}

// AND - A & memory
func (cpu *CPU) and(info *stepInfo) {
	cpu.A &= cpu.Read(info.address)
	cpu.setZN(cpu.A)
}

// ORA - A | memory
func (cpu *CPU) ora(info *stepInfo) {
	cpu.A |= cpu.Read(info.address)
	cpu.setZN(cpu.A)
}

// EOR - A ^ memory
func (cpu *CPU) eor(info *stepInfo) {
	cpu.A ^= cpu.Read(info.address)
	cpu.setZN(cpu.A)
}

// INX - increment X
func (cpu *CPU) inx(info *stepInfo) {
	cpu.X++
	cpu.setZN(cpu.X)
}

// DEX - decrement X
func (cpu *CPU) dex(info *stepInfo) {
	cpu.X--
	cpu.setZN(cpu.X)
}

// INY - increment Y
func (cpu *CPU) iny(info *stepInfo) {
	cpu.Y++
	cpu.setZN(cpu.Y)
}

// DEY - decrement Y
func (cpu *CPU) dey(info *stepInfo) {
	cpu.Y--
	cpu.setZN(cpu.Y)
}

// TAX - transfer A to X
func (cpu *CPU) tax(info *stepInfo) {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
}

// TXA - transfer X to A
func (cpu *CPU) txa(info *stepInfo) {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
}

// TAY - transfer A to Y
func (cpu *CPU) tay(info *stepInfo) {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
}

// TYA - transfer Y to A
func (cpu *CPU) tya(info *stepInfo) {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
}

// TSX - transfer SP to X
func (cpu *CPU) tsx(info *stepInfo) {
	cpu.X = cpu.SP
	cpu.setZN(cpu.X)
}

// TXS - transfer X to SP
func (cpu *CPU) txs(info *stepInfo) {
	cpu.SP = cpu.X
}

// CLC - clear carry
func (cpu *CPU) clc(info *stepInfo) {
	cpu.C = 0
}

// SEC - set carry
func (cpu *CPU) sec(info *stepInfo) {
	cpu.C = 1
}

// CLD - clear decimal
func (cpu *CPU) cld(info *stepInfo) {
	cpu.D = 0
}

// SED - set decimal
func (cpu *CPU) sed(info *stepInfo) {
	cpu.D = 1
}

// CLV - clear overflow
func (cpu *CPU) clv(info *stepInfo) {
	cpu.V = 0
}

// CLI - clear interrupt disable
func (cpu *CPU) cli(info *stepInfo) {
	cpu.I = 0
}

// SEI - set interrupt disable
func (cpu *CPU) sei(info *stepInfo) {
	cpu.I = 1
}

func (cpu *CPU) compare(a, b byte) {
	cpu.setZN(a - b)
	if a >= b {
		cpu.C = 1
	} else {
		cpu.C = 0
	}
}

// CMP - compare memory with A
func (cpu *CPU) cmp(info *stepInfo) {
	cpu.compare(cpu.A, cpu.Read(info.address))
}

// CPX - compare memory with X
func (cpu *CPU) cpx(info *stepInfo) {
	cpu.compare(cpu.X, cpu.Read(info.address))
}

// CPY - compare memory with Y
func (cpu *CPU) cpy(info *stepInfo) {
	cpu.compare(cpu.Y, cpu.Read(info.address))
}

// BIT - bit test memory with A
func (cpu *CPU) bit(info *stepInfo) {
	value := cpu.Read(info.address)
	cpu.setZ(cpu.A & value)
	cpu.V = (value >> 6) & 1
	cpu.N = (value >> 7) & 1
}

// ASL - arithmetic shift left: C <- |7|6|5|4|3|2|1|0| <- 0
func (cpu *CPU) asl(info *stepInfo) {
	if info.mode == modeAccumulator {
		cpu.C = (cpu.A >> 7) & 1
		cpu.A <<= 1
		cpu.setZN(cpu.A)
	} else {
		value := cpu.Read(info.address)
		cpu.C = (value >> 7) & 1
		value <<= 1
		cpu.Write(info.address, value)
		cpu.setZN(value)
	}
}

// LSR - logical shift right
func (cpu *CPU) lsr(info *stepInfo) {
	if info.mode == modeAccumulator {
		cpu.C = cpu.A & 1
		cpu.A >>= 1
		cpu.setZN(cpu.A)
	} else {
		value := cpu.Read(info.address)
		cpu.C = value & 1
		value >>= 1
		cpu.Write(info.address, value)
		cpu.setZN(value)
	}
}

// ROL - rotate left through carry
func (cpu *CPU) rol(info *stepInfo) {
	if info.mode == modeAccumulator {
		c := cpu.C
		cpu.C = (cpu.A >> 7) & 1
		cpu.A = (cpu.A << 1) | c
		cpu.setZN(cpu.A)
	} else {
		c := cpu.C
		value := cpu.Read(info.address)
		cpu.C = (value >> 7) & 1
		value = (value << 1) | c
		cpu.Write(info.address, value)
		cpu.setZN(value)
	}
}

// ROR - rotate right through carry
func (cpu *CPU) ror(info *stepInfo) {
	if info.mode == modeAccumulator {
		c := cpu.C
		cpu.C = cpu.A & 1
		cpu.A = (cpu.A >> 1) | (c << 7)
		cpu.setZN(cpu.A)
	} else {
		c := cpu.C
		value := cpu.Read(info.address)
		cpu.C = value & 1
		value = (value >> 1) | (c << 7)
		cpu.Write(info.address, value)
		cpu.setZN(value)
	}
}

// PHA - push A
func (cpu *CPU) pha(info *stepInfo) {
	cpu.push(cpu.A)
}

// PLA - pull A
func (cpu *CPU) pla(info *stepInfo) {
	cpu.A = cpu.pull()
	cpu.setZN(cpu.A)
}

// PHP - push processor status
func (cpu *CPU) php(info *stepInfo) {
	cpu.push(cpu.Flags())
}

// PLP - pull processor status; B is discarded, U reads as set
func (cpu *CPU) plp(info *stepInfo) {
	cpu.SetFlags(cpu.pull()&0xef | 0x20)
}

// JMP - jump
func (cpu *CPU) jmp(info *stepInfo) {
	cpu.PC = info.address
}

// BEQ - branch if equal
func (cpu *CPU) beq(info *stepInfo) {
	if cpu.Z > 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BNE - branch if not equal
func (cpu *CPU) bne(info *stepInfo) {
	if cpu.Z == 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BCS - branch if carry set
func (cpu *CPU) bcs(info *stepInfo) {
	if cpu.C > 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BCC - branch if carry clear
func (cpu *CPU) bcc(info *stepInfo) {
	if cpu.C == 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BMI - branch if minus
func (cpu *CPU) bmi(info *stepInfo) {
	if cpu.N > 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BPL - branch if plus
func (cpu *CPU) bpl(info *stepInfo) {
	if cpu.N == 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BVS - branch if overflow set
func (cpu *CPU) bvs(info *stepInfo) {
	if cpu.V > 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// BVC - branch if overflow clear
func (cpu *CPU) bvc(info *stepInfo) {
	if cpu.V == 0 {
		cpu.PC = info.address
		cpu.addBranchCycles(info)
	}
}

// JSR - jump to subroutine
func (cpu *CPU) jsr(info *stepInfo) {
	cpu.push16(cpu.PC - 1)
	cpu.PC = info.address
}

// RTS - return from subroutine
func (cpu *CPU) rts(info *stepInfo) {
	cpu.PC = cpu.pull16() + 1
}

// NOP - no operation
func (cpu *CPU) nop(info *stepInfo) {}

// BRK - software interrupt through the IRQ vector
func (cpu *CPU) brk(info *stepInfo) {
	cpu.push16(cpu.PC)
	cpu.push(cpu.Flags() | 0x10)
	cpu.I = 1
	cpu.PC = cpu.Read16(vectorIRQ)
}

// RTI - return from interrupt
func (cpu *CPU) rti(info *stepInfo) {
	cpu.SetFlags(cpu.pull())
	cpu.PC = cpu.pull16()
}

// unofficial opcodes are decoded and named but not implemented

func (cpu *CPU) kil(info *stepInfo) {}

func (cpu *CPU) slo(info *stepInfo) {}

func (cpu *CPU) anc(info *stepInfo) {}

func (cpu *CPU) sre(info *stepInfo) {}

func (cpu *CPU) sax(info *stepInfo) {}

func (cpu *CPU) rla(info *stepInfo) {}

func (cpu *CPU) alr(info *stepInfo) {}

func (cpu *CPU) rra(info *stepInfo) {}

func (cpu *CPU) arr(info *stepInfo) {}

func (cpu *CPU) xaa(info *stepInfo) {}

func (cpu *CPU) ahx(info *stepInfo) {}

func (cpu *CPU) shx(info *stepInfo) {}

func (cpu *CPU) shy(info *stepInfo) {}

func (cpu *CPU) tas(info *stepInfo) {}

func (cpu *CPU) lax(info *stepInfo) {}

func (cpu *CPU) las(info *stepInfo) {}

func (cpu *CPU) dcp(info *stepInfo) {}

func (cpu *CPU) isc(info *stepInfo) {}

func (cpu *CPU) axs(info *stepInfo) {}
