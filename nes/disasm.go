package nes

import "fmt"

// DisasmLine is one decoded instruction.
type DisasmLine struct {
	Addr uint16
	Text string
}

// DisassembleOne decodes the instruction at addr and returns it together
// with the address of the following instruction. Decoding reads through the
// CPU bus, so it should be pointed at ROM or RAM, not at device registers.
func (cpu *CPU) DisassembleOne(addr uint16) (DisasmLine, uint16) {
	opcode := cpu.Read(addr)
	name := instructionNames[opcode]
	mode := instructionModes[opcode]

	size := uint16(instructionSizes[opcode])
	if size == 0 {
		// unofficial opcodes without a defined operand; step over the
		// opcode byte so the listing stays aligned
		size = 1
	}

	op1 := cpu.Read(addr + 1)
	op2 := cpu.Read(addr + 2)
	word := (uint16(op2) << 8) | uint16(op1)

	var operand string
	switch mode {
	case modeAbsolute:
		operand = fmt.Sprintf("$%04X", word)
	case modeAbsoluteX:
		operand = fmt.Sprintf("$%04X,X", word)
	case modeAbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", word)
	case modeAccumulator:
		operand = "A"
	case modeImmediate:
		operand = fmt.Sprintf("#$%02X", op1)
	case modeImplied:
		operand = ""
	case modeIndexedIndirect:
		operand = fmt.Sprintf("($%02X,X)", op1)
	case modeIndirect:
		operand = fmt.Sprintf("($%04X)", word)
	case modeIndirectIndexed:
		operand = fmt.Sprintf("($%02X),Y", op1)
	case modeRelative:
		// show the resolved branch target rather than the offset
		target := addr + 2 + uint16(op1)
		if op1 >= 0x80 {
			target -= 0x100
		}
		operand = fmt.Sprintf("$%04X", target)
	case modeZeroPage:
		operand = fmt.Sprintf("$%02X", op1)
	case modeZeroPageX:
		operand = fmt.Sprintf("$%02X,X", op1)
	case modeZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", op1)
	}

	text := fmt.Sprintf("$%04X: %s", addr, name)
	if operand != "" {
		text += " " + operand
	}
	return DisasmLine{Addr: addr, Text: text}, addr + size
}

// Disassemble decodes the inclusive address range into a listing. Because
// 6502 instructions vary in length the first line may not start exactly at
// start when start falls inside an instruction; callers pick a start they
// know to be aligned (usually PC).
func (cpu *CPU) Disassemble(start, end uint16) []DisasmLine {
	lines := []DisasmLine{}
	addr := start
	for addr <= end {
		line, next := cpu.DisassembleOne(addr)
		lines = append(lines, line)
		if next <= addr {
			// wrapped around the top of the address space
			break
		}
		addr = next
	}
	return lines
}
