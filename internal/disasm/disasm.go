// Package disasm renders the instruction at a given address as a mnemonic
// plus operand string, without executing it. It understands exactly the
// opcode surface internal/cpu implements; everything else disassembles as
// a bare byte value, the same way an unmapped opcode is a silent no-op at
// execution time.
package disasm

import (
	"fmt"

	"github.com/wstars1994/cpu6502/internal/memory"
)

type addrMode int

const (
	implied addrMode = iota
	immediate
	zeroPage
	zeroPageX
	zeroPageY
	absolute
	absoluteX
	absoluteY
	indirectX
	indirectY
	relative
	accumulator
)

type entry struct {
	mnemonic string
	mode     addrMode
}

var opcodes = buildTable()

// Step disassembles the instruction at pc and returns its text along with
// the number of bytes it occupies (1, 2, or 3), so a caller can advance pc
// to the next instruction the way a linear disassembly walk would.
func Step(pc uint16, mem memory.Bank) (string, int) {
	op := mem.Read(pc)
	e, ok := opcodes[op]
	if !ok {
		return fmt.Sprintf(".byte $%02X", op), 1
	}

	switch e.mode {
	case implied:
		return e.mnemonic, 1
	case accumulator:
		return e.mnemonic + " A", 1
	case immediate:
		return fmt.Sprintf("%s #$%02X", e.mnemonic, mem.Read(pc+1)), 2
	case zeroPage:
		return fmt.Sprintf("%s $%02X", e.mnemonic, mem.Read(pc+1)), 2
	case zeroPageX:
		return fmt.Sprintf("%s $%02X,X", e.mnemonic, mem.Read(pc+1)), 2
	case zeroPageY:
		return fmt.Sprintf("%s $%02X,Y", e.mnemonic, mem.Read(pc+1)), 2
	case indirectX:
		return fmt.Sprintf("%s ($%02X,X)", e.mnemonic, mem.Read(pc+1)), 2
	case indirectY:
		return fmt.Sprintf("%s ($%02X),Y", e.mnemonic, mem.Read(pc+1)), 2
	case relative:
		offset := int8(mem.Read(pc + 1))
		target := uint16(int32(pc) + 2 + int32(offset))
		return fmt.Sprintf("%s $%04X", e.mnemonic, target), 2
	case absolute:
		return fmt.Sprintf("%s $%04X", e.mnemonic, addr16(mem, pc)), 3
	case absoluteX:
		return fmt.Sprintf("%s $%04X,X", e.mnemonic, addr16(mem, pc)), 3
	case absoluteY:
		return fmt.Sprintf("%s $%04X,Y", e.mnemonic, addr16(mem, pc)), 3
	default:
		return fmt.Sprintf(".byte $%02X", op), 1
	}
}

func addr16(mem memory.Bank, pc uint16) uint16 {
	lo := mem.Read(pc + 1)
	hi := mem.Read(pc + 2)
	return uint16(hi)<<8 | uint16(lo)
}

// buildTable constructs the opcode->(mnemonic,mode) map for exactly the
// instruction surface internal/cpu implements.
func buildTable() map[uint8]entry {
	t := map[uint8]entry{}
	add := func(op uint8, mnemonic string, mode addrMode) {
		t[op] = entry{mnemonic, mode}
	}

	add(0xA9, "LDA", immediate)
	add(0xAD, "LDA", absolute)
	add(0xBD, "LDA", absoluteX)
	add(0xB9, "LDA", absoluteY)
	add(0xA5, "LDA", zeroPage)
	add(0xB5, "LDA", zeroPageX)
	add(0xA1, "LDA", indirectX)
	add(0xB1, "LDA", indirectY)

	add(0xA2, "LDX", immediate)
	add(0xAE, "LDX", absolute)
	add(0xBE, "LDX", absoluteY)
	add(0xA6, "LDX", zeroPage)
	add(0xB6, "LDX", zeroPageY)

	add(0xA0, "LDY", immediate)
	add(0xAC, "LDY", absolute)
	add(0xBC, "LDY", absoluteX)
	add(0xA4, "LDY", zeroPage)
	add(0xB4, "LDY", zeroPageX)

	add(0x8D, "STA", absolute)
	add(0x9D, "STA", absoluteX)
	add(0x99, "STA", absoluteY)
	add(0x85, "STA", zeroPage)
	add(0x95, "STA", zeroPageX)
	add(0x81, "STA", indirectX)
	add(0x91, "STA", indirectY)

	add(0x8E, "STX", absolute)
	add(0x86, "STX", zeroPage)
	add(0x96, "STX", zeroPageY)

	add(0x8C, "STY", absolute)
	add(0x84, "STY", zeroPage)
	add(0x94, "STY", zeroPageX)

	add(0x69, "ADC", immediate)
	add(0x6D, "ADC", absolute)
	add(0x7D, "ADC", absoluteX)
	add(0x79, "ADC", absoluteY)
	add(0x65, "ADC", zeroPage)
	add(0x75, "ADC", zeroPageX)
	add(0x61, "ADC", indirectX)
	add(0x71, "ADC", indirectY)

	add(0xE9, "SBC", immediate)
	add(0xED, "SBC", absolute)
	add(0xFD, "SBC", absoluteX)
	add(0xF9, "SBC", absoluteY)
	add(0xE5, "SBC", zeroPage)
	add(0xF5, "SBC", zeroPageX)
	add(0xE1, "SBC", indirectX)
	add(0xF1, "SBC", indirectY)

	add(0xEE, "INC", absolute)
	add(0xFE, "INC", absoluteX)
	add(0xE6, "INC", zeroPage)
	add(0xF6, "INC", zeroPageX)
	add(0xE8, "INX", implied)
	add(0xC8, "INY", implied)

	add(0xCE, "DEC", absolute)
	add(0xDE, "DEC", absoluteX)
	add(0xC6, "DEC", zeroPage)
	add(0xD6, "DEC", zeroPageX)
	add(0xCA, "DEX", implied)
	add(0x88, "DEY", implied)

	add(0x0E, "ASL", absolute)
	add(0x1E, "ASL", absoluteX)
	add(0x0A, "ASL", accumulator)
	add(0x06, "ASL", zeroPage)
	add(0x16, "ASL", zeroPageX)

	add(0x4E, "LSR", absolute)
	add(0x5E, "LSR", absoluteX)
	add(0x4A, "LSR", accumulator)
	add(0x46, "LSR", zeroPage)
	add(0x56, "LSR", zeroPageX)

	add(0x2E, "ROL", absolute)
	add(0x3E, "ROL", absoluteX)
	add(0x2A, "ROL", accumulator)
	add(0x26, "ROL", zeroPage)
	add(0x36, "ROL", zeroPageX)

	add(0x6E, "ROR", absolute)
	add(0x7E, "ROR", absoluteX)
	add(0x6A, "ROR", accumulator)
	add(0x66, "ROR", zeroPage)
	add(0x76, "ROR", zeroPageX)

	add(0x29, "AND", immediate)
	add(0x2D, "AND", absolute)
	add(0x3D, "AND", absoluteX)
	add(0x39, "AND", absoluteY)
	add(0x25, "AND", zeroPage)
	add(0x35, "AND", zeroPageX)
	add(0x21, "AND", indirectX)
	add(0x31, "AND", indirectY)

	add(0x09, "ORA", immediate)
	add(0x0D, "ORA", absolute)
	add(0x1D, "ORA", absoluteX)
	add(0x19, "ORA", absoluteY)
	add(0x05, "ORA", zeroPage)
	add(0x15, "ORA", zeroPageX)
	add(0x01, "ORA", indirectX)
	add(0x11, "ORA", indirectY)

	add(0x49, "EOR", immediate)
	add(0x4D, "EOR", absolute)
	add(0x5D, "EOR", absoluteX)
	add(0x59, "EOR", absoluteY)
	add(0x45, "EOR", zeroPage)
	add(0x55, "EOR", zeroPageX)
	add(0x41, "EOR", indirectX)
	add(0x51, "EOR", indirectY)

	add(0xC9, "CMP", immediate)
	add(0xCD, "CMP", absolute)
	add(0xDD, "CMP", absoluteX)
	add(0xD9, "CMP", absoluteY)
	add(0xC5, "CMP", zeroPage)
	add(0xD5, "CMP", zeroPageX)
	add(0xC1, "CMP", indirectX)
	add(0xD1, "CMP", indirectY)

	add(0xE0, "CPX", immediate)
	add(0xEC, "CPX", absolute)
	add(0xE4, "CPX", zeroPage)

	add(0xC0, "CPY", immediate)
	add(0xCC, "CPY", absolute)
	add(0xC4, "CPY", zeroPage)

	add(0x89, "BIT", immediate)
	add(0x2C, "BIT", absolute)
	add(0x24, "BIT", zeroPage)

	add(0x10, "BPL", relative)
	add(0x30, "BMI", relative)
	add(0x50, "BVC", relative)
	add(0x70, "BVS", relative)
	add(0x90, "BCC", relative)
	add(0xB0, "BCS", relative)
	add(0xD0, "BNE", relative)
	add(0xF0, "BEQ", relative)

	add(0xAA, "TAX", implied)
	add(0x8A, "TXA", implied)
	add(0xA8, "TAY", implied)
	add(0x98, "TYA", implied)
	add(0xBA, "TSX", implied)
	add(0x9A, "TXS", implied)

	add(0x18, "CLC", implied)
	add(0x38, "SEC", implied)
	add(0xD8, "CLD", implied)
	add(0xF8, "SED", implied)
	add(0x58, "CLI", implied)
	add(0x78, "SEI", implied)
	add(0xB8, "CLV", implied)

	add(0xEA, "NOP", implied)

	return t
}
