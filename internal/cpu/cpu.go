// Package cpu implements the cycle-counting fetch-decode-execute core of a
// 6502 interpreter: register file, processor status flags, and the opcode
// dispatcher that drives a flat 64KiB memory.Bank one instruction at a time.
//
// Decimal-mode arithmetic, hardware interrupts, the stack instructions
// (PHA/PLA/PHP/PLP), the control-transfer instructions JMP/JSR/RTS/RTI, and
// BRK are not implemented; their opcodes decode as the same 1-cycle no-op
// every other unmapped byte does.
package cpu

import (
	"fmt"

	"github.com/wstars1994/cpu6502/internal/memory"
)

// Register names the three 8-bit general registers a micro-operation may
// target, replacing the raw pointer-passing the reference C source uses.
type Register int

const (
	RegA Register = iota
	RegX
	RegY
)

// InvalidConfig represents a construction-time misconfiguration of a Chip.
// The core itself has no runtime failure modes (every opcode, address, and
// register value is legal input to Step); this type exists solely for
// New returning a usable error instead of a nil-pointer panic later.
type InvalidConfig struct {
	Reason string
}

// Error implements the error interface.
func (e InvalidConfig) Error() string {
	return fmt.Sprintf("invalid cpu configuration: %s", e.Reason)
}

// Chip is a single 6502 interpreter instance: registers, flags, a cycle
// counter, and the memory it's wired to. Unlike the historical singleton
// CPU, a Chip is an ordinary value owned by its host; any number of
// independent instances may coexist.
type Chip struct {
	A  uint8  // Accumulator
	X  uint8  // X index register
	Y  uint8  // Y index register
	SP uint8  // Stack pointer. Not written by any instruction in this core besides TSX/TXS.
	PC uint16 // Program counter

	N bool // Negative flag: set to bit 7 of the last flag-updating result.
	V bool // Overflow flag.
	B bool // Break flag. Reset to 1; never cleared by any implemented instruction.
	D bool // Decimal flag. Settable/clearable but arithmetic ignores it.
	I bool // Interrupt-disable flag. Settable/clearable but inert.
	Z bool // Zero flag: set iff the last flag-updating result was 0.
	C bool // Carry flag.

	Cycles uint8 // Cycles billed by the instruction currently executing.

	mem memory.Bank
}

// New returns a Chip backed by mem, in its post-reset state with PC left at
// zero. Call Reset to establish a starting program counter before Step.
func New(mem memory.Bank) (*Chip, error) {
	if mem == nil {
		return nil, InvalidConfig{"mem must not be nil"}
	}
	c := &Chip{mem: mem}
	c.Reset(0)
	return c, nil
}

// Reset restores registers to their power-on values and sets PC to pc.
// Memory is left untouched: Reset never zeroes or reinitializes it.
func (c *Chip) Reset(pc uint16) {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.PC = pc
	c.N, c.V, c.D, c.I, c.Z, c.C = false, false, false, false, false, false
	c.B = true
}

// Read returns the byte at addr without billing any cycle. It is the
// host-visible accessor used to inspect state or stage a program in memory
// before Reset; the dispatcher never calls it.
func (c *Chip) Read(addr uint16) uint8 {
	return c.mem.Read(addr)
}

// Write stores val at addr without billing any cycle, for the same reason
// Read doesn't: it is a host operation, not a bus access made while
// executing an instruction.
func (c *Chip) Write(addr uint16, val uint8) {
	c.mem.Write(addr, val)
}

// read performs a bus read during instruction execution, billing one cycle.
func (c *Chip) read(addr uint16) uint8 {
	c.Cycles++
	return c.mem.Read(addr)
}

// write performs a bus write during instruction execution, billing one
// cycle.
func (c *Chip) write(addr uint16, val uint8) {
	c.Cycles++
	c.mem.Write(addr, val)
}

// fetch reads the byte at PC, advances PC, and bills one cycle. Every
// opcode byte and every operand byte goes through this path.
func (c *Chip) fetch() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
}

// reg returns a pointer to the named register.
func (c *Chip) reg(r Register) *uint8 {
	switch r {
	case RegX:
		return &c.X
	case RegY:
		return &c.Y
	default:
		return &c.A
	}
}

// Step executes exactly one instruction: fetch the opcode, dispatch it to
// its addressing mode and micro-operation, and return the number of cycles
// billed. An opcode byte with no defined mnemonic in this core consumes
// only its own fetch and has no further effect.
func (c *Chip) Step() uint8 {
	c.Cycles = 0
	op := c.fetch()

	switch op {
	// Loads.
	case 0xA9:
		c.setReg(RegA, c.operand(modeImmediate)) // LDA #
	case 0xAD:
		c.setReg(RegA, c.operand(modeAbsolute)) // LDA a
	case 0xBD:
		c.setReg(RegA, c.operand(modeAbsoluteX)) // LDA a,X
	case 0xB9:
		c.setReg(RegA, c.operand(modeAbsoluteY)) // LDA a,Y
	case 0xA5:
		c.setReg(RegA, c.operand(modeZeroPage)) // LDA zp
	case 0xB5:
		c.setReg(RegA, c.operand(modeZeroPageX)) // LDA zp,X
	case 0xA1:
		c.setReg(RegA, c.operand(modeIndirectX)) // LDA (zp,X)
	case 0xB1:
		c.setReg(RegA, c.operand(modeIndirectY)) // LDA (zp),Y

	case 0xA2:
		c.setReg(RegX, c.operand(modeImmediate)) // LDX #
	case 0xAE:
		c.setReg(RegX, c.operand(modeAbsolute)) // LDX a
	case 0xBE:
		c.setReg(RegX, c.operand(modeAbsoluteY)) // LDX a,Y
	case 0xA6:
		c.setReg(RegX, c.operand(modeZeroPage)) // LDX zp
	case 0xB6:
		c.setReg(RegX, c.operand(modeZeroPageY)) // LDX zp,Y

	case 0xA0:
		c.setReg(RegY, c.operand(modeImmediate)) // LDY #
	case 0xAC:
		c.setReg(RegY, c.operand(modeAbsolute)) // LDY a
	case 0xBC:
		c.setReg(RegY, c.operand(modeAbsoluteX)) // LDY a,X
	case 0xA4:
		c.setReg(RegY, c.operand(modeZeroPage)) // LDY zp
	case 0xB4:
		c.setReg(RegY, c.operand(modeZeroPageX)) // LDY zp,X

	// Stores.
	case 0x8D:
		c.write(c.resolveAddr(modeAbsolute), c.A) // STA a
	case 0x9D:
		c.write(c.resolveAddr(modeAbsoluteX), c.A) // STA a,X
	case 0x99:
		c.write(c.resolveAddr(modeAbsoluteY), c.A) // STA a,Y
	case 0x85:
		c.write(c.resolveAddr(modeZeroPage), c.A) // STA zp
	case 0x95:
		c.write(c.resolveAddr(modeZeroPageX), c.A) // STA zp,X
	case 0x81:
		c.write(c.resolveAddr(modeIndirectX), c.A) // STA (zp,X)
	case 0x91:
		c.write(c.resolveAddr(modeIndirectY), c.A) // STA (zp),Y

	case 0x8E:
		c.write(c.resolveAddr(modeAbsolute), c.X) // STX a
	case 0x86:
		c.write(c.resolveAddr(modeZeroPage), c.X) // STX zp
	case 0x96:
		c.write(c.resolveAddr(modeZeroPageY), c.X) // STX zp,Y

	case 0x8C:
		c.write(c.resolveAddr(modeAbsolute), c.Y) // STY a
	case 0x84:
		c.write(c.resolveAddr(modeZeroPage), c.Y) // STY zp
	case 0x94:
		c.write(c.resolveAddr(modeZeroPageX), c.Y) // STY zp,X

	// Arithmetic.
	case 0x69:
		c.adc(c.operand(modeImmediate)) // ADC #
	case 0x6D:
		c.adc(c.operand(modeAbsolute)) // ADC a
	case 0x7D:
		c.adc(c.operand(modeAbsoluteX)) // ADC a,X
	case 0x79:
		c.adc(c.operand(modeAbsoluteY)) // ADC a,Y
	case 0x65:
		c.adc(c.operand(modeZeroPage)) // ADC zp
	case 0x75:
		c.adc(c.operand(modeZeroPageX)) // ADC zp,X
	case 0x61:
		c.adc(c.operand(modeIndirectX)) // ADC (zp,X)
	case 0x71:
		c.adc(c.operand(modeIndirectY)) // ADC (zp),Y

	case 0xE9:
		c.sbc(c.operand(modeImmediate)) // SBC #
	case 0xED:
		c.sbc(c.operand(modeAbsolute)) // SBC a
	case 0xFD:
		c.sbc(c.operand(modeAbsoluteX)) // SBC a,X
	case 0xF9:
		c.sbc(c.operand(modeAbsoluteY)) // SBC a,Y
	case 0xE5:
		c.sbc(c.operand(modeZeroPage)) // SBC zp
	case 0xF5:
		c.sbc(c.operand(modeZeroPageX)) // SBC zp,X
	case 0xE1:
		c.sbc(c.operand(modeIndirectX)) // SBC (zp,X)
	case 0xF1:
		c.sbc(c.operand(modeIndirectY)) // SBC (zp),Y

	// Increment/decrement.
	case 0xEE:
		c.rmwMem(c.resolveAddr(modeAbsolute), 1) // INC a
	case 0xFE:
		c.rmwMem(c.resolveAddr(modeAbsoluteX), 1) // INC a,X
	case 0xE6:
		c.rmwMem(c.resolveAddr(modeZeroPage), 1) // INC zp
	case 0xF6:
		c.rmwMem(c.resolveAddr(modeZeroPageX), 1) // INC zp,X
	case 0xE8:
		c.incDecReg(RegX, 1) // INX
		c.Cycles++
	case 0xC8:
		c.incDecReg(RegY, 1) // INY
		c.Cycles++

	case 0xCE:
		c.rmwMem(c.resolveAddr(modeAbsolute), -1) // DEC a
	case 0xDE:
		c.rmwMem(c.resolveAddr(modeAbsoluteX), -1) // DEC a,X
	case 0xC6:
		c.rmwMem(c.resolveAddr(modeZeroPage), -1) // DEC zp
	case 0xD6:
		c.rmwMem(c.resolveAddr(modeZeroPageX), -1) // DEC zp,X
	case 0xCA:
		c.incDecReg(RegX, -1) // DEX
		c.Cycles++
	case 0x88:
		c.incDecReg(RegY, -1) // DEY
		c.Cycles++

	// Shifts and rotates.
	case 0x0E:
		c.rmwOp(c.resolveAddr(modeAbsolute), c.asl) // ASL a
	case 0x1E:
		c.rmwOp(c.resolveAddr(modeAbsoluteX), c.asl) // ASL a,X
	case 0x0A:
		c.A = c.asl(c.A) // ASL A
		c.Cycles++
	case 0x06:
		c.rmwOp(c.resolveAddr(modeZeroPage), c.asl) // ASL zp
	case 0x16:
		c.rmwOp(c.resolveAddr(modeZeroPageX), c.asl) // ASL zp,X

	case 0x4E:
		c.rmwOp(c.resolveAddr(modeAbsolute), c.lsr) // LSR a
	case 0x5E:
		c.rmwOp(c.resolveAddr(modeAbsoluteX), c.lsr) // LSR a,X
	case 0x4A:
		c.A = c.lsr(c.A) // LSR A
		c.Cycles++
	case 0x46:
		c.rmwOp(c.resolveAddr(modeZeroPage), c.lsr) // LSR zp
	case 0x56:
		c.rmwOp(c.resolveAddr(modeZeroPageX), c.lsr) // LSR zp,X

	case 0x2E:
		c.rmwOp(c.resolveAddr(modeAbsolute), c.rol) // ROL a
	case 0x3E:
		c.rmwOp(c.resolveAddr(modeAbsoluteX), c.rol) // ROL a,X
	case 0x2A:
		c.A = c.rol(c.A) // ROL A
		c.Cycles++
	case 0x26:
		c.rmwOp(c.resolveAddr(modeZeroPage), c.rol) // ROL zp
	case 0x36:
		c.rmwOp(c.resolveAddr(modeZeroPageX), c.rol) // ROL zp,X

	case 0x6E:
		c.rmwOp(c.resolveAddr(modeAbsolute), c.ror) // ROR a
	case 0x7E:
		c.rmwOp(c.resolveAddr(modeAbsoluteX), c.ror) // ROR a,X
	case 0x6A:
		c.A = c.ror(c.A) // ROR A
		c.Cycles++
	case 0x66:
		c.rmwOp(c.resolveAddr(modeZeroPage), c.ror) // ROR zp
	case 0x76:
		c.rmwOp(c.resolveAddr(modeZeroPageX), c.ror) // ROR zp,X

	// Logic.
	case 0x29:
		c.and(c.operand(modeImmediate)) // AND #
	case 0x2D:
		c.and(c.operand(modeAbsolute)) // AND a
	case 0x3D:
		c.and(c.operand(modeAbsoluteX)) // AND a,X
	case 0x39:
		c.and(c.operand(modeAbsoluteY)) // AND a,Y
	case 0x25:
		c.and(c.operand(modeZeroPage)) // AND zp
	case 0x35:
		c.and(c.operand(modeZeroPageX)) // AND zp,X
	case 0x21:
		c.and(c.operand(modeIndirectX)) // AND (zp,X)
	case 0x31:
		c.and(c.operand(modeIndirectY)) // AND (zp),Y

	case 0x09:
		c.ora(c.operand(modeImmediate)) // ORA #
	case 0x0D:
		c.ora(c.operand(modeAbsolute)) // ORA a
	case 0x1D:
		c.ora(c.operand(modeAbsoluteX)) // ORA a,X
	case 0x19:
		c.ora(c.operand(modeAbsoluteY)) // ORA a,Y
	case 0x05:
		c.ora(c.operand(modeZeroPage)) // ORA zp
	case 0x15:
		c.ora(c.operand(modeZeroPageX)) // ORA zp,X
	case 0x01:
		c.ora(c.operand(modeIndirectX)) // ORA (zp,X)
	case 0x11:
		c.ora(c.operand(modeIndirectY)) // ORA (zp),Y

	case 0x49:
		c.eor(c.operand(modeImmediate)) // EOR #
	case 0x4D:
		c.eor(c.operand(modeAbsolute)) // EOR a
	case 0x5D:
		c.eor(c.operand(modeAbsoluteX)) // EOR a,X
	case 0x59:
		c.eor(c.operand(modeAbsoluteY)) // EOR a,Y
	case 0x45:
		c.eor(c.operand(modeZeroPage)) // EOR zp
	case 0x55:
		c.eor(c.operand(modeZeroPageX)) // EOR zp,X
	case 0x41:
		c.eor(c.operand(modeIndirectX)) // EOR (zp,X)
	case 0x51:
		c.eor(c.operand(modeIndirectY)) // EOR (zp),Y

	// Compare and bit test.
	case 0xC9:
		c.compare(c.A, c.operand(modeImmediate)) // CMP #
	case 0xCD:
		c.compare(c.A, c.operand(modeAbsolute)) // CMP a
	case 0xDD:
		c.compare(c.A, c.operand(modeAbsoluteX)) // CMP a,X
	case 0xD9:
		c.compare(c.A, c.operand(modeAbsoluteY)) // CMP a,Y
	case 0xC5:
		c.compare(c.A, c.operand(modeZeroPage)) // CMP zp
	case 0xD5:
		c.compare(c.A, c.operand(modeZeroPageX)) // CMP zp,X
	case 0xC1:
		c.compare(c.A, c.operand(modeIndirectX)) // CMP (zp,X)
	case 0xD1:
		c.compare(c.A, c.operand(modeIndirectY)) // CMP (zp),Y

	case 0xE0:
		c.compare(c.X, c.operand(modeImmediate)) // CPX #
	case 0xEC:
		c.compare(c.X, c.operand(modeAbsolute)) // CPX a
	case 0xE4:
		c.compare(c.X, c.operand(modeZeroPage)) // CPX zp

	case 0xC0:
		c.compare(c.Y, c.operand(modeImmediate)) // CPY #
	case 0xCC:
		c.compare(c.Y, c.operand(modeAbsolute)) // CPY a
	case 0xC4:
		c.compare(c.Y, c.operand(modeZeroPage)) // CPY zp

	case 0x89:
		c.bit(c.operand(modeImmediate)) // BIT #
	case 0x2C:
		c.bit(c.operand(modeAbsolute)) // BIT a
	case 0x24:
		c.bit(c.operand(modeZeroPage)) // BIT zp

	// Branches.
	case 0x10:
		c.branch(!c.N) // BPL
	case 0x30:
		c.branch(c.N) // BMI
	case 0x50:
		c.branch(!c.V) // BVC
	case 0x70:
		c.branch(c.V) // BVS
	case 0x90:
		c.branch(!c.C) // BCC
	case 0xB0:
		c.branch(c.C) // BCS
	case 0xD0:
		c.branch(!c.Z) // BNE
	case 0xF0:
		c.branch(c.Z) // BEQ

	// Register transfers.
	case 0xAA:
		c.transfer(c.A, &c.X, true) // TAX
		c.Cycles++
	case 0x8A:
		c.transfer(c.X, &c.A, true) // TXA
		c.Cycles++
	case 0xA8:
		c.transfer(c.A, &c.Y, true) // TAY
		c.Cycles++
	case 0x98:
		c.transfer(c.Y, &c.A, true) // TYA
		c.Cycles++
	case 0xBA:
		c.transfer(c.SP, &c.X, true) // TSX
		c.Cycles++
	case 0x9A:
		c.transfer(c.X, &c.SP, false) // TXS
		c.Cycles++

	// Flag instructions.
	case 0x18:
		c.setClearFlag(&c.C, false) // CLC
		c.Cycles++
	case 0x38:
		c.setClearFlag(&c.C, true) // SEC
		c.Cycles++
	case 0xD8:
		c.setClearFlag(&c.D, false) // CLD
		c.Cycles++
	case 0xF8:
		c.setClearFlag(&c.D, true) // SED
		c.Cycles++
	case 0x58:
		c.setClearFlag(&c.I, false) // CLI
		c.Cycles++
	case 0x78:
		c.setClearFlag(&c.I, true) // SEI
		c.Cycles++
	case 0xB8:
		c.setClearFlag(&c.V, false) // CLV
		c.Cycles++

	case 0xEA:
		c.Cycles++ // NOP

	default:
		// Unmapped opcode: the fetch above already billed its one cycle.
	}

	return c.Cycles
}
