package cpu

// setNZ sets the N and Z flags from v, the shared flag-update rule behind
// almost every micro-operation below.
func (c *Chip) setNZ(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// setReg writes val into the named register and updates N/Z from it.
func (c *Chip) setReg(r Register, val uint8) {
	*c.reg(r) = val
	c.setNZ(val)
}

// incDecReg adjusts the named register by delta (+1 or -1) and updates N/Z.
// It bills no cycles itself; callers on single-byte opcodes add the one
// cycle those opcodes need beyond their opcode fetch.
func (c *Chip) incDecReg(r Register, delta int8) {
	p := c.reg(r)
	*p = uint8(int16(*p) + int16(delta))
	c.setNZ(*p)
}

// rmwMem performs a read-modify-write increment or decrement at addr,
// mirroring the three real bus accesses a 6502 read-modify-write cycle
// makes: read the old value, write it back unmodified, then write the new
// value. Each access bills its own cycle via read/write.
func (c *Chip) rmwMem(addr uint16, delta int8) {
	v := c.read(addr)
	c.write(addr, v) // dummy write-back of the unmodified value
	v = uint8(int16(v) + int16(delta))
	c.write(addr, v)
	c.setNZ(v)
}

// rmwOp performs a read-modify-write at addr using op (asl/lsr/rol/ror),
// following the same read/dummy-write/write sequence as rmwMem.
func (c *Chip) rmwOp(addr uint16, op func(uint8) uint8) {
	v := c.read(addr)
	c.write(addr, v)
	v = op(v)
	c.write(addr, v)
}

// adc adds m and the carry flag into A as a 9-bit sum, setting C from the
// carry out and V from signed overflow. Decimal mode is not modeled.
func (c *Chip) adc(m uint8) {
	carryIn := uint16(0)
	if c.C {
		carryIn = 1
	}
	aOld := c.A
	sum := uint16(aOld) + uint16(m) + carryIn
	aNew := uint8(sum)
	c.A = aNew
	c.setNZ(aNew)
	c.C = sum > 0xFF
	c.V = (aOld^m)&0x80 == 0 && (aNew^m)&0x80 != 0
}

// sbc is defined as adc of the ones' complement of m, which yields correct
// two's-complement subtract-with-borrow carry and overflow semantics.
func (c *Chip) sbc(m uint8) {
	c.adc(^m)
}

// asl shifts v left one bit, setting C from the bit shifted out.
func (c *Chip) asl(v uint8) uint8 {
	c.C = v&0x80 != 0
	v <<= 1
	c.setNZ(v)
	return v
}

// lsr shifts v right one bit, setting C from the bit shifted out.
func (c *Chip) lsr(v uint8) uint8 {
	c.C = v&0x01 != 0
	v >>= 1
	c.setNZ(v)
	return v
}

// rol rotates v left through the carry flag. The incoming carry is
// captured before the outgoing carry is computed and before it's inserted
// into bit 0, correcting the reference source's defect of setting C before
// consuming its old value.
func (c *Chip) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if c.C {
		carryIn = 1
	}
	c.C = v&0x80 != 0
	v = (v << 1) | carryIn
	c.setNZ(v)
	return v
}

// ror rotates v right through the carry flag, with the same
// capture-before-compute ordering as rol.
func (c *Chip) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if c.C {
		carryIn = 0x80
	}
	c.C = v&0x01 != 0
	v = (v >> 1) | carryIn
	c.setNZ(v)
	return v
}

// and, ora, and eor combine m into A bitwise and update N/Z.
func (c *Chip) and(m uint8) {
	c.A &= m
	c.setNZ(c.A)
}

func (c *Chip) ora(m uint8) {
	c.A |= m
	c.setNZ(c.A)
}

func (c *Chip) eor(m uint8) {
	c.A ^= m
	c.setNZ(c.A)
}

// bit tests m against A without modifying A: Z comes from the AND of the
// two, while N and V are copied directly from bits 7 and 6 of m.
func (c *Chip) bit(m uint8) {
	c.Z = c.A&m == 0
	c.N = m&0x80 != 0
	c.V = m&0x40 != 0
}

// compare subtracts m from reg and sets N/Z/C from the result, without
// modifying reg. C is set when reg >= m (unsigned).
func (c *Chip) compare(reg, m uint8) {
	result := reg - m
	c.setNZ(result)
	c.C = reg >= m
}

// branch fetches the signed relative offset every branch opcode carries,
// and if taken is true, adds it to PC. Cycles beyond the offset fetch are
// billed only when the branch is taken, with a further cycle if it crosses
// a page boundary.
func (c *Chip) branch(taken bool) {
	offset := int8(c.fetch())
	if !taken {
		return
	}
	c.Cycles++
	oldPC := c.PC
	newPC := uint16(int32(oldPC) + int32(offset))
	if (oldPC^newPC)>>8 != 0 {
		c.Cycles++
	}
	c.PC = newPC
}

// transfer copies src into dst, optionally updating N/Z. TXS is the one
// transfer that leaves flags untouched.
func (c *Chip) transfer(src uint8, dst *uint8, setFlags bool) {
	*dst = src
	if setFlags {
		c.setNZ(src)
	}
}

// setClearFlag assigns value to flag, backing the CLC/SEC/CLD/SED/CLI/SEI/
// CLV family.
func (c *Chip) setClearFlag(flag *bool, value bool) {
	*flag = value
}
