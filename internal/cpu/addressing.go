package cpu

// mode identifies one of the addressing modes an opcode may use to resolve
// its operand. Accumulator mode is handled directly in Step's dispatch
// since it reads and writes a register rather than memory.
type mode int

const (
	modeImmediate mode = iota
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirectX
	modeIndirectY
)

// resolveAddr computes the effective address for any non-immediate mode,
// billing the addressing-mode cycles described in the addressing-mode table
// (operand byte fetches, the fixed zero-page-indexed dummy read, the
// indexed-indirect dummy read, and the page-cross penalty for the indexed
// absolute and indirect-indexed modes). It does not perform the final
// read or write at that address; the caller does, through read/write,
// which bill their own cycle.
func (c *Chip) resolveAddr(m mode) uint16 {
	switch m {
	case modeZeroPage:
		return uint16(c.fetch())
	case modeZeroPageX:
		zp := c.fetch()
		c.Cycles++ // dummy read while indexing
		return uint16(zp + c.X)
	case modeZeroPageY:
		zp := c.fetch()
		c.Cycles++ // dummy read while indexing
		return uint16(zp + c.Y)
	case modeAbsolute:
		lo := c.fetch()
		hi := c.fetch()
		return uint16(hi)<<8 | uint16(lo)
	case modeAbsoluteX:
		return c.resolveIndexedAbsolute(c.X)
	case modeAbsoluteY:
		return c.resolveIndexedAbsolute(c.Y)
	case modeIndirectX:
		zp := c.fetch()
		c.Cycles++ // dummy read while indexing by X
		ptr := zp + c.X
		lo := c.read(uint16(ptr))
		hi := c.read(uint16(ptr + 1)) // wraps within zero page
		return uint16(hi)<<8 | uint16(lo)
	case modeIndirectY:
		zp := c.fetch()
		lo := c.read(uint16(zp))
		hi := c.read(uint16(zp + 1)) // wraps within zero page
		base := uint16(hi)<<8 | uint16(lo)
		return c.indexAndBillCross(base, c.Y)
	default:
		// modeImmediate has no address; callers must not reach here for it.
		return 0
	}
}

// resolveIndexedAbsolute reads a two-byte absolute address and adds reg to
// it, billing the page-cross penalty when the addition carries into the
// high byte.
func (c *Chip) resolveIndexedAbsolute(reg uint8) uint16 {
	lo := c.fetch()
	hi := c.fetch()
	base := uint16(hi)<<8 | uint16(lo)
	return c.indexAndBillCross(base, reg)
}

// indexAndBillCross adds reg to base and bills one extra cycle if doing so
// crosses a page boundary, per the (base ^ result) >> 8 test.
func (c *Chip) indexAndBillCross(base uint16, reg uint8) uint16 {
	result := base + uint16(reg)
	if (base^result)>>8 != 0 {
		c.Cycles++
	}
	return result
}

// operand returns the 8-bit value an instruction should operate on for
// mode m: the next byte directly for immediate mode, or the byte at the
// resolved effective address for every other mode (billing the read).
func (c *Chip) operand(m mode) uint8 {
	if m == modeImmediate {
		return c.fetch()
	}
	return c.read(c.resolveAddr(m))
}
