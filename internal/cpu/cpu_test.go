package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/wstars1994/cpu6502/internal/memory"
)

// setup returns a freshly reset Chip over a zeroed Flat memory, with prog
// written starting at pc.
func setup(t *testing.T, pc uint16, prog []uint8) *Chip {
	t.Helper()
	mem := memory.NewFlat()
	mem.Load(pc, prog)
	c, err := New(mem)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Reset(pc)
	return c
}

func TestNewRejectsNilMemory(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) should have returned an error")
	}
}

func TestReset(t *testing.T) {
	c := setup(t, 0x1000, nil)
	c.A, c.X, c.Y = 1, 2, 3
	c.Write(0x1000, 0xFF)
	c.Reset(0x2000)
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Errorf("Reset left registers non-zero: A=%d X=%d Y=%d", c.A, c.X, c.Y)
	}
	if c.SP != 0xFD {
		t.Errorf("Reset: SP = %.2X, want FD", c.SP)
	}
	if c.PC != 0x2000 {
		t.Errorf("Reset: PC = %.4X, want 2000", c.PC)
	}
	if !c.B {
		t.Error("Reset: B flag should be set")
	}
	if got := c.Read(0x1000); got != 0xFF {
		t.Errorf("Reset zeroed memory: got %.2X want FF", got)
	}
}

// TestConcreteScenarios exercises the six worked examples.
func TestConcreteScenarios(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		prog   []uint8
		setup  func(c *Chip)
		verify func(t *testing.T, c *Chip, cycles uint8)
	}{
		{
			name: "LDA immediate",
			pc:   0x1000,
			prog: []uint8{0xA9, 0x42},
			verify: func(t *testing.T, c *Chip, cycles uint8) {
				if c.A != 0x42 || c.Z || c.N || c.PC != 0x1002 || cycles != 2 {
					t.Fatalf("got A=%.2X Z=%t N=%t PC=%.4X cycles=%d, state: %s", c.A, c.Z, c.N, c.PC, cycles, spew.Sdump(c))
				}
			},
		},
		{
			name:  "ADC immediate",
			pc:    0x1000,
			prog:  []uint8{0x69, 0x50},
			setup: func(c *Chip) { c.A = 0x50 },
			verify: func(t *testing.T, c *Chip, cycles uint8) {
				if c.A != 0xA0 || !c.N || !c.V || c.C || c.Z || cycles != 2 {
					t.Fatalf("got A=%.2X N=%t V=%t C=%t Z=%t cycles=%d, state: %s", c.A, c.N, c.V, c.C, c.Z, cycles, spew.Sdump(c))
				}
			},
		},
		{
			name:  "LDA absolute,X page cross",
			pc:    0x1000,
			prog:  []uint8{0xBD, 0x01, 0x80},
			setup: func(c *Chip) { c.X = 0xFF; c.Write(0x8100, 0x77) },
			verify: func(t *testing.T, c *Chip, cycles uint8) {
				if c.A != 0x77 || cycles != 5 {
					t.Fatalf("got A=%.2X cycles=%d, state: %s", c.A, cycles, spew.Sdump(c))
				}
			},
		},
		{
			name:  "BCS branch back to self",
			pc:    0x1000,
			prog:  []uint8{0xB0, 0xFE},
			setup: func(c *Chip) { c.C = true },
			verify: func(t *testing.T, c *Chip, cycles uint8) {
				if c.PC != 0x1000 || cycles != 3 {
					t.Fatalf("got PC=%.4X cycles=%d, state: %s", c.PC, cycles, spew.Sdump(c))
				}
			},
		},
		{
			name:  "ASL accumulator",
			pc:    0x1000,
			prog:  []uint8{0x0A},
			setup: func(c *Chip) { c.A = 0x80 },
			verify: func(t *testing.T, c *Chip, cycles uint8) {
				if c.A != 0x00 || !c.C || !c.Z || c.N || cycles != 2 {
					t.Fatalf("got A=%.2X C=%t Z=%t N=%t cycles=%d, state: %s", c.A, c.C, c.Z, c.N, cycles, spew.Sdump(c))
				}
			},
		},
		{
			name:  "CMP immediate",
			pc:    0x1000,
			prog:  []uint8{0xC9, 0x20},
			setup: func(c *Chip) { c.A = 0x10 },
			verify: func(t *testing.T, c *Chip, cycles uint8) {
				if !c.N || c.Z || c.C || c.A != 0x10 || cycles != 2 {
					t.Fatalf("got N=%t Z=%t C=%t A=%.2X cycles=%d, state: %s", c.N, c.Z, c.C, c.A, cycles, spew.Sdump(c))
				}
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := setup(t, test.pc, test.prog)
			if test.setup != nil {
				test.setup(c)
			}
			cycles := c.Step()
			test.verify(t, c, cycles)
		})
	}
}

// TestLDAQuantified checks invariant 1 of the testable-properties section:
// for every possible immediate value, LDA sets A, Z, and N correctly.
func TestLDAQuantified(t *testing.T) {
	for v := 0; v < 256; v++ {
		c := setup(t, 0x1000, []uint8{0xA9, uint8(v)})
		c.Step()
		if c.A != uint8(v) {
			t.Fatalf("LDA #%.2X: A = %.2X", v, c.A)
		}
		if want := v == 0; c.Z != want {
			t.Fatalf("LDA #%.2X: Z = %t, want %t", v, c.Z, want)
		}
		if want := v>>7 == 1; c.N != want {
			t.Fatalf("LDA #%.2X: N = %t, want %t", v, c.N, want)
		}
	}
}

// TestSBCIsADCOfComplement checks testable property 3.
func TestSBCIsADCOfComplement(t *testing.T) {
	for v := 0; v < 256; v++ {
		withSBC := setup(t, 0x1000, []uint8{0xE9, uint8(v)})
		withSBC.A, withSBC.C = 0x55, true
		withSBC.Step()

		withADC := setup(t, 0x1000, []uint8{0x69, ^uint8(v)})
		withADC.A, withADC.C = 0x55, true
		withADC.Step()

		if diff := deep.Equal(withSBC, withADC); diff != nil {
			t.Errorf("SBC #%.2X diverged from ADC #%.2X: %v\nsbc: %s\nadc: %s", v, ^uint8(v), diff, spew.Sdump(withSBC), spew.Sdump(withADC))
		}
	}
}

// TestShiftRoundTrip checks testable property 4: LSR(ASL(v)) == v whenever
// v's top bit is clear, since ASL would otherwise have dropped it.
func TestShiftRoundTrip(t *testing.T) {
	for v := 0; v < 128; v++ {
		c := setup(t, 0x1000, nil)
		shifted := c.asl(uint8(v))
		restored := c.lsr(shifted)
		if restored != uint8(v) {
			t.Errorf("LSR(ASL(%.2X)) = %.2X, want %.2X", v, restored, v)
		}
	}
}

// TestBranchTiming checks testable property 5 across all eight branches.
func TestBranchTiming(t *testing.T) {
	branches := []struct {
		name    string
		opcode  uint8
		arrange func(c *Chip, taken bool)
	}{
		{"BPL", 0x10, func(c *Chip, taken bool) { c.N = !taken }},
		{"BMI", 0x30, func(c *Chip, taken bool) { c.N = taken }},
		{"BVC", 0x50, func(c *Chip, taken bool) { c.V = !taken }},
		{"BVS", 0x70, func(c *Chip, taken bool) { c.V = taken }},
		{"BCC", 0x90, func(c *Chip, taken bool) { c.C = !taken }},
		{"BCS", 0xB0, func(c *Chip, taken bool) { c.C = taken }},
		{"BNE", 0xD0, func(c *Chip, taken bool) { c.Z = !taken }},
		{"BEQ", 0xF0, func(c *Chip, taken bool) { c.Z = taken }},
	}
	for _, b := range branches {
		t.Run(b.name+"/not-taken", func(t *testing.T) {
			c := setup(t, 0x1000, []uint8{b.opcode, 0x10})
			b.arrange(c, false)
			if cycles := c.Step(); cycles != 2 {
				t.Errorf("%s not taken: cycles = %d, want 2", b.name, cycles)
			}
		})
		t.Run(b.name+"/taken-same-page", func(t *testing.T) {
			c := setup(t, 0x1000, []uint8{b.opcode, 0x10})
			b.arrange(c, true)
			if cycles := c.Step(); cycles != 3 {
				t.Errorf("%s taken same page: cycles = %d, want 3", b.name, cycles)
			}
		})
		t.Run(b.name+"/taken-crosses-page", func(t *testing.T) {
			c := setup(t, 0x10F0, []uint8{b.opcode, 0x20})
			b.arrange(c, true)
			if cycles := c.Step(); cycles != 4 {
				t.Errorf("%s taken crossing page: cycles = %d, want 4", b.name, cycles)
			}
		})
	}
}

// TestStoreLoadRoundTrip checks the store-then-load round-trip law.
func TestStoreLoadRoundTrip(t *testing.T) {
	c := setup(t, 0x1000, []uint8{0x85, 0x80, 0xA5, 0x80}) // STA zp; LDA zp
	c.A = 0x37
	c.Step()
	c.Step()
	if c.A != 0x37 {
		t.Errorf("store/load round trip: A = %.2X, want 37", c.A)
	}
	if got := c.Read(0x0080); got != 0x37 {
		t.Errorf("STA zp didn't write through: mem[0x80] = %.2X", got)
	}
}

// TestTransferRoundTrip checks TAX/TXA and TAY/TYA preserve A.
func TestTransferRoundTrip(t *testing.T) {
	for _, prog := range [][2]uint8{{0xAA, 0x8A}, {0xA8, 0x98}} {
		c := setup(t, 0x1000, []uint8{prog[0], prog[1]})
		c.A = 0x99
		c.Step()
		c.Step()
		if c.A != 0x99 {
			t.Errorf("transfer round trip via %.2X/%.2X: A = %.2X, want 99", prog[0], prog[1], c.A)
		}
	}
}

// TestRolRorFixedOrdering verifies the corrected carry-capture order: the
// carry coming in is used for the insertion, not the carry just computed.
func TestRolRorFixedOrdering(t *testing.T) {
	c := setup(t, 0x1000, nil)
	c.C = true
	got := c.rol(0x00)
	if got != 0x01 {
		t.Errorf("ROL(0x00) with C=1 = %.2X, want 01 (incoming carry inserted into bit 0)", got)
	}
	if c.C {
		t.Error("ROL(0x00): outgoing carry should be 0 (bit 7 of 0x00 was 0)")
	}

	c = setup(t, 0x1000, nil)
	c.C = true
	got = c.ror(0x00)
	if got != 0x80 {
		t.Errorf("ROR(0x00) with C=1 = %.2X, want 80 (incoming carry inserted into bit 7)", got)
	}
	if c.C {
		t.Error("ROR(0x00): outgoing carry should be 0 (bit 0 of 0x00 was 0)")
	}
}

// TestIndirectZeroPageWraps verifies both indirect modes wrap the pointer's
// high-byte fetch within the zero page instead of reading page 1.
func TestIndirectZeroPageWraps(t *testing.T) {
	t.Run("indexed indirect", func(t *testing.T) {
		c := setup(t, 0x1000, []uint8{0xA1, 0xFE}) // LDA (zp,X) with zp=0xFE
		c.X = 0x01                                 // pointer at 0xFF, high byte should wrap to 0x00
		c.Write(0x00FF, 0x34)
		c.Write(0x0000, 0x12)
		c.Write(0x1234, 0x99)
		c.Step()
		if c.A != 0x99 {
			t.Errorf("indexed indirect didn't wrap zero page pointer fetch: A = %.2X, want 99", c.A)
		}
	})
	t.Run("indirect indexed", func(t *testing.T) {
		c := setup(t, 0x1000, []uint8{0xB1, 0xFF}) // LDA (zp),Y with zp=0xFF
		c.Write(0x00FF, 0x00)
		c.Write(0x0000, 0x20)
		c.Write(0x2000, 0x55)
		c.Step()
		if c.A != 0x55 {
			t.Errorf("indirect indexed didn't wrap zero page pointer fetch: A = %.2X, want 55", c.A)
		}
	})
}

// TestUnmappedOpcode checks the no-failure-mode contract: an undefined
// opcode byte bills exactly one cycle and otherwise does nothing.
func TestUnmappedOpcode(t *testing.T) {
	c := setup(t, 0x1000, []uint8{0x02}) // not in the enumerated opcode surface
	before := *c
	cycles := c.Step()
	if cycles != 1 {
		t.Errorf("unmapped opcode: cycles = %d, want 1", cycles)
	}
	if c.A != before.A || c.X != before.X || c.Y != before.Y {
		t.Errorf("unmapped opcode mutated registers: before %s after %s", spew.Sdump(before), spew.Sdump(*c))
	}
	if c.PC != before.PC+1 {
		t.Errorf("unmapped opcode: PC = %.4X, want %.4X", c.PC, before.PC+1)
	}
}

// TestCanonicalCycleCounts spot-checks the published per-opcode cycle
// totals for a sample of addressing modes and single-byte instructions.
func TestCanonicalCycleCounts(t *testing.T) {
	tests := []struct {
		name   string
		prog   []uint8
		arrange func(c *Chip)
		want   uint8
	}{
		{"LDA zp", []uint8{0xA5, 0x10}, nil, 3},
		{"LDA zp,X", []uint8{0xB5, 0x10}, func(c *Chip) { c.X = 1 }, 4},
		{"LDA a", []uint8{0xAD, 0x00, 0x20}, nil, 4},
		{"LDA (zp,X)", []uint8{0xA1, 0x10}, func(c *Chip) { c.X = 1 }, 6},
		{"LDA (zp),Y no cross", []uint8{0xB1, 0x10}, func(c *Chip) { c.Write(0x10, 0x00); c.Write(0x11, 0x20) }, 5},
		{"STA zp", []uint8{0x85, 0x10}, nil, 3},
		{"STA zp,X", []uint8{0x95, 0x10}, func(c *Chip) { c.X = 1 }, 4},
		{"INC zp", []uint8{0xE6, 0x10}, nil, 5},
		{"INC a", []uint8{0xEE, 0x00, 0x20}, nil, 6},
		{"ASL zp", []uint8{0x06, 0x10}, nil, 5},
		{"TAX", []uint8{0xAA}, nil, 2},
		{"CLC", []uint8{0x18}, nil, 2},
		{"NOP", []uint8{0xEA}, nil, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := setup(t, 0x1000, test.prog)
			if test.arrange != nil {
				test.arrange(c)
			}
			if got := c.Step(); got != test.want {
				t.Errorf("%s: cycles = %d, want %d", test.name, got, test.want)
			}
		})
	}
}
