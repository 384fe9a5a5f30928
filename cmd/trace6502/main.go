// Command trace6502 loads a raw memory image, resets a CPU core at a given
// vector, and prints one line per instruction executed: its address, the
// disassembly, and the cycles it billed. It generalizes the demo in the
// original reference program (which hardcoded a single instruction and a
// single Step call) into a small inspection tool for arbitrary images.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/wstars1994/cpu6502/internal/cpu"
	"github.com/wstars1994/cpu6502/internal/disasm"
	"github.com/wstars1994/cpu6502/internal/memory"
)

var (
	image  = flag.String("image", "", "Path to a raw binary memory image to load")
	load   = flag.Uint("load", 0, "Address to load the image at")
	reset  = flag.Uint("reset", 0, "Program counter to reset the CPU to before tracing")
	steps  = flag.Uint("steps", 100, "Maximum number of instructions to trace")
	stopAt = flag.Uint("stop_opcode", 0x02, "Stop tracing once this opcode byte is fetched (default: the first documented halt-style opcode HLT/0x02, which is unmapped in this core)")
)

func main() {
	flag.Parse()
	if *image == "" {
		log.Fatal("-image is required")
	}
	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(out *os.File) error {
	data, err := ioutil.ReadFile(*image)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *image, err)
	}

	mem := memory.NewFlat()
	mem.Load(uint16(*load), data)

	c, err := cpu.New(mem)
	if err != nil {
		return fmt.Errorf("constructing cpu: %w", err)
	}
	c.Reset(uint16(*reset))

	for i := uint(0); i < *steps; i++ {
		pc := c.PC
		if c.Read(pc) == uint8(*stopAt) {
			break
		}
		text, _ := disasm.Step(pc, mem)
		cycles := c.Step()
		fmt.Fprintf(out, "%04X  %-20s  A=%02X X=%02X Y=%02X SP=%02X  cycles=%d\n", pc, text, c.A, c.X, c.Y, c.SP, cycles)
	}
	return nil
}
