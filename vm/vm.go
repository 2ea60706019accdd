// Package vm wires the assembler and the processor together behind the
// four calls a host actually needs: Assemble, NewState, Load and Step.
// Neither cpu nor asm imports the other - isa is their shared contract -
// so this package is where the two halves of the core pipeline meet.
package vm

import (
	"github.com/shaharkabesa/assembly-emulator/asm"
	"github.com/shaharkabesa/assembly-emulator/cpu"
)

// CpuState re-exports cpu.CpuState so callers that only import vm don't
// also need to import cpu for the type name.
type CpuState = cpu.CpuState

// Assemble compiles source into an image, entry point, sourcemap and any
// per-line diagnostics. A non-empty Errors means the caller should not
// Load the result.
func Assemble(source string) *asm.Result {
	return asm.Compile(source)
}

// NewState returns a fresh CpuState at its power-on register values.
func NewState() *CpuState {
	return cpu.NewState()
}

// Load copies image into state's memory and sets IP to entry.
func Load(s *CpuState, image []byte, entry uint16) {
	cpu.Load(s, image, entry)
}

// Step advances state by exactly one instruction.
func Step(s *CpuState) (output string, halted bool, err error) {
	return cpu.Step(s)
}
