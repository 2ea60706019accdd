/*
Copyright (C) 2019-2020 Andreas T Jonsson

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package cpu

import (
	"github.com/shaharkabesa/assembly-emulator/internal/fault"
	"github.com/shaharkabesa/assembly-emulator/isa"
	"github.com/shaharkabesa/assembly-emulator/memory"
)

// opcodeFunc decodes and executes one instruction body, having already
// consumed the opcode byte. It returns an INT 21h output payload, a halt
// request, or a fault.
type opcodeFunc func(s *CpuState) (output string, halted bool, err error)

var opcodeTable [256]opcodeFunc

// fetch8 reads the byte at the current IP and advances IP by one. The
// address space is exactly 2^16 bytes and IP is a uint16, so this can
// never index outside memory - it can only wrap from 0xFFFF to 0x0000.
// Only jump and loop targets (see jumpTo), not sequential fetch, raise
// IpOutOfBounds.
func fetch8(s *CpuState) byte {
	b, _ := s.Memory.ReadByte(uint32(s.Registers.IP))
	s.Registers.IP++
	return b
}

func fetch16(s *CpuState) uint16 {
	lo := fetch8(s)
	hi := fetch8(s)
	return uint16(lo) | uint16(hi)<<8
}

// jumpTo validates a computed jump/loop target against invariant 1 (IP
// always in [0, 65536)) before committing it.
func jumpTo(s *CpuState, target int32) error {
	if target < 0 || target >= memory.Size {
		return fault.New(fault.IPOutOfBounds, nil)
	}
	s.Registers.IP = uint16(target)
	return nil
}

// loc names either a register half/word or a resolved memory address, so
// the binary-op handlers can read/write either side uniformly.
type loc struct {
	isReg bool
	reg   byte
	addr  uint32
}

func regLoc(id byte) loc { return loc{isReg: true, reg: id} }
func memLoc(addr uint32) loc { return loc{addr: addr} }

func (l loc) read8(s *CpuState) (byte, error) {
	if l.isReg {
		return s.Registers.Read8(l.reg), nil
	}
	v, err := s.Memory.ReadByte(l.addr)
	if err != nil {
		return 0, fault.New(fault.MemoryOutOfBounds, err)
	}
	return v, nil
}

func (l loc) write8(s *CpuState, v byte) error {
	if l.isReg {
		s.Registers.Write8(l.reg, v)
		return nil
	}
	if err := s.Memory.WriteByte(l.addr, v); err != nil {
		return fault.New(fault.MemoryOutOfBounds, err)
	}
	return nil
}

func (l loc) read16(s *CpuState) (uint16, error) {
	if l.isReg {
		return s.Registers.Read16(l.reg), nil
	}
	v, err := s.Memory.ReadWord(l.addr)
	if err != nil {
		return 0, fault.New(fault.MemoryOutOfBounds, err)
	}
	return v, nil
}

func (l loc) write16(s *CpuState, v uint16) error {
	if l.isReg {
		s.Registers.Write16(l.reg, v)
		return nil
	}
	if err := s.Memory.WriteWord(l.addr, v); err != nil {
		return fault.New(fault.MemoryOutOfBounds, err)
	}
	return nil
}

// readWidth/writeWidth pick 8 or 16 bit access by the width argument,
// for register and memory locations alike.
func (l loc) readWidth(s *CpuState, width int) (uint32, error) {
	if width == 8 {
		v, err := l.read8(s)
		return uint32(v), err
	}
	v, err := l.read16(s)
	return uint32(v), err
}

func (l loc) writeWidth(s *CpuState, width int, v uint32) error {
	if width == 8 {
		return l.write8(s, byte(v))
	}
	return l.write16(s, uint16(v))
}

// fetchIndexed reads an [index_id][base_lo][base_hi] triple and resolves
// the effective address base + regs[index_id], wrapped into the 16-bit
// address space.
func fetchIndexed(s *CpuState) uint32 {
	idx := fetch8(s)
	base := fetch16(s)
	return (uint32(base) + uint32(s.Registers.ReadWidth(idx))) & 0xFFFF
}

func fetchDirect(s *CpuState) uint32 {
	return uint32(fetch16(s))
}

// evalCondition evaluates the Jcc condition carried by a conditional-jump
// opcode against the current flags.
func evalCondition(op byte, f *Flags) bool {
	switch op {
	case isa.OpJE:
		return f.ZF
	case isa.OpJNE:
		return !f.ZF
	case isa.OpJL:
		return f.SF != f.OF
	case isa.OpJLE:
		return f.ZF || f.SF != f.OF
	case isa.OpJG:
		return !f.ZF && f.SF == f.OF
	case isa.OpJGE:
		return f.SF == f.OF
	case isa.OpJB:
		return f.CF
	case isa.OpJBE:
		return f.CF || f.ZF
	case isa.OpJA:
		return !f.CF && !f.ZF
	case isa.OpJAE:
		return !f.CF
	default:
		return false
	}
}

// Step decodes and executes exactly one instruction starting at
// state.Registers.IP, mutating state in place. A fault leaves whatever
// writes already landed before it was raised (the source this core is
// based on makes the same trade-off: a divide fault happens after the
// operands and the instruction length have already been consumed).
//
// Before returning, Step folds the outcome into the host-facing Status/
// Error fields: a fault sets Status to StatusError and Error to the
// fault's message, a halt sets Status to StatusIdle, and anything else
// leaves it StatusRunning. This is what lets a divide fault's
// Error="Divide by Zero" be observed on state itself, not just in the
// returned err.
func Step(s *CpuState) (output string, halted bool, err error) {
	op := fetch8(s)
	fn := opcodeTable[op]
	if fn == nil {
		if s.CompatMode {
			output, halted, err = "", false, nil
		} else {
			output, halted, err = "", false, fault.New(fault.UnknownOpcode, nil)
		}
	} else {
		output, halted, err = fn(s)
	}

	switch {
	case err != nil:
		s.Status = StatusError
		s.Error = err.Error()
	case halted:
		s.Status = StatusIdle
	default:
		s.Status = StatusRunning
	}
	return output, halted, err
}

func init() {
	opcodeTable[isa.OpNOP] = opNop
	opcodeTable[isa.OpHLT] = opHlt
	opcodeTable[isa.OpRET] = opRet

	opcodeTable[isa.OpMovRR] = opMovRR
	opcodeTable[isa.OpMovRImm] = opMovRImm
	opcodeTable[isa.OpMovRIndex] = opMovRIndex
	opcodeTable[isa.OpMovIndexR] = opMovIndexR
	opcodeTable[isa.OpMovRMem] = opMovRMem
	opcodeTable[isa.OpMovMemR] = opMovMemR
	opcodeTable[isa.OpMovMemImm] = opMovMemImm
	opcodeTable[isa.OpMovIdxImm8] = opMovIdxImm8

	registerBinaryFamily(isa.OpAddRR, isa.OpAddRImm, isa.OpAddRMem, isa.OpAddRIdx, addCompute, true, true, false)
	registerBinaryFamily(isa.OpSubRR, isa.OpSubRImm, isa.OpSubRMem, isa.OpSubRIdx, subCompute, true, true, true)
	registerBinaryFamily(isa.OpCmpRR, isa.OpCmpRImm, isa.OpCmpRMem, isa.OpCmpRIdx, subCompute, false, true, true)
	registerBinaryFamily(isa.OpAndRR, isa.OpAndRImm, isa.OpAndRMem, isa.OpAndRIdx, andCompute, true, false, false)
	registerBinaryFamily(isa.OpOrRR, isa.OpOrRImm, isa.OpOrRMem, isa.OpOrRIdx, orCompute, true, false, false)
	registerBinaryFamily(isa.OpXorRR, isa.OpXorRImm, isa.OpXorRMem, isa.OpXorRIdx, xorCompute, true, false, false)

	opcodeTable[isa.OpIncR] = opIncDecReg(1)
	opcodeTable[isa.OpDecR] = opIncDecReg(-1)
	opcodeTable[isa.OpNotR] = opNotReg
	opcodeTable[isa.OpMulR] = opMul
	opcodeTable[isa.OpDivR] = opDiv

	opcodeTable[isa.OpIncMem] = opIncDecMem(1, fetchDirect)
	opcodeTable[isa.OpIncIdx] = opIncDecMem(1, fetchIndexed)
	opcodeTable[isa.OpDecMem] = opIncDecMem(-1, fetchDirect)
	opcodeTable[isa.OpDecIdx] = opIncDecMem(-1, fetchIndexed)
	opcodeTable[isa.OpNotMem] = opNotMem(fetchDirect)
	opcodeTable[isa.OpNotIdx] = opNotMem(fetchIndexed)

	opcodeTable[isa.OpJmpRel16] = opJmp
	opcodeTable[isa.OpLoopRel8] = opLoop
	opcodeTable[isa.OpInt] = opInt

	for _, op := range []byte{
		isa.OpJE, isa.OpJNE, isa.OpJL, isa.OpJLE, isa.OpJG,
		isa.OpJGE, isa.OpJB, isa.OpJBE, isa.OpJA, isa.OpJAE,
	} {
		opcodeTable[op] = jccHandler(op)
	}
}
