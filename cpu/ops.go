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
)

func opNop(s *CpuState) (string, bool, error) { return "", false, nil }
func opHlt(s *CpuState) (string, bool, error) { return "", true, nil }

// opRet is reserved: this core never pushes a return address (no CALL),
// so RET has nothing to pop. It exists only so images that carry a
// trailing RET decode cleanly instead of faulting.
func opRet(s *CpuState) (string, bool, error) { return "", false, nil }

// --- MOV ---

func opMovRR(s *CpuState) (string, bool, error) {
	b := fetch8(s)
	dstID, srcID := b>>4, b&0xF
	s.Registers.WriteWidth(dstID, s.Registers.ReadWidth(srcID))
	return "", false, nil
}

func opMovRImm(s *CpuState) (string, bool, error) {
	dstID := fetch8(s)
	imm := fetch16(s)
	s.Registers.WriteWidth(dstID, imm)
	return "", false, nil
}

func opMovRIndex(s *CpuState) (string, bool, error) {
	dstID := fetch8(s)
	addr := fetchIndexed(s)
	width := isa.Width(dstID)
	v, err := memLoc(addr).readWidth(s, width)
	if err != nil {
		return "", false, err
	}
	s.Registers.WriteWidth(dstID, uint16(v))
	return "", false, nil
}

func opMovIndexR(s *CpuState) (string, bool, error) {
	srcID := fetch8(s)
	addr := fetchIndexed(s)
	width := isa.Width(srcID)
	if err := memLoc(addr).writeWidth(s, width, uint32(s.Registers.ReadWidth(srcID))); err != nil {
		return "", false, err
	}
	return "", false, nil
}

func opMovRMem(s *CpuState) (string, bool, error) {
	dstID := fetch8(s)
	addr := fetchDirect(s)
	width := isa.Width(dstID)
	v, err := memLoc(addr).readWidth(s, width)
	if err != nil {
		return "", false, err
	}
	s.Registers.WriteWidth(dstID, uint16(v))
	return "", false, nil
}

func opMovMemR(s *CpuState) (string, bool, error) {
	srcID := fetch8(s)
	addr := fetchDirect(s)
	width := isa.Width(srcID)
	if err := memLoc(addr).writeWidth(s, width, uint32(s.Registers.ReadWidth(srcID))); err != nil {
		return "", false, err
	}
	return "", false, nil
}

func opMovMemImm(s *CpuState) (string, bool, error) {
	addr := fetchDirect(s)
	imm := fetch8(s)
	if err := memLoc(addr).write8(s, imm); err != nil {
		return "", false, err
	}
	return "", false, nil
}

func opMovIdxImm8(s *CpuState) (string, bool, error) {
	addr := fetchIndexed(s)
	imm := fetch8(s)
	if err := memLoc(addr).write8(s, imm); err != nil {
		return "", false, err
	}
	return "", false, nil
}

// --- binary arithmetic/logic family (ADD, SUB, CMP, AND, OR, XOR) ---

type binCompute func(dst, src int32) int32

func addCompute(dst, src int32) int32 { return dst + src }
func subCompute(dst, src int32) int32 { return dst - src }
func andCompute(dst, src int32) int32 { return dst & src }
func orCompute(dst, src int32) int32  { return dst | src }
func xorCompute(dst, src int32) int32 { return dst ^ src }

// registerBinaryFamily wires the four operand shapes of one
// ADD/SUB/CMP/AND/OR/XOR-style mnemonic into the dispatch table. The
// memory operand, when present, is always the source; the destination is
// always the register named by the first operand byte, matching the
// "memory to memory not allowed" rule the assembler enforces.
func registerBinaryFamily(opRR, opImm, opMem, opIdx byte, compute binCompute, writeBack, setOF, isSub bool) {
	opcodeTable[opRR] = func(s *CpuState) (string, bool, error) {
		b := fetch8(s)
		dstID, srcID := b>>4, b&0xF
		width := isa.Width(dstID)
		dst := uint32(s.Registers.ReadWidth(dstID)) & widthMask(width)
		src := uint32(s.Registers.ReadWidth(srcID)) & widthMask(width)
		return binaryResult(s, width, dst, src, compute, regLoc(dstID), writeBack, setOF, isSub)
	}
	opcodeTable[opImm] = func(s *CpuState) (string, bool, error) {
		dstID := fetch8(s)
		imm := fetch16(s)
		width := isa.Width(dstID)
		dst := uint32(s.Registers.ReadWidth(dstID)) & widthMask(width)
		src := uint32(imm) & widthMask(width)
		return binaryResult(s, width, dst, src, compute, regLoc(dstID), writeBack, setOF, isSub)
	}
	opcodeTable[opMem] = func(s *CpuState) (string, bool, error) {
		dstID := fetch8(s)
		addr := fetchDirect(s)
		width := isa.Width(dstID)
		dst := uint32(s.Registers.ReadWidth(dstID)) & widthMask(width)
		srcV, err := memLoc(addr).readWidth(s, width)
		if err != nil {
			return "", false, err
		}
		src := srcV & widthMask(width)
		return binaryResult(s, width, dst, src, compute, regLoc(dstID), writeBack, setOF, isSub)
	}
	opcodeTable[opIdx] = func(s *CpuState) (string, bool, error) {
		dstID := fetch8(s)
		addr := fetchIndexed(s)
		width := isa.Width(dstID)
		dst := uint32(s.Registers.ReadWidth(dstID)) & widthMask(width)
		srcV, err := memLoc(addr).readWidth(s, width)
		if err != nil {
			return "", false, err
		}
		src := srcV & widthMask(width)
		return binaryResult(s, width, dst, src, compute, regLoc(dstID), writeBack, setOF, isSub)
	}
}

func binaryResult(s *CpuState, width int, dst, src uint32, compute binCompute, dest loc, writeBack, setOF, isSub bool) (string, bool, error) {
	raw := compute(int32(dst), int32(src))
	if setOF {
		if isSub {
			s.Flags.updateOverflowSub(width, int32(dst), int32(src), raw)
		} else {
			s.Flags.updateOverflowAdd(width, int32(dst), int32(src), raw)
		}
	}
	s.Flags.updateLogic(width, raw)
	if writeBack {
		if err := dest.writeWidth(s, width, uint32(raw)&widthMask(width)); err != nil {
			return "", false, err
		}
	}
	return "", false, nil
}

// --- INC/DEC/NOT ---

func opIncDecReg(delta int32) opcodeFunc {
	return func(s *CpuState) (string, bool, error) {
		id := fetch8(s)
		width := isa.Width(id)
		dst := int32(uint32(s.Registers.ReadWidth(id)) & widthMask(width))
		raw := dst + delta
		s.Flags.updateLogic(width, raw)
		if delta > 0 {
			s.Flags.updateOverflowAdd(width, dst, delta, raw)
		} else {
			s.Flags.updateOverflowSub(width, dst, -delta, raw)
		}
		s.Registers.WriteWidth(id, uint16(uint32(raw)&widthMask(width)))
		return "", false, nil
	}
}

func opNotReg(s *CpuState) (string, bool, error) {
	id := fetch8(s)
	width := isa.Width(id)
	v := uint32(s.Registers.ReadWidth(id)) & widthMask(width)
	result := ^v & widthMask(width)
	s.Registers.WriteWidth(id, uint16(result))
	return "", false, nil
}

// opIncDecMem and opNotMem implement the 8-bit memory/indexed forms of
// INC/DEC/NOT. There is no memory form of MUL/DIV: the semantics table
// only ever names a register operand for them, so no memory-form opcode
// is assigned to either.
func opIncDecMem(delta int32, addrFn func(*CpuState) uint32) opcodeFunc {
	return func(s *CpuState) (string, bool, error) {
		addr := addrFn(s)
		l := memLoc(addr)
		v, err := l.read8(s)
		if err != nil {
			return "", false, err
		}
		dst := int32(v)
		raw := dst + delta
		s.Flags.updateLogic(8, raw)
		if delta > 0 {
			s.Flags.updateOverflowAdd(8, dst, delta, raw)
		} else {
			s.Flags.updateOverflowSub(8, dst, -delta, raw)
		}
		if err := l.write8(s, byte(uint32(raw)&0xFF)); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
}

func opNotMem(addrFn func(*CpuState) uint32) opcodeFunc {
	return func(s *CpuState) (string, bool, error) {
		addr := addrFn(s)
		l := memLoc(addr)
		v, err := l.read8(s)
		if err != nil {
			return "", false, err
		}
		if err := l.write8(s, ^v); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
}

// --- MUL / DIV ---

// opMul sets CF and OF together, the way real MUL does: both true iff the
// product doesn't fit in the lower half alone (AL for the 8-bit form, AX
// for the 16-bit form). ZF/SF follow the full product, which 8086 leaves
// undefined for MUL but this core pins down for determinism.
func opMul(s *CpuState) (string, bool, error) {
	id := fetch8(s)
	width := isa.Width(id)
	r := uint32(s.Registers.ReadWidth(id))
	if width == 8 {
		product := uint32(s.Registers.AL()) * r
		s.Registers.SetAX(uint16(product))
		upper := product >> 8
		s.Flags.CF = upper != 0
		s.Flags.OF = upper != 0
		s.Flags.ZF = product == 0
		s.Flags.SF = product&width16MSB != 0
		return "", false, nil
	}
	product := uint64(s.Registers.AX()) * uint64(r)
	s.Registers.SetAX(uint16(product))
	s.Registers.SetDX(uint16(product >> 16))
	upper := product >> 16
	s.Flags.CF = upper != 0
	s.Flags.OF = upper != 0
	s.Flags.ZF = product == 0
	s.Flags.SF = product&0x80000000 != 0
	return "", false, nil
}

func opDiv(s *CpuState) (string, bool, error) {
	id := fetch8(s)
	width := isa.Width(id)
	r := s.Registers.ReadWidth(id)
	if r == 0 {
		return "", false, fault.New(fault.DivideByZero, nil)
	}
	if width == 8 {
		dividend := uint32(s.Registers.AX())
		divisor := uint32(r)
		quotient, remainder := dividend/divisor, dividend%divisor
		if quotient > 0xFF {
			return "", false, fault.New(fault.DivideOverflow, nil)
		}
		s.Registers.SetAL(byte(quotient))
		s.Registers.SetAH(byte(remainder))
		return "", false, nil
	}
	dividend := uint32(s.Registers.DX())<<16 | uint32(s.Registers.AX())
	divisor := uint32(r)
	quotient, remainder := dividend/divisor, dividend%divisor
	if quotient > 0xFFFF {
		return "", false, fault.New(fault.DivideOverflow, nil)
	}
	s.Registers.SetAX(uint16(quotient))
	s.Registers.SetDX(uint16(remainder))
	return "", false, nil
}

// --- control flow ---

func opJmp(s *CpuState) (string, bool, error) {
	disp := int16(fetch16(s))
	if err := jumpTo(s, int32(s.Registers.IP)+int32(disp)); err != nil {
		return "", false, err
	}
	return "", false, nil
}

func jccHandler(op byte) opcodeFunc {
	return func(s *CpuState) (string, bool, error) {
		disp := int8(fetch8(s))
		if evalCondition(op, &s.Flags) {
			if err := jumpTo(s, int32(s.Registers.IP)+int32(disp)); err != nil {
				return "", false, err
			}
		}
		return "", false, nil
	}
}

func opLoop(s *CpuState) (string, bool, error) {
	disp := int8(fetch8(s))
	cx := s.Registers.CX() - 1
	s.Registers.SetCX(cx)
	if cx != 0 {
		if err := jumpTo(s, int32(s.Registers.IP)+int32(disp)); err != nil {
			return "", false, err
		}
	}
	return "", false, nil
}

// --- INT 21h ---

const dollarTerminator = 0x24

func opInt(s *CpuState) (string, bool, error) {
	n := fetch8(s)
	if n != 0x21 {
		return "", false, nil
	}
	switch s.Registers.AH() {
	case 0x02:
		return string(rune(s.Registers.DL())), false, nil
	case 0x09:
		var out []byte
		addr := uint32(s.Registers.DX())
		for {
			b, err := s.Memory.ReadByte(addr)
			if err != nil {
				return "", false, fault.New(fault.MemoryOutOfBounds, err)
			}
			if b == dollarTerminator {
				break
			}
			out = append(out, b)
			addr++
		}
		return string(out), false, nil
	default:
		return "", false, nil
	}
}
