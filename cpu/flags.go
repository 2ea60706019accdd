/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package cpu

// Flags holds the nine named status bits. Only CF, ZF, SF and OF are ever
// consulted or updated by this core's instructions; PF, AF, TF, IF and DF
// are present for debugger parity and never change on their own.
type Flags struct {
	CF, PF, AF, ZF, SF, TF, IF, DF, OF bool
}

const (
	width8Mask  = 0xFF
	width8MSB   = 0x80
	width16Mask = 0xFFFF
	width16MSB  = 0x8000
)

// updateSZ sets ZF and SF from a result already masked to width bits
// (8 or 16). CF is left untouched; callers that need carry use
// updateLogic, which sets CF from the pre-mask result.
func (f *Flags) updateSZ(width int, masked uint32) {
	if width == 8 {
		f.ZF = masked&width8Mask == 0
		f.SF = masked&width8MSB != 0
	} else {
		f.ZF = masked&width16Mask == 0
		f.SF = masked&width16MSB != 0
	}
}

// updateLogic implements the ADD/SUB/CMP/AND/OR/XOR "flags are set from
// the raw result" rule from the opcode semantics table: ZF and SF come
// from the masked result, and CF is true iff the unmasked result over/underflowed
// the destination width. For AND/OR/XOR the two operands are already
// masked to width before the call, so raw can never exceed width's max or
// go negative and CF is always false - this reproduces the "CF can never
// be true for pure bitwise ops" note deliberately, rather than special-casing it.
func (f *Flags) updateLogic(width int, raw int32) {
	masked := uint32(raw) & widthMask(width)
	f.updateSZ(width, masked)
	f.CF = raw > int32(widthMax(width)) || raw < 0
}

func widthMask(width int) uint32 {
	if width == 8 {
		return width8Mask
	}
	return width16Mask
}

func widthMax(width int) int32 {
	return int32(widthMask(width))
}

// updateOverflowAdd and updateOverflowSub set OF the way real signed
// arithmetic would: for ADD, true when the two operands share a sign that
// the result doesn't preserve; for SUB, true when the operands differ in
// sign and the result's sign differs from the minuend's. The source this core is based on never set OF
// from arithmetic at all (Jcc read it anyway, so signed comparisons
// silently degraded to unsigned-with-SF); this core implements it so
// JL/JG and friends are genuine signed comparisons, per the recommended
// resolution to that ambiguity.
func (f *Flags) updateOverflowAdd(width int, a, b, res int32) {
	msb := int32(widthMask(width)>>1) + 1
	signA, signB, signR := a&msb != 0, b&msb != 0, (res&int32(widthMask(width)))&msb != 0
	f.OF = signA == signB && signR != signA
}

func (f *Flags) updateOverflowSub(width int, a, b, res int32) {
	msb := int32(widthMask(width)>>1) + 1
	signA, signB, signR := a&msb != 0, b&msb != 0, (res&int32(widthMask(width)))&msb != 0
	f.OF = signA != signB && signR != signA
}
