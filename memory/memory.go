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

// Package memory holds the 64 KiB linear image shared by the assembler
// output and the processor's address space. Unlike the segmented
// Pointer/Address split this core was distilled from, there is only one
// flat address space here, so out-of-range accesses are reported to the
// caller instead of silently wrapping.
package memory

import "fmt"

// Size is the number of addressable bytes.
const Size = 0x10000

// OutOfRangeError is returned by any access whose address (or, for a
// 16-bit access, address+1) falls outside [0, Size).
type OutOfRangeError struct {
	Addr uint32
	Size int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("memory access out of bounds at 0x%X (width %d)", e.Addr, e.Size)
}

// Image is the 64 KiB byte array the assembler emits into and the
// processor executes out of.
type Image struct {
	bytes [Size]byte
}

// Bytes exposes the raw backing array, e.g. for copying an assembled
// image into a fresh Image, or for a host to dump memory for inspection.
func (m *Image) Bytes() []byte {
	return m.bytes[:]
}

func (m *Image) ReadByte(addr uint32) (byte, error) {
	if addr >= Size {
		return 0, &OutOfRangeError{addr, 1}
	}
	return m.bytes[addr], nil
}

func (m *Image) WriteByte(addr uint32, v byte) error {
	if addr >= Size {
		return &OutOfRangeError{addr, 1}
	}
	m.bytes[addr] = v
	return nil
}

// ReadWord reads a little-endian 16-bit value: low byte at addr, high
// byte at addr+1.
func (m *Image) ReadWord(addr uint32) (uint16, error) {
	if addr+1 >= Size {
		return 0, &OutOfRangeError{addr, 2}
	}
	return uint16(m.bytes[addr]) | uint16(m.bytes[addr+1])<<8, nil
}

func (m *Image) WriteWord(addr uint32, v uint16) error {
	if addr+1 >= Size {
		return &OutOfRangeError{addr, 2}
	}
	m.bytes[addr] = byte(v)
	m.bytes[addr+1] = byte(v >> 8)
	return nil
}

// Load copies src starting at offset 0, truncating or zero-filling as
// needed. It never fails: the destination is always exactly Size bytes.
func (m *Image) Load(src []byte) {
	m.bytes = [Size]byte{}
	copy(m.bytes[:], src)
}
