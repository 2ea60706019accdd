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
	"testing"

	"github.com/shaharkabesa/assembly-emulator/internal/fault"
	"github.com/shaharkabesa/assembly-emulator/isa"
)

const testEntry = 0x100

// newImage builds a full 64 KiB load image with code placed at testEntry
// and, optionally, a second chunk placed at a data offset.
func newImage(code []byte, dataOffset int, data []byte) []byte {
	size := testEntry + len(code)
	if dataOffset+len(data) > size {
		size = dataOffset + len(data)
	}
	img := make([]byte, size)
	copy(img[testEntry:], code)
	if data != nil {
		copy(img[dataOffset:], data)
	}
	return img
}

func run(t *testing.T, s *CpuState) string {
	t.Helper()
	var out string
	for i := 0; i < 1000; i++ {
		chunk, halted, err := Step(s)
		out += chunk
		if err != nil {
			t.Fatalf("Step returned unexpected error: %v", err)
		}
		if halted {
			return out
		}
	}
	t.Fatal("program did not halt within 1000 steps")
	return ""
}

func TestHelloWorldViaInt21h(t *testing.T) {
	dataOffset := 0x200
	code := []byte{
		isa.OpMovRImm, isa.AX, 0x00, 0x09,
		isa.OpMovRImm, isa.DX, byte(dataOffset), byte(dataOffset >> 8),
		isa.OpInt, 0x21,
		isa.OpHLT,
	}
	img := newImage(code, dataOffset, []byte("HI$"))

	s := NewState()
	Load(s, img, testEntry)
	if got := run(t, s); got != "HI" {
		t.Fatalf("output = %q, want %q", got, "HI")
	}
}

func TestCmpAndSignedJumpLess(t *testing.T) {
	// MOV AX,5; MOV CX,10; CMP AX,CX; JL +5 (skips the "not taken" block)
	code := []byte{
		isa.OpMovRImm, isa.AX, 0x05, 0x00,
		isa.OpMovRImm, isa.CX, 0x0A, 0x00,
		isa.OpCmpRR, isa.AX<<4 | isa.CX,
		isa.OpJL, 5,
		isa.OpMovRImm, isa.AX, 0x99, 0x99, // not taken
		isa.OpHLT,
		isa.OpMovRImm, isa.AX, 0x11, 0x11, // taken target
		isa.OpHLT,
	}

	s := NewState()
	Load(s, newImage(code, 0, nil), testEntry)
	run(t, s)
	if s.Registers.AX() != 0x1111 {
		t.Fatalf("AX = 0x%X, want 0x1111 (JL should have been taken)", s.Registers.AX())
	}
}

func TestLoopCountdown(t *testing.T) {
	// MOV CX,3; loop: INC AX; LOOP loop; HLT
	loopRel8 := int8(-4)
	code := []byte{
		isa.OpMovRImm, isa.CX, 0x03, 0x00,
		isa.OpIncR, isa.AX,
		isa.OpLoopRel8, byte(loopRel8),
		isa.OpHLT,
	}

	s := NewState()
	Load(s, newImage(code, 0, nil), testEntry)
	run(t, s)
	if s.Registers.AX() != 3 {
		t.Fatalf("AX = %d, want 3", s.Registers.AX())
	}
	if s.Registers.CX() != 0 {
		t.Fatalf("CX = %d, want 0", s.Registers.CX())
	}
}

func Test16BitMulSetsCarryWhenUpperHalfNonzero(t *testing.T) {
	// MOV AX,2; MOV CX,0x8000; MUL CX -> DX:AX = 0x00010000
	code := []byte{
		isa.OpMovRImm, isa.AX, 0x02, 0x00,
		isa.OpMovRImm, isa.CX, 0x00, 0x80,
		isa.OpMulR, isa.CX,
		isa.OpHLT,
	}

	s := NewState()
	Load(s, newImage(code, 0, nil), testEntry)
	run(t, s)
	if s.Registers.AX() != 0x0000 || s.Registers.DX() != 0x0001 {
		t.Fatalf("AX:DX = 0x%X:0x%X, want 0x0000:0x0001", s.Registers.AX(), s.Registers.DX())
	}
	if !s.Flags.CF {
		t.Fatal("CF should be set when the product overflows AX alone")
	}
}

func TestIndexedLoadReadsBackStoredByte(t *testing.T) {
	base := uint16(0x300)
	// MOV SI,2; MOV [base+SI],0x55; MOV AL,[base+SI]
	code := []byte{
		isa.OpMovRImm, isa.SI, 0x02, 0x00,
		isa.OpMovIdxImm8, isa.SI, byte(base), byte(base >> 8), 0x55,
		isa.OpMovRIndex, isa.AL, isa.SI, byte(base), byte(base >> 8),
		isa.OpHLT,
	}

	s := NewState()
	Load(s, newImage(code, 0, nil), testEntry)
	run(t, s)
	if s.Registers.AL() != 0x55 {
		t.Fatalf("AL = 0x%X, want 0x55", s.Registers.AL())
	}
}

func TestDivideByZeroFaultsAndLeavesIPPastInstruction(t *testing.T) {
	// MOV AX,10; MOV CX,0; DIV CX
	code := []byte{
		isa.OpMovRImm, isa.AX, 0x0A, 0x00,
		isa.OpMovRImm, isa.CX, 0x00, 0x00,
		isa.OpDivR, isa.CX,
	}

	s := NewState()
	Load(s, newImage(code, 0, nil), testEntry)

	for i := 0; i < 2; i++ {
		if _, _, err := Step(s); err != nil {
			t.Fatalf("unexpected error priming registers: %v", err)
		}
	}

	_, halted, err := Step(s)
	if halted {
		t.Fatal("divide fault should not report halted")
	}
	f, ok := err.(*fault.Fault)
	if !ok {
		t.Fatalf("err = %T, want *fault.Fault", err)
	}
	if f.Kind != fault.DivideByZero {
		t.Fatalf("Kind = %v, want DivideByZero", f.Kind)
	}
	wantIP := uint16(testEntry + 8 + 2)
	if s.Registers.IP != wantIP {
		t.Fatalf("IP = 0x%X, want 0x%X (just past the DIV instruction)", s.Registers.IP, wantIP)
	}
	if s.Status != StatusError {
		t.Fatalf("Status = %v, want StatusError", s.Status)
	}
	if s.Error != "Divide by Zero" {
		t.Fatalf("Error = %q, want %q", s.Error, "Divide by Zero")
	}
}

func TestUnknownOpcodeFaultsByDefault(t *testing.T) {
	code := []byte{0xFF}
	s := NewState()
	Load(s, newImage(code, 0, nil), testEntry)

	_, _, err := Step(s)
	f, ok := err.(*fault.Fault)
	if !ok {
		t.Fatalf("err = %T, want *fault.Fault", err)
	}
	if f.Kind != fault.UnknownOpcode {
		t.Fatalf("Kind = %v, want UnknownOpcode", f.Kind)
	}
}

func TestUnknownOpcodeIsNopInCompatMode(t *testing.T) {
	code := []byte{0xFF, isa.OpHLT}
	s := NewState()
	s.CompatMode = true
	Load(s, newImage(code, 0, nil), testEntry)

	_, halted, err := Step(s)
	if err != nil {
		t.Fatalf("unexpected error in compat mode: %v", err)
	}
	if halted {
		t.Fatal("unknown opcode should not halt in compat mode")
	}
}
