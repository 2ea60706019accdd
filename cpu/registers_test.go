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

import (
	"testing"

	"github.com/shaharkabesa/assembly-emulator/isa"
)

func TestRegisterHalvesAliasFullWord(t *testing.T) {
	var r Registers
	r.SetAX(0x1234)
	if r.AL() != 0x34 {
		t.Fatalf("AL = 0x%X, want 0x34", r.AL())
	}
	if r.AH() != 0x12 {
		t.Fatalf("AH = 0x%X, want 0x12", r.AH())
	}

	r.SetAL(0xFF)
	if r.AX() != 0x12FF {
		t.Fatalf("AX after SetAL = 0x%X, want 0x12FF", r.AX())
	}

	r.SetAH(0x00)
	if r.AX() != 0x00FF {
		t.Fatalf("AX after SetAH = 0x%X, want 0x00FF", r.AX())
	}
}

func TestResetPowerOnState(t *testing.T) {
	var r Registers
	r.SetAX(0xDEAD)
	r.Reset()
	if r.AX() != 0 {
		t.Fatalf("AX after Reset = 0x%X, want 0", r.AX())
	}
	if r.SP() != 0xFFFE {
		t.Fatalf("SP after Reset = 0x%X, want 0xFFFE", r.SP())
	}
	if r.IP != isa.DefaultEntry {
		t.Fatalf("IP after Reset = 0x%X, want 0x%X", r.IP, isa.DefaultEntry)
	}
}

func TestReadWriteWidthDispatch(t *testing.T) {
	var r Registers
	r.WriteWidth(isa.BL, 0xAB)
	if r.BL() != 0xAB {
		t.Fatalf("BL = 0x%X, want 0xAB", r.BL())
	}
	bx := uint16(0x1122)
	r.WriteWidth(isa.BX, bx)
	if r.BX() != bx {
		t.Fatalf("BX = 0x%X, want 0x1122", r.BX())
	}
	if r.ReadWidth(isa.BL) != uint16(byte(bx)) {
		t.Fatalf("ReadWidth(BL) = 0x%X, want 0x%X", r.ReadWidth(isa.BL), byte(bx))
	}
}

func TestGetValuesOrder(t *testing.T) {
	var r Registers
	r.SetAX(1)
	r.SetCX(2)
	r.SetDX(3)
	r.SetBX(4)
	r.SetSP(5)
	r.SetBP(6)
	r.SetSI(7)
	r.SetDI(8)
	got := r.GetValues()
	want := [12]uint16{1, 2, 3, 4, 5, 6, 7, 8, 0, 0, 0, 0}
	if got != want {
		t.Fatalf("GetValues() = %v, want %v", got, want)
	}
}
