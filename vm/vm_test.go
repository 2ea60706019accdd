package vm

import (
	"testing"

	"github.com/shaharkabesa/assembly-emulator/cpu"
)

func runToHalt(t *testing.T, s *CpuState) string {
	t.Helper()
	var out string
	for i := 0; i < 1000; i++ {
		chunk, halted, err := Step(s)
		out += chunk
		if err != nil {
			t.Fatalf("Step error: %v", err)
		}
		if halted {
			return out
		}
	}
	t.Fatal("program did not halt")
	return ""
}

func TestHelloWorldEndToEnd(t *testing.T) {
	src := "MOV AH, 09h\nMOV DX, msg\nINT 21h\nHLT\nmsg: DB \"Hi$\"\n"
	res := Assemble(src)
	if len(res.Errors) != 0 {
		t.Fatalf("assemble errors: %v", res.Errors)
	}

	s := NewState()
	Load(s, res.Image[:], res.Entry)
	if got := runToHalt(t, s); got != "Hi" {
		t.Fatalf("output = %q, want %q", got, "Hi")
	}
}

func TestCmpSignedJumpEndToEnd(t *testing.T) {
	src := "MOV AX,10\nMOV BX,20\nCMP AX,BX\nJL less\nHLT\nless: MOV CX,1\nHLT\n"
	res := Assemble(src)
	if len(res.Errors) != 0 {
		t.Fatalf("assemble errors: %v", res.Errors)
	}

	s := NewState()
	Load(s, res.Image[:], res.Entry)
	runToHalt(t, s)
	if s.Registers.CX() != 1 {
		t.Fatalf("CX = %d, want 1", s.Registers.CX())
	}
	if s.Flags.ZF || !s.Flags.SF || !s.Flags.CF {
		t.Fatalf("flags = {ZF:%v SF:%v CF:%v}, want {false true true}", s.Flags.ZF, s.Flags.SF, s.Flags.CF)
	}
}

func TestMul16BitEndToEnd(t *testing.T) {
	src := "MOV AX,0x1000\nMOV BX,0x0010\nMUL BX\nHLT\n"
	res := Assemble(src)
	if len(res.Errors) != 0 {
		t.Fatalf("assemble errors: %v", res.Errors)
	}

	s := NewState()
	Load(s, res.Image[:], res.Entry)
	runToHalt(t, s)
	if s.Registers.AX() != 0 || s.Registers.DX() != 1 {
		t.Fatalf("AX:DX = 0x%04X:0x%04X, want 0x0000:0x0001", s.Registers.AX(), s.Registers.DX())
	}
}

func TestIndexedLoadEndToEnd(t *testing.T) {
	src := "MOV SI,2\nMOV AL, data[SI]\nHLT\ndata: DB 11h, 22h, 33h, 44h\n"
	res := Assemble(src)
	if len(res.Errors) != 0 {
		t.Fatalf("assemble errors: %v", res.Errors)
	}

	s := NewState()
	Load(s, res.Image[:], res.Entry)
	runToHalt(t, s)
	if s.Registers.AL() != 0x33 {
		t.Fatalf("AL = 0x%02X, want 0x33", s.Registers.AL())
	}
	if s.Registers.AH() != 0 {
		t.Fatalf("AH = 0x%02X, want 0 (unchanged)", s.Registers.AH())
	}
}

func TestDivideByZeroEndToEnd(t *testing.T) {
	src := "MOV AX,10\nMOV BL,0\nDIV BL\nHLT\n"
	res := Assemble(src)
	if len(res.Errors) != 0 {
		t.Fatalf("assemble errors: %v", res.Errors)
	}

	s := NewState()
	Load(s, res.Image[:], res.Entry)

	var lastErr error
	for i := 0; i < 10; i++ {
		_, halted, err := Step(s)
		if err != nil {
			lastErr = err
			break
		}
		if halted {
			t.Fatal("program halted without faulting")
		}
	}
	if lastErr == nil {
		t.Fatal("expected a divide-by-zero fault")
	}
	if lastErr.Error() != "Divide by Zero" {
		t.Fatalf("error = %q, want %q", lastErr.Error(), "Divide by Zero")
	}
	if s.Status != cpu.StatusError {
		t.Fatalf("Status = %v, want StatusError", s.Status)
	}
	if s.Error != "Divide by Zero" {
		t.Fatalf("state.Error = %q, want %q", s.Error, "Divide by Zero")
	}
}
