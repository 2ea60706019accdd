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

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/shaharkabesa/assembly-emulator/cpu"
	"github.com/shaharkabesa/assembly-emulator/memory"
	"github.com/shaharkabesa/assembly-emulator/vm"
)

// runDebug drives path one instruction at a time from a line-oriented
// REPL: step, regs, mem <addr>, go (step on any keystroke), run, quit.
func runDebug(path string) error {
	res, err := assembleFile(path)
	if err != nil {
		return err
	}

	s := vm.NewState()
	s.CompatMode = compatMode
	vm.Load(s, res.Image[:], res.Entry)
	s.Status = cpu.StatusPaused

	rl, err := readline.New("(vxtasm) ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}

		cmd := strings.Fields(line)
		if len(cmd) == 0 {
			continue
		}

		switch cmd[0] {
		case "step", "s":
			debugStep(s)
		case "go":
			debugStepOnKey(s)
		case "regs", "r":
			printRegisters(s)
		case "mem", "m":
			if len(cmd) < 2 {
				fmt.Println("usage: mem <addr> [len]")
				continue
			}
			debugDumpMem(s, cmd[1:])
		case "run":
			debugRun(s)
		case "quit", "q":
			return nil
		default:
			fmt.Println("commands: step, go, regs, mem <addr>, run, quit")
		}
	}
}

// debugStep advances one instruction, then leaves s paused for the next
// REPL command - Step itself marks s running or halted/errored, but
// control returning to the prompt without either of those means the
// debugger, not the program, is what's idle.
func debugStep(s *vm.CpuState) {
	out, halted, err := vm.Step(s)
	if out != "" {
		fmt.Print(out)
	}
	if err != nil {
		fmt.Println(err)
		return
	}
	if halted {
		fmt.Println("halted")
		return
	}
	s.Status = cpu.StatusPaused
}

func debugRun(s *vm.CpuState) {
	for {
		out, halted, err := vm.Step(s)
		if out != "" {
			fmt.Print(out)
		}
		if err != nil {
			fmt.Println(err)
			return
		}
		if halted {
			fmt.Println("halted")
			return
		}
	}
}

// debugStepOnKey steps once per keystroke, putting stdin into raw mode
// so a step doesn't require pressing Enter. Any 'q' exits the mode.
func debugStepOnKey(s *vm.CpuState) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Println("raw mode unavailable:", err)
		return
	}
	defer term.Restore(fd, oldState)

	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}
		if buf[0] == 'q' {
			s.Status = cpu.StatusPaused
			return
		}
		out, halted, err := vm.Step(s)
		if out != "" {
			fmt.Print(out)
		}
		if err != nil {
			fmt.Println("\r\n" + err.Error())
			return
		}
		if halted {
			fmt.Print("\r\nhalted\r\n")
			return
		}
	}
}

// debugDumpMem prints a single byte, or - when a length is given - a hex
// run of bytes read straight off the backing array via Memory.Bytes(),
// clamped to the address space so a long run near the top never panics.
func debugDumpMem(s *vm.CpuState, args []string) {
	addr, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 32)
	if err != nil {
		fmt.Println("bad address:", err)
		return
	}

	if len(args) < 2 {
		b, err := s.Memory.ReadByte(uint32(addr))
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("[0x%04X] = 0x%02X\n", addr, b)
		return
	}

	n, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		fmt.Println("bad length:", err)
		return
	}
	end := addr + n
	if end > memory.Size {
		end = memory.Size
	}
	if addr >= end {
		return
	}
	fmt.Printf("[0x%04X:0x%04X] = % X\n", addr, end, s.Memory.Bytes()[addr:end])
}
