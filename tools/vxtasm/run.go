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
	"log"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/shaharkabesa/assembly-emulator/asm"
	"github.com/shaharkabesa/assembly-emulator/vm"
)

// assembleFile reads path through fs and compiles it. A non-empty
// asm.Result.Errors is reported as a single joined error; the caller
// should not Load a Result that came back that way.
func assembleFile(path string) (*asm.Result, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	res := vm.Assemble(string(src))
	if len(res.Errors) != 0 {
		return nil, errors.New(strings.Join(res.Errors, "\n"))
	}
	return res, nil
}

// runBatch assembles path and steps it to completion, shaped like the
// teacher's emuLoop: step until halted or a fault, log.Print the fault
// and return rather than panicking on it.
func runBatch(path string) error {
	res, err := assembleFile(path)
	if err != nil {
		return err
	}

	s := vm.NewState()
	s.CompatMode = compatMode
	vm.Load(s, res.Image[:], res.Entry)

	for {
		out, halted, err := vm.Step(s)
		if out != "" {
			fmt.Print(out)
		}
		if err != nil {
			if verbose {
				log.Printf("%+v", err)
				if u, ok := err.(interface{ Unwrap() error }); ok && u.Unwrap() != nil {
					log.Printf("cause: %+v", u.Unwrap())
				}
			} else {
				log.Print(err)
			}
			printRegisters(s)
			return nil
		}
		if halted {
			printRegisters(s)
			return nil
		}
	}
}

func printRegisters(s *vm.CpuState) {
	r := &s.Registers
	fmt.Printf("AX=%04X CX=%04X DX=%04X BX=%04X SP=%04X BP=%04X SI=%04X DI=%04X IP=%04X\n",
		r.AX(), r.CX(), r.DX(), r.BX(), r.SP(), r.BP(), r.SI(), r.DI(), r.IP)
	fmt.Printf("CF=%v ZF=%v SF=%v OF=%v\n", s.Flags.CF, s.Flags.ZF, s.Flags.SF, s.Flags.OF)
}
