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

// Command vxtasm assembles and runs the .asm source files the asm/cpu
// packages understand. Plain invocation batch-runs a program to
// completion; "vxtasm debug <file>" steps it one instruction at a time.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/shaharkabesa/assembly-emulator/version"
)

var (
	verbose    bool
	compatMode bool
)

var fs afero.Fs = afero.NewOsFs()

func init() {
	flag.BoolVar(&verbose, "v", false, "Print the fault cause chain on error")
	flag.BoolVar(&compatMode, "compat", false, "Treat unknown opcodes as NOP instead of faulting")
}

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) >= 1 && args[0] == "version" {
		fmt.Printf("vxtasm %s (%s)\n", version.Current.FullString(), version.Hash)
		return
	}

	if len(args) >= 1 && args[0] == "debug" {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: vxtasm debug <file.asm>")
			os.Exit(1)
		}
		if err := runDebug(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: vxtasm [-v] [-compat] <file.asm>")
		os.Exit(1)
	}
	if err := runBatch(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
