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

// Package fault carries the core's five run-time fault kinds. A Fault
// wraps its triggering cause with github.com/pkg/errors so a host running
// with -v can print a stack-ish chain, while Error() itself stays the
// single human-readable line the step contract promises.
package fault

import "github.com/pkg/errors"

// Kind enumerates the fault categories step() may raise.
type Kind int

const (
	IPOutOfBounds Kind = iota
	MemoryOutOfBounds
	DivideByZero
	DivideOverflow
	UnknownOpcode
)

func (k Kind) String() string {
	switch k {
	case IPOutOfBounds:
		return "IpOutOfBounds"
	case MemoryOutOfBounds:
		return "MemoryOutOfBounds"
	case DivideByZero:
		return "Divide by Zero"
	case DivideOverflow:
		return "Divide Overflow"
	case UnknownOpcode:
		return "UnknownOpcode"
	default:
		return "UnknownFault"
	}
}

// Fault is the error type every core-fatal condition is raised as.
type Fault struct {
	Kind  Kind
	cause error
}

// New wraps cause (which may be nil) under the given Kind.
func New(kind Kind, cause error) *Fault {
	if cause == nil {
		return &Fault{Kind: kind}
	}
	return &Fault{Kind: kind, cause: errors.WithStack(cause)}
}

func (f *Fault) Error() string {
	return f.Kind.String()
}

func (f *Fault) Unwrap() error {
	return f.cause
}
