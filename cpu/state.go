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

import "github.com/shaharkabesa/assembly-emulator/memory"

// Status is the host-facing lifecycle of a CpuState. Step sets it to
// StatusRunning, StatusIdle (halted) or StatusError (fault) on every call;
// it never sets StatusPaused - that one's a host concern, for a debugger
// that holds the state between single steps.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// CpuState aggregates everything step() mutates plus the host-facing
// metadata spec §3 asks the core to carry for completeness: Status,
// Error and a captured output log. CompatMode switches an unrecognized
// opcode from faulting to a silent NOP, for round-tripping images
// assembled against an older, more permissive build of this core.
type CpuState struct {
	Memory    memory.Image
	Registers Registers
	Flags     Flags

	Status Status
	Error  string
	Output []string

	CompatMode bool
}

// NewState returns a fresh CpuState with every register at its power-on
// value: all zero except SP=0xFFFE and IP=0x100.
func NewState() *CpuState {
	s := &CpuState{}
	s.Registers.Reset()
	return s
}

// Load copies image into state's memory and sets IP to entry, resetting
// Status to idle. Ownership of image does not transfer: Load copies.
func Load(s *CpuState, image []byte, entry uint16) {
	s.Memory.Load(image)
	s.Registers.IP = entry
	s.Status = StatusIdle
	s.Error = ""
}
