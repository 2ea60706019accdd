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

import "github.com/shaharkabesa/assembly-emulator/isa"

// Registers is the 8086-like register file. The four general-purpose
// registers back their own 8-bit halves; there is no separate storage for
// AL/AH etc, matching the source's AX/SetAL aliasing.
type Registers struct {
	ax, cx, dx, bx uint16
	sp, bp, si, di uint16
	cs, ds, es, ss uint16 // dead state: never read or written by any opcode.
	IP             uint16
}

// Reset returns every register to its power-on value: all zero except SP
// and IP.
func (r *Registers) Reset() {
	*r = Registers{sp: 0xFFFE, IP: isa.DefaultEntry}
}

func (r *Registers) AL() byte     { return byte(r.ax) }
func (r *Registers) AH() byte     { return byte(r.ax >> 8) }
func (r *Registers) AX() uint16   { return r.ax }
func (r *Registers) SetAL(v byte) { r.ax = r.ax&0xFF00 | uint16(v) }
func (r *Registers) SetAH(v byte) { r.ax = r.ax&0x00FF | uint16(v)<<8 }
func (r *Registers) SetAX(v uint16) { r.ax = v }

func (r *Registers) CL() byte     { return byte(r.cx) }
func (r *Registers) CH() byte     { return byte(r.cx >> 8) }
func (r *Registers) CX() uint16   { return r.cx }
func (r *Registers) SetCL(v byte) { r.cx = r.cx&0xFF00 | uint16(v) }
func (r *Registers) SetCH(v byte) { r.cx = r.cx&0x00FF | uint16(v)<<8 }
func (r *Registers) SetCX(v uint16) { r.cx = v }

func (r *Registers) DL() byte     { return byte(r.dx) }
func (r *Registers) DH() byte     { return byte(r.dx >> 8) }
func (r *Registers) DX() uint16   { return r.dx }
func (r *Registers) SetDL(v byte) { r.dx = r.dx&0xFF00 | uint16(v) }
func (r *Registers) SetDH(v byte) { r.dx = r.dx&0x00FF | uint16(v)<<8 }
func (r *Registers) SetDX(v uint16) { r.dx = v }

func (r *Registers) BL() byte     { return byte(r.bx) }
func (r *Registers) BH() byte     { return byte(r.bx >> 8) }
func (r *Registers) BX() uint16   { return r.bx }
func (r *Registers) SetBL(v byte) { r.bx = r.bx&0xFF00 | uint16(v) }
func (r *Registers) SetBH(v byte) { r.bx = r.bx&0x00FF | uint16(v)<<8 }
func (r *Registers) SetBX(v uint16) { r.bx = v }

func (r *Registers) SP() uint16     { return r.sp }
func (r *Registers) SetSP(v uint16) { r.sp = v }
func (r *Registers) BP() uint16     { return r.bp }
func (r *Registers) SetBP(v uint16) { r.bp = v }
func (r *Registers) SI() uint16     { return r.si }
func (r *Registers) SetSI(v uint16) { r.si = v }
func (r *Registers) DI() uint16     { return r.di }
func (r *Registers) SetDI(v uint16) { r.di = v }

func (r *Registers) CS() uint16     { return r.cs }
func (r *Registers) SetCS(v uint16) { r.cs = v }
func (r *Registers) DS() uint16     { return r.ds }
func (r *Registers) SetDS(v uint16) { r.ds = v }
func (r *Registers) ES() uint16     { return r.es }
func (r *Registers) SetES(v uint16) { r.es = v }
func (r *Registers) SS() uint16     { return r.ss }
func (r *Registers) SetSS(v uint16) { r.ss = v }

// Read8 and Write8 access an 8-bit register half by isa register id
// (0..7). Read16/Write16 access a 16-bit register by id (8..15).
func (r *Registers) Read8(id byte) byte {
	switch id {
	case isa.AL:
		return r.AL()
	case isa.CL:
		return r.CL()
	case isa.DL:
		return r.DL()
	case isa.BL:
		return r.BL()
	case isa.AH:
		return r.AH()
	case isa.CH:
		return r.CH()
	case isa.DH:
		return r.DH()
	case isa.BH:
		return r.BH()
	default:
		return 0
	}
}

func (r *Registers) Write8(id byte, v byte) {
	switch id {
	case isa.AL:
		r.SetAL(v)
	case isa.CL:
		r.SetCL(v)
	case isa.DL:
		r.SetDL(v)
	case isa.BL:
		r.SetBL(v)
	case isa.AH:
		r.SetAH(v)
	case isa.CH:
		r.SetCH(v)
	case isa.DH:
		r.SetDH(v)
	case isa.BH:
		r.SetBH(v)
	}
}

func (r *Registers) Read16(id byte) uint16 {
	switch id {
	case isa.AX:
		return r.ax
	case isa.CX:
		return r.cx
	case isa.DX:
		return r.dx
	case isa.BX:
		return r.bx
	case isa.SP:
		return r.sp
	case isa.BP:
		return r.bp
	case isa.SI:
		return r.si
	case isa.DI:
		return r.di
	default:
		return 0
	}
}

func (r *Registers) Write16(id byte, v uint16) {
	switch id {
	case isa.AX:
		r.ax = v
	case isa.CX:
		r.cx = v
	case isa.DX:
		r.dx = v
	case isa.BX:
		r.bx = v
	case isa.SP:
		r.sp = v
	case isa.BP:
		r.bp = v
	case isa.SI:
		r.si = v
	case isa.DI:
		r.di = v
	}
}

// ReadWidth and WriteWidth dispatch on id's natural width, the accessor
// most instruction handlers want.
func (r *Registers) ReadWidth(id byte) uint16 {
	if isa.Width(id) == 8 {
		return uint16(r.Read8(id))
	}
	return r.Read16(id)
}

func (r *Registers) WriteWidth(id byte, v uint16) {
	if isa.Width(id) == 8 {
		r.Write8(id, byte(v))
	} else {
		r.Write16(id, v)
	}
}

// GetValues snapshots the twelve named 16-bit registers in display order,
// for a host's register inspector.
func (r *Registers) GetValues() [12]uint16 {
	return [12]uint16{
		r.ax, r.cx, r.dx, r.bx,
		r.sp, r.bp, r.si, r.di,
		r.es, r.cs, r.ss, r.ds,
	}
}
