// Package asm is the two-pass assembler: it turns source text into a flat
// 64 KiB bytecode image plus a sourcemap, following the same shape as the
// ABhL assembler's PassOne/PassTwo/PassThree split (see
// github.com/strickyak/ABhL, asm.go) adapted from its label-value symbol
// table to one that also carries EQU's explicit constant flag.
package asm

import (
	"fmt"
	"strings"

	"github.com/shaharkabesa/assembly-emulator/isa"
	"github.com/shaharkabesa/assembly-emulator/memory"
)

// Result is everything Compile produces. Image is always fully populated
// even when Errors is non-empty - assembly is best-effort per line.
type Result struct {
	Image     [memory.Size]byte
	Entry     uint16
	Errors    []string
	Sourcemap [memory.Size]int32
}

type line struct {
	*sourceLine
	length uint16 // bytes this line emits; fixed by pass 1, reused by pass 2
}

// Compile assembles source into a Result. It never panics on malformed
// user input; every failure becomes a "Line N: …" entry in Errors.
func Compile(source string) *Result {
	res := &Result{Entry: isa.DefaultEntry}
	for i := range res.Sourcemap {
		res.Sourcemap[i] = -1
	}

	lines := make([]*line, 0)
	for i, raw := range strings.Split(source, "\n") {
		parsed, err := parseLine(raw, i+1)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: %s", i+1, err))
			continue
		}
		if parsed == nil {
			continue
		}
		lines = append(lines, &line{sourceLine: parsed})
	}

	syms := make(symbolTable)
	passOne(lines, syms)
	passTwo(lines, syms, res)
	return res
}

// passOne assigns every label its address and every instruction/directive
// its emitted length, resolving symbols best-effort (undefined ⇒ 0) so
// forward references never block length computation.
func passOne(lines []*line, syms symbolTable) {
	offset := isa.DefaultEntry
	for _, l := range lines {
		if l.label != "" {
			syms.defineLabel(l.label, offset)
		}
		if l.mnemonic == "" {
			continue
		}
		switch l.mnemonic {
		case "ORG":
			if v, err := resolveOperand(l, 0, offset, syms, false); err == nil {
				offset = v
			}
		case "DB":
			offset += dbLength(l.operands, offset, syms)
		case "DW":
			offset += uint16(2 * len(l.operands))
		case "EQU":
			if v, err := resolveOperand(l, 0, offset, syms, false); err == nil && l.label != "" {
				syms.defineConstant(l.label, v)
			}
		default:
			b, err := assemble(l.mnemonic, l.operands, offset, syms, false)
			if err == nil {
				l.length = uint16(len(b))
				offset += l.length
			}
		}
	}
}

// passTwo rewalks the same lines with the now-complete symbol table,
// writing real bytes and sourcemap entries into res. Instruction/DB/DW
// lines always advance offset by the length pass 1 already computed, even
// when resolution now fails, so a line's own error can't desync every
// address after it.
func passTwo(lines []*line, syms symbolTable, res *Result) {
	offset := isa.DefaultEntry
	for _, l := range lines {
		if l.mnemonic == "" {
			continue
		}
		switch l.mnemonic {
		case "ORG":
			v, err := resolveOperand(l, 0, offset, syms, true)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Line %d: %s", l.lineNo, err))
				continue
			}
			offset = v
		case "DB":
			res.Sourcemap[offset] = int32(l.lineNo - 1)
			n := writeDB(res, l.operands, offset, syms, l.lineNo)
			offset += n
		case "DW":
			res.Sourcemap[offset] = int32(l.lineNo - 1)
			for _, raw := range l.operands {
				v, err := resolveValue(raw, offset, syms, true)
				if err != nil {
					res.Errors = append(res.Errors, fmt.Sprintf("Line %d: %s", l.lineNo, err))
				} else {
					res.Image[offset] = byte(v)
					res.Image[offset+1] = byte(v >> 8)
				}
				offset += 2
			}
		case "EQU":
			v, err := resolveOperand(l, 0, offset, syms, true)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Line %d: %s", l.lineNo, err))
				continue
			}
			if l.label != "" {
				syms.defineConstant(l.label, v)
			}
		default:
			res.Sourcemap[offset] = int32(l.lineNo - 1)
			b, err := assemble(l.mnemonic, l.operands, offset, syms, true)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Line %d: %s", l.lineNo, err))
			} else {
				copy(res.Image[offset:], b)
			}
			offset += l.length
		}
	}
}

func resolveOperand(l *line, i int, curAddr uint16, syms symbolTable, resolve bool) (uint16, error) {
	if len(l.operands) <= i {
		return 0, &diagnosticError{l.mnemonic + " requires an operand"}
	}
	return resolveValue(l.operands[i], curAddr, syms, resolve)
}

// dbLength computes how many bytes a DB line emits without requiring its
// symbols to be resolved yet - string literal length never depends on the
// symbol table, and a numeric-or-symbol operand is always exactly 1 byte.
func dbLength(operands []string, curAddr uint16, syms symbolTable) uint16 {
	var n uint16
	for _, op := range operands {
		if s, ok := quotedLiteral(op); ok {
			if decoded, err := decodeStringLiteral(s); err == nil {
				n += uint16(len(decoded))
				continue
			}
		}
		n++
	}
	return n
}

func writeDB(res *Result, operands []string, offset uint16, syms symbolTable, lineNo int) uint16 {
	var n uint16
	for _, op := range operands {
		if s, ok := quotedLiteral(op); ok {
			decoded, err := decodeStringLiteral(s)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Line %d: %s", lineNo, err))
				// dbLength already counted a malformed literal as one
				// placeholder byte; advance by the same one byte here so
				// every later operand on this line lands where pass 1
				// computed it would.
				n++
				continue
			}
			copy(res.Image[offset+n:], decoded)
			n += uint16(len(decoded))
			continue
		}
		v, err := resolveValue(op, offset+n, syms, true)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: %s", lineNo, err))
			n++
			continue
		}
		res.Image[offset+n] = byte(v)
		n++
	}
	return n
}

func quotedLiteral(s string) (string, bool) {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1], true
		}
	}
	return "", false
}
