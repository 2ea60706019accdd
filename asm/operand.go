package asm

import (
	"strings"

	"github.com/shaharkabesa/assembly-emulator/isa"
)

// operand is the syntactic shape of one parsed operand text, before any
// symbol is resolved. Resolution (turning a bare identifier into a
// number) happens later and depends on which role the operand plays for
// its mnemonic - the same text "data" is an address when it's the lone
// operand of INC and an address-valued immediate when it's the source of
// MOV AX, data.
type operand struct {
	text         string
	isRegister   bool
	regID        byte
	isBracketed  bool
	bracketBase  string // text before '[', empty for a pure [expr]
	bracketInner string // text inside the brackets
}

func parseOperandSyntax(text string) operand {
	text = strings.TrimSpace(text)
	o := operand{text: text}
	if id, ok := isa.LookupRegister(strings.ToUpper(text)); ok {
		o.isRegister = true
		o.regID = id
		return o
	}
	if i := strings.IndexByte(text, '['); i >= 0 && strings.HasSuffix(text, "]") {
		o.isBracketed = true
		o.bracketBase = strings.TrimSpace(text[:i])
		o.bracketInner = strings.TrimSpace(text[i+1 : len(text)-1])
	}
	return o
}

// isIndexed reports whether a bracketed operand is the indexed form
// LABEL[REG] rather than a plain [expr] direct address: it carries a
// non-empty base and the bracket contents name a register.
func (o operand) isIndexed() (base string, idx byte, ok bool) {
	if !o.isBracketed || o.bracketBase == "" {
		return "", 0, false
	}
	id, ok := isa.LookupRegister(strings.ToUpper(o.bracketInner))
	if !ok {
		return "", 0, false
	}
	return o.bracketBase, id, true
}

// resolveValue resolves a bare expression (number, "$", or symbol name) to
// a 16-bit value. curAddr is the address of the start of the instruction
// currently being assembled, for "$". When resolve is false (pass 1) an
// unresolved symbol evaluates to 0 rather than erroring, so forward
// references don't block length computation.
func resolveValue(text string, curAddr uint16, syms symbolTable, resolve bool) (uint16, error) {
	text = strings.TrimSpace(text)
	if text == "$" {
		return curAddr, nil
	}
	if v, ok := parseNumber(text); ok {
		return v, nil
	}
	if !isValidIdentifier(text) {
		return 0, &diagnosticError{"unparseable operand: " + text}
	}
	v, ok := syms.lookup(text)
	if ok {
		return v, nil
	}
	if !resolve {
		return 0, nil
	}
	return 0, &diagnosticError{"undefined symbol: " + text}
}
