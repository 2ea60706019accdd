package asm

import (
	"github.com/shaharkabesa/assembly-emulator/isa"
)

type binaryFamily struct {
	rr, rImm, rMem, rIdx byte
}

var binaryFamilies = map[string]binaryFamily{
	"ADD": {isa.OpAddRR, isa.OpAddRImm, isa.OpAddRMem, isa.OpAddRIdx},
	"SUB": {isa.OpSubRR, isa.OpSubRImm, isa.OpSubRMem, isa.OpSubRIdx},
	"CMP": {isa.OpCmpRR, isa.OpCmpRImm, isa.OpCmpRMem, isa.OpCmpRIdx},
	"AND": {isa.OpAndRR, isa.OpAndRImm, isa.OpAndRMem, isa.OpAndRIdx},
	"OR":  {isa.OpOrRR, isa.OpOrRImm, isa.OpOrRMem, isa.OpOrRIdx},
	"XOR": {isa.OpXorRR, isa.OpXorRImm, isa.OpXorRMem, isa.OpXorRIdx},
}

type singleRegFamily struct {
	reg byte
	// mem/idx are 0 when the mnemonic has no memory form (MUL, DIV).
	mem, idx byte
}

var singleRegFamilies = map[string]singleRegFamily{
	"INC": {isa.OpIncR, isa.OpIncMem, isa.OpIncIdx},
	"DEC": {isa.OpDecR, isa.OpDecMem, isa.OpDecIdx},
	"NOT": {isa.OpNotR, isa.OpNotMem, isa.OpNotIdx},
	"MUL": {isa.OpMulR, 0, 0},
	"DIV": {isa.OpDivR, 0, 0},
}

func isKnownMnemonic(m string) bool {
	if _, ok := binaryFamilies[m]; ok {
		return true
	}
	if _, ok := singleRegFamilies[m]; ok {
		return true
	}
	if _, ok := isa.ConditionMnemonics[m]; ok {
		return true
	}
	switch m {
	case "MOV", "JMP", "LOOP", "INT", "NOP", "HLT", "RET":
		return true
	}
	return false
}

// assemble encodes one instruction line. When resolve is false (pass 1),
// undefined symbols evaluate to 0 instead of erroring, so the returned
// byte count - the only thing pass 1 needs - is still correct for forward
// references. curAddr is the address the instruction starts at.
func assemble(mnemonic string, rawOperands []string, curAddr uint16, syms symbolTable, resolve bool) ([]byte, error) {
	ops := make([]operand, len(rawOperands))
	for i, raw := range rawOperands {
		ops[i] = parseOperandSyntax(raw)
	}

	if fam, ok := binaryFamilies[mnemonic]; ok {
		return assembleBinary(fam, ops, curAddr, syms, resolve)
	}
	if fam, ok := singleRegFamilies[mnemonic]; ok {
		return assembleSingle(mnemonic, fam, ops, curAddr, syms, resolve)
	}
	if cond, ok := isa.ConditionMnemonics[mnemonic]; ok {
		return assembleJcc(cond, ops, curAddr, syms, resolve)
	}

	switch mnemonic {
	case "MOV":
		return assembleMov(ops, curAddr, syms, resolve)
	case "JMP":
		return assembleJmp(ops, curAddr, syms, resolve)
	case "LOOP":
		return assembleLoop(ops, curAddr, syms, resolve)
	case "INT":
		return assembleInt(ops, curAddr, syms, resolve)
	case "NOP":
		return []byte{isa.OpNOP}, expectOperandCount(ops, 0, mnemonic)
	case "HLT":
		return []byte{isa.OpHLT}, expectOperandCount(ops, 0, mnemonic)
	case "RET":
		return []byte{isa.OpRET}, expectOperandCount(ops, 0, mnemonic)
	}
	return nil, &diagnosticError{"unknown mnemonic: " + mnemonic}
}

func expectOperandCount(ops []operand, want int, mnemonic string) error {
	if len(ops) != want {
		return &diagnosticError{"unsupported operand shape for " + mnemonic}
	}
	return nil
}

// --- MOV ---

func assembleMov(ops []operand, curAddr uint16, syms symbolTable, resolve bool) ([]byte, error) {
	if len(ops) != 2 {
		return nil, &diagnosticError{"MOV requires two operands"}
	}
	dst, src := ops[0], ops[1]

	if dst.isRegister {
		if src.isRegister {
			return []byte{isa.OpMovRR, dst.regID<<4 | src.regID}, nil
		}
		if base, idx, ok := src.isIndexed(); ok {
			addr, err := resolveValue(base, curAddr, syms, resolve)
			if err != nil {
				return nil, err
			}
			return []byte{isa.OpMovRIndex, dst.regID, idx, byte(addr), byte(addr >> 8)}, nil
		}
		if src.isBracketed {
			addr, err := resolveValue(src.bracketInner, curAddr, syms, resolve)
			if err != nil {
				return nil, err
			}
			return []byte{isa.OpMovRMem, dst.regID, byte(addr), byte(addr >> 8)}, nil
		}
		// Bare identifier or number as source: immediate value (a plain
		// label's address, an EQU constant, or a literal number).
		imm, err := resolveValue(src.text, curAddr, syms, resolve)
		if err != nil {
			return nil, err
		}
		return []byte{isa.OpMovRImm, dst.regID, byte(imm), byte(imm >> 8)}, nil
	}

	// Destination names memory: bracketed, indexed, or a bare label with
	// no register role (there is no valid reading of a bare non-register
	// destination other than "write to this address").
	if base, idx, ok := dst.isIndexed(); ok {
		addr, err := resolveValue(base, curAddr, syms, resolve)
		if err != nil {
			return nil, err
		}
		if src.isRegister {
			return []byte{isa.OpMovIndexR, src.regID, idx, byte(addr), byte(addr >> 8)}, nil
		}
		if src.isBracketed {
			return nil, &diagnosticError{errMemToMemory}
		}
		imm, err := resolveValue(src.text, curAddr, syms, resolve)
		if err != nil {
			return nil, err
		}
		return []byte{isa.OpMovIdxImm8, idx, byte(addr), byte(addr >> 8), byte(imm)}, nil
	}

	var addrText string
	if dst.isBracketed {
		addrText = dst.bracketInner
	} else {
		addrText = dst.text
	}
	addr, err := resolveValue(addrText, curAddr, syms, resolve)
	if err != nil {
		return nil, err
	}
	if src.isRegister {
		return []byte{isa.OpMovMemR, src.regID, byte(addr), byte(addr >> 8)}, nil
	}
	if src.isBracketed {
		return nil, &diagnosticError{errMemToMemory}
	}
	imm, err := resolveValue(src.text, curAddr, syms, resolve)
	if err != nil {
		return nil, err
	}
	return []byte{isa.OpMovMemImm, byte(addr), byte(addr >> 8), byte(imm)}, nil
}

// --- ADD/SUB/CMP/AND/OR/XOR ---

func assembleBinary(fam binaryFamily, ops []operand, curAddr uint16, syms symbolTable, resolve bool) ([]byte, error) {
	if len(ops) != 2 {
		return nil, &diagnosticError{"expected two operands"}
	}
	dst, src := ops[0], ops[1]
	if !dst.isRegister {
		return nil, &diagnosticError{"destination must be a register"}
	}
	if src.isRegister {
		return []byte{fam.rr, dst.regID<<4 | src.regID}, nil
	}
	if base, idx, ok := src.isIndexed(); ok {
		addr, err := resolveValue(base, curAddr, syms, resolve)
		if err != nil {
			return nil, err
		}
		return []byte{fam.rIdx, dst.regID, idx, byte(addr), byte(addr >> 8)}, nil
	}
	if src.isBracketed {
		addr, err := resolveValue(src.bracketInner, curAddr, syms, resolve)
		if err != nil {
			return nil, err
		}
		return []byte{fam.rMem, dst.regID, byte(addr), byte(addr >> 8)}, nil
	}
	imm, err := resolveValue(src.text, curAddr, syms, resolve)
	if err != nil {
		return nil, err
	}
	return []byte{fam.rImm, dst.regID, byte(imm), byte(imm >> 8)}, nil
}

// --- INC/DEC/NOT/MUL/DIV ---

func assembleSingle(mnemonic string, fam singleRegFamily, ops []operand, curAddr uint16, syms symbolTable, resolve bool) ([]byte, error) {
	if len(ops) != 1 {
		return nil, &diagnosticError{"invalid operand to " + mnemonic}
	}
	op := ops[0]
	if op.isRegister {
		return []byte{fam.reg, op.regID}, nil
	}
	if fam.mem == 0 {
		return nil, &diagnosticError{"invalid operand to " + mnemonic}
	}
	if base, idx, ok := op.isIndexed(); ok {
		addr, err := resolveValue(base, curAddr, syms, resolve)
		if err != nil {
			return nil, err
		}
		return []byte{fam.idx, idx, byte(addr), byte(addr >> 8)}, nil
	}
	var addrText string
	if op.isBracketed {
		addrText = op.bracketInner
	} else {
		addrText = op.text
	}
	addr, err := resolveValue(addrText, curAddr, syms, resolve)
	if err != nil {
		return nil, err
	}
	return []byte{fam.mem, byte(addr), byte(addr >> 8)}, nil
}

// --- control flow ---

func assembleJmp(ops []operand, curAddr uint16, syms symbolTable, resolve bool) ([]byte, error) {
	if len(ops) != 1 {
		return nil, &diagnosticError{"JMP requires one operand"}
	}
	target, err := resolveValue(ops[0].text, curAddr, syms, resolve)
	if err != nil {
		return nil, err
	}
	disp := int32(target) - int32(curAddr+3)
	return []byte{isa.OpJmpRel16, byte(uint16(disp)), byte(uint16(disp) >> 8)}, nil
}

func assembleJcc(opcode byte, ops []operand, curAddr uint16, syms symbolTable, resolve bool) ([]byte, error) {
	if len(ops) != 1 {
		return nil, &diagnosticError{"conditional jump requires one operand"}
	}
	target, err := resolveValue(ops[0].text, curAddr, syms, resolve)
	if err != nil {
		return nil, err
	}
	disp := int32(target) - int32(curAddr+2)
	if resolve && (disp < -128 || disp > 127) {
		return nil, &diagnosticError{"jump target out of 8-bit displacement range"}
	}
	return []byte{opcode, byte(int8(disp))}, nil
}

func assembleLoop(ops []operand, curAddr uint16, syms symbolTable, resolve bool) ([]byte, error) {
	if len(ops) != 1 {
		return nil, &diagnosticError{"LOOP requires one operand"}
	}
	target, err := resolveValue(ops[0].text, curAddr, syms, resolve)
	if err != nil {
		return nil, err
	}
	disp := int32(target) - int32(curAddr+2)
	if resolve && (disp < -128 || disp > 127) {
		return nil, &diagnosticError{"jump target out of 8-bit displacement range"}
	}
	return []byte{isa.OpLoopRel8, byte(int8(disp))}, nil
}

func assembleInt(ops []operand, curAddr uint16, syms symbolTable, resolve bool) ([]byte, error) {
	if len(ops) != 1 {
		return nil, &diagnosticError{"INT requires one operand"}
	}
	v, err := resolveValue(ops[0].text, curAddr, syms, resolve)
	if err != nil {
		return nil, err
	}
	return []byte{isa.OpInt, byte(v)}, nil
}
