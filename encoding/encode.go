package encoding

import "github.com/medek/dcpu-16/opcode"

const (
	opcodeMask = 0x1f
	argAShift  = 10
	argBShift  = 5
)

// Encode converts a fully-resolved instruction (no unresolved Expr
// operands remain) into its word sequence. A's extension word, if
// any, is emitted before B's, matching the order the original
// assembler builds words in.
func Encode(ins opcode.Instruction) ([]uint16, error) {
	aCode, aExt, err := encodeOperand(ins.A, true)
	if err != nil {
		return nil, err
	}

	var opWord uint16
	var bExt *uint16

	if ins.Op.IsSpecial() {
		special, ok := specialOpcodeValues[ins.Op]
		if !ok {
			return nil, &ReservedOpcodeError{}
		}
		opWord = (aCode << argAShift) | (special << argBShift)
	} else {
		binary, ok := binaryOpcodeValues[ins.Op]
		if !ok {
			return nil, &ReservedOpcodeError{}
		}
		var bCode uint16
		bCode, bExt, err = encodeOperand(ins.B, false)
		if err != nil {
			return nil, err
		}
		opWord = (aCode << argAShift) | (bCode << argBShift) | binary
	}

	words := make([]uint16, 1, 3)
	words[0] = opWord
	if aExt != nil {
		words = append(words, *aExt)
	}
	if bExt != nil {
		words = append(words, *bExt)
	}
	return words, nil
}

var binaryOpcodeValues = map[opcode.Op]uint16{
	opcode.SET: 0x01, opcode.ADD: 0x02, opcode.SUB: 0x03, opcode.MUL: 0x04,
	opcode.MLI: 0x05, opcode.DIV: 0x06, opcode.DVI: 0x07, opcode.MOD: 0x08,
	opcode.MDI: 0x09, opcode.AND: 0x0a, opcode.BOR: 0x0b, opcode.XOR: 0x0c,
	opcode.SHR: 0x0d, opcode.ASR: 0x0e, opcode.SHL: 0x0f, opcode.IFB: 0x10,
	opcode.IFC: 0x11, opcode.IFE: 0x12, opcode.IFN: 0x13, opcode.IFG: 0x14,
	opcode.IFA: 0x15, opcode.IFL: 0x16, opcode.IFU: 0x17, opcode.ADX: 0x1a,
	opcode.SBX: 0x1b, opcode.STI: 0x1e, opcode.STD: 0x1f,
}

var specialOpcodeValues = map[opcode.Op]uint16{
	opcode.JSR: 0x01, opcode.INT: 0x08, opcode.IAG: 0x09, opcode.IAS: 0x0a,
	opcode.RFI: 0x0b, opcode.IAQ: 0x0c, opcode.HWN: 0x10, opcode.HWQ: 0x11,
	opcode.HWI: 0x12,
}

// encodeOperand returns the 6-bit operand field value and, if the
// operand requires one, its extension word.
func encodeOperand(op opcode.Operand, isA bool) (code uint16, ext *uint16, err error) {
	switch v := op.(type) {
	case opcode.RegisterOperand:
		return uint16(v.Reg), nil, nil
	case opcode.IndirectRegister:
		return 0x08 + uint16(v.Reg), nil, nil
	case opcode.IndirectOffset:
		w, err := resolvedWord(v.Expr, v.NextWord)
		if err != nil {
			return 0, nil, err
		}
		return 0x10 + uint16(v.Reg), &w, nil
	case opcode.Pop:
		if !isA {
			return 0, nil, &PopInBError{}
		}
		return 0x18, nil, nil
	case opcode.Push:
		if isA {
			return 0, nil, &PushInAError{}
		}
		return 0x18, nil, nil
	case opcode.Peek:
		return 0x19, nil, nil
	case opcode.Pick:
		w, err := resolvedWord(v.Expr, v.NextWord)
		if err != nil {
			return 0, nil, err
		}
		return 0x1a, &w, nil
	case opcode.SPOperand:
		return 0x1b, nil, nil
	case opcode.PCOperand:
		return 0x1c, nil, nil
	case opcode.EXOperand:
		return 0x1d, nil, nil
	case opcode.NextWordIndirect:
		w, err := resolvedWord(v.Expr, v.NextWord)
		if err != nil {
			return 0, nil, err
		}
		return 0x1e, &w, nil
	case opcode.NextWordLiteral:
		w, err := resolvedWord(v.Expr, v.Value)
		if err != nil {
			return 0, nil, err
		}
		if isA && !v.Wide && isShortLiteral(w) {
			return toShortLiteral(w), nil, nil
		}
		return 0x1f, &w, nil
	case opcode.ShortLiteral:
		if !isA {
			w := uint16(v.Value)
			return 0x1f, &w, nil
		}
		return toShortLiteral(uint16(int16(v.Value))), nil, nil
	default:
		return 0, nil, &UnresolvedExprError{Expr: op}
	}
}

func resolvedWord(expr opcode.Expr, fallback uint16) (uint16, error) {
	if expr != nil {
		if c, ok := expr.(opcode.Constant); ok {
			return uint16(c.Value), nil
		}
		return 0, &UnresolvedExprError{Expr: expr}
	}
	return fallback, nil
}

// isShortLiteral reports whether w, interpreted as a signed 16-bit
// value, falls in [-1, 30] and can be packed into the A field.
func isShortLiteral(w uint16) bool {
	v := int32(int16(w))
	return v >= -1 && v <= 30
}

func toShortLiteral(w uint16) uint16 {
	v := int32(int16(w))
	return uint16(0x21 + v)
}
