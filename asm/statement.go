package asm

import "github.com/medek/dcpu-16/opcode"

// statement is one parsed line of source: zero or more label
// definitions, and at most one of an instruction or a data directive.
type statement struct {
	line   int
	labels []string

	op       opcode.Op
	special  bool
	hasInstr bool
	a, b     opcode.Operand

	data    []uint16
	hasData bool
}

// size returns the number of memory words this statement occupies,
// which the layout pass needs before any label has been resolved.
// Operand sizes are determined purely by addressing mode, never by
// the value a label resolves to (see opcode.NextWordLiteral.Wide).
func (s *statement) size() int {
	if s.hasData {
		return len(s.data)
	}
	if !s.hasInstr {
		return 0
	}
	n := 1
	n += operandWords(s.a, true)
	if !s.special {
		n += operandWords(s.b, false)
	}
	return n
}

func operandWords(op opcode.Operand, isA bool) int {
	switch v := op.(type) {
	case opcode.IndirectOffset:
		return 1
	case opcode.Pick:
		return 1
	case opcode.NextWordIndirect:
		return 1
	case opcode.NextWordLiteral:
		if !isA || v.Wide {
			return 1
		}
		// A plain numeric literal may still pack into the short-form
		// A field; only operands built from labels are forced wide.
		if isShortLiteralValue(v.Value) {
			return 0
		}
		return 1
	case opcode.ShortLiteral:
		// The short form exists only in the A field; in B the encoder
		// emits the value as a next-word literal.
		if !isA {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func isShortLiteralValue(w uint16) bool {
	v := int32(int16(w))
	return v >= -1 && v <= 30
}
