// Package encoding converts between opcode.Instruction values and the
// 16-bit word sequences the DCPU-16 reads from and writes to memory.
package encoding

import "fmt"

// ReservedOpcodeError is returned when a word encodes an opcode field
// with no defined meaning.
type ReservedOpcodeError struct {
	Word uint16
}

func (e *ReservedOpcodeError) Error() string {
	return fmt.Sprintf("reserved opcode in word %#04x", e.Word)
}

// MissingNextWordError is returned when decoding an operand that
// requires a following word, but the word stream ran out.
type MissingNextWordError struct{}

func (e *MissingNextWordError) Error() string {
	return "missing next word for operand"
}

// PushInAError is returned when PUSH is used as an A operand.
type PushInAError struct{}

func (e *PushInAError) Error() string { return "PUSH is not valid as an A operand" }

// PopInBError is returned when POP is used as a B operand.
type PopInBError struct{}

func (e *PopInBError) Error() string { return "POP is not valid as a B operand" }

// UnresolvedExprError is returned when Encode is given an operand that
// still carries an unresolved assembler-time Expr (a label reference
// that the layout/resolver was supposed to replace).
type UnresolvedExprError struct {
	Expr interface{}
}

func (e *UnresolvedExprError) Error() string {
	return fmt.Sprintf("unresolved expression in operand: %#v", e.Expr)
}
