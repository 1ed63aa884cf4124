// Package disasm renders decoded DCPU-16 instructions back to
// assembly text, built on top of the encoding package's decoder.
// It replaces the old disasm implementation's hardcoded 16-opcode
// table (and the separate, near-empty dasm package) with one that
// covers the full 36-opcode set via encoding.Decode.
package disasm

import (
	"fmt"

	"github.com/medek/dcpu-16/encoding"
	"github.com/medek/dcpu-16/opcode"
)

var registerNames = [...]string{"A", "B", "C", "X", "Y", "Z", "I", "J"}

// One decodes a single instruction starting at words[pos] and returns
// its text form plus the index just past it.
func One(words []uint16, pos int) (string, int, error) {
	ins, next, err := encoding.DecodeAt(words, pos)
	if err != nil {
		return "", pos, err
	}
	return format(ins), next, nil
}

// Program decodes every instruction in words, in order, returning one
// line of text per instruction. Decoding stops at the first error
// (typically a reserved opcode, or a truncated final instruction);
// the lines produced so far are returned alongside it.
func Program(words []uint16) ([]string, error) {
	var lines []string
	pos := 0
	for pos < len(words) {
		text, next, err := One(words, pos)
		if err != nil {
			return lines, fmt.Errorf("at word %d: %w", pos, err)
		}
		lines = append(lines, text)
		pos = next
	}
	return lines, nil
}

func format(ins opcode.Instruction) string {
	a := formatOperand(ins.A)
	if ins.Op.IsSpecial() {
		return fmt.Sprintf("%s %s", ins.Op, a)
	}
	b := formatOperand(ins.B)
	return fmt.Sprintf("%s %s, %s", ins.Op, b, a)
}

func formatOperand(op opcode.Operand) string {
	switch v := op.(type) {
	case opcode.RegisterOperand:
		return registerNames[v.Reg]
	case opcode.IndirectRegister:
		return fmt.Sprintf("[%s]", registerNames[v.Reg])
	case opcode.IndirectOffset:
		return fmt.Sprintf("[%s + %#04x]", registerNames[v.Reg], v.NextWord)
	case opcode.Push:
		return "PUSH"
	case opcode.Pop:
		return "POP"
	case opcode.Peek:
		return "PEEK"
	case opcode.Pick:
		return fmt.Sprintf("PICK %#04x", v.NextWord)
	case opcode.SPOperand:
		return "SP"
	case opcode.PCOperand:
		return "PC"
	case opcode.EXOperand:
		return "EX"
	case opcode.NextWordIndirect:
		return fmt.Sprintf("[%#04x]", v.NextWord)
	case opcode.NextWordLiteral:
		return fmt.Sprintf("%#04x", v.Value)
	case opcode.ShortLiteral:
		return fmt.Sprintf("%#04x", uint16(v.Value))
	default:
		return "?"
	}
}
