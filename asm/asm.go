// Package asm assembles DCPU-16 source text into a word stream ready
// to load into cpu.VM memory. It parses line by line, assigns
// addresses to labels in one forward pass, then resolves and encodes
// every instruction via the encoding package.
package asm

// Assemble parses and assembles source into a slice of memory words.
func Assemble(source string) ([]uint16, error) {
	stmts, err := parseProgram(source)
	if err != nil {
		return nil, err
	}
	return layout(stmts)
}
