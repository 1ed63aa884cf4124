package asm

import (
	"github.com/medek/dcpu-16/encoding"
	"github.com/medek/dcpu-16/opcode"
)

// layout assigns a memory address to every label, then resolves every
// label-bearing operand against that table and encodes the program.
//
// Addresses are computed in a single forward pass because an
// instruction's word count depends only on its addressing modes, not
// on where its labels end up (see opcode.NextWordLiteral.Wide) -- so
// there is no need for the incremental block-sealing/backtracking the
// original assembler uses to cope with size-shrinking optimizations.
func layout(stmts []*statement) ([]uint16, error) {
	symbols := make(map[string]uint16)
	addr := uint16(0)
	for _, s := range stmts {
		for _, name := range s.labels {
			if _, dup := symbols[name]; dup {
				return nil, &RedefinedSymbolError{Name: name, Line: s.line}
			}
			symbols[name] = addr
		}
		addr += uint16(s.size())
	}

	var out []uint16
	for _, s := range stmts {
		if s.hasData {
			out = append(out, s.data...)
			continue
		}
		if !s.hasInstr {
			continue
		}
		ins := opcode.Instruction{Op: s.op}
		a, err := resolveOperand(s.a, symbols, s.line)
		if err != nil {
			return nil, err
		}
		ins.A = a
		if !s.special {
			b, err := resolveOperand(s.b, symbols, s.line)
			if err != nil {
				return nil, err
			}
			ins.B = b
		}
		words, err := encoding.Encode(ins)
		if err != nil {
			return nil, err
		}
		out = append(out, words...)
	}
	return out, nil
}

func resolveOperand(op opcode.Operand, symbols map[string]uint16, line int) (opcode.Operand, error) {
	switch v := op.(type) {
	case opcode.IndirectOffset:
		w, err := resolveExprOr(v.Expr, v.NextWord, symbols, line)
		if err != nil {
			return nil, err
		}
		return opcode.IndirectOffset{Reg: v.Reg, NextWord: w}, nil
	case opcode.Pick:
		w, err := resolveExprOr(v.Expr, v.NextWord, symbols, line)
		if err != nil {
			return nil, err
		}
		return opcode.Pick{NextWord: w}, nil
	case opcode.NextWordIndirect:
		w, err := resolveExprOr(v.Expr, v.NextWord, symbols, line)
		if err != nil {
			return nil, err
		}
		return opcode.NextWordIndirect{NextWord: w}, nil
	case opcode.NextWordLiteral:
		if v.Expr == nil {
			return v, nil
		}
		w, err := resolveExprOr(v.Expr, v.Value, symbols, line)
		if err != nil {
			return nil, err
		}
		return opcode.NextWordLiteral{Value: w, Wide: true}, nil
	default:
		return op, nil
	}
}

// resolveExprOr resolves expr against symbols, or returns fallback
// unchanged when expr is nil (a plain numeric operand the parser
// already reduced to a literal).
func resolveExprOr(expr opcode.Expr, fallback uint16, symbols map[string]uint16, line int) (uint16, error) {
	if expr == nil {
		return fallback, nil
	}
	return resolveExpr(expr, symbols, line)
}

func resolveExpr(expr opcode.Expr, symbols map[string]uint16, line int) (uint16, error) {
	switch v := expr.(type) {
	case nil:
		return 0, nil
	case opcode.LabelRef:
		addr, ok := symbols[v.Name]
		if !ok {
			return 0, &UndefinedSymbolError{Name: v.Name, Line: line}
		}
		return addr, nil
	case opcode.LabelOffset:
		addr, ok := symbols[v.Name]
		if !ok {
			return 0, &UndefinedSymbolError{Name: v.Name, Line: line}
		}
		return uint16(int32(addr) + v.Offset), nil
	case opcode.Constant:
		return uint16(v.Value), nil
	case opcode.LabelSum:
		a, ok := symbols[v.A]
		if !ok {
			return 0, &UndefinedSymbolError{Name: v.A, Line: line}
		}
		b, ok := symbols[v.B]
		if !ok {
			return 0, &UndefinedSymbolError{Name: v.B, Line: line}
		}
		return a + b, nil
	default:
		return 0, &UnresolvedExpressionError{Expr: expr, Line: line}
	}
}
