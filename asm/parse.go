package asm

import (
	"strconv"
	"strings"

	"github.com/medek/dcpu-16/opcode"
)

var registerNames = map[string]opcode.Register{
	"A": opcode.A, "B": opcode.B, "C": opcode.C, "X": opcode.X,
	"Y": opcode.Y, "Z": opcode.Z, "I": opcode.I, "J": opcode.J,
}

var datMnemonics = map[string]bool{"DAT": true, "DB": true}

// parseProgram turns source text into a flat list of statements, one
// per non-blank, non-comment-only line.
func parseProgram(source string) ([]*statement, error) {
	var stmts []*statement
	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		line := trimLine(stripComment(raw))
		if line == "" {
			continue
		}
		toks, err := lexLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		if len(toks) == 0 {
			continue
		}
		stmt, err := parseStatement(toks, lineNo)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func parseStatement(toks []token, lineNo int) (*statement, error) {
	s := &statement{line: lineNo}

	for len(toks) >= 2 && toks[0].kind == tokIdent && toks[1].kind == tokColon {
		s.labels = append(s.labels, toks[0].text)
		toks = toks[2:]
	}
	// `:label` form (colon leads, matching the original syntax).
	for len(toks) >= 2 && toks[0].kind == tokColon && toks[1].kind == tokIdent {
		s.labels = append(s.labels, toks[1].text)
		toks = toks[2:]
	}
	if len(toks) == 0 {
		return s, nil
	}

	if toks[0].kind != tokIdent {
		return nil, &SyntaxError{Line: lineNo, Msg: "expected mnemonic or directive"}
	}
	mnemonic := strings.ToUpper(toks[0].text)
	rest := toks[1:]

	if datMnemonics[mnemonic] {
		data, err := parseDat(rest, lineNo)
		if err != nil {
			return nil, err
		}
		s.hasData = true
		s.data = data
		return s, nil
	}

	op, special, ok := opcode.LookupMnemonic(mnemonic)
	if !ok {
		return nil, &SyntaxError{Line: lineNo, Msg: "unknown mnemonic " + mnemonic}
	}
	s.op = op
	s.special = special
	s.hasInstr = true

	operandToks := splitOperands(rest)
	if special {
		if len(operandToks) != 1 {
			return nil, &SyntaxError{Line: lineNo, Msg: mnemonic + " takes exactly one operand"}
		}
		a, err := parseOperand(operandToks[0], lineNo)
		if err != nil {
			return nil, err
		}
		s.a = a
		return s, nil
	}

	if len(operandToks) != 2 {
		return nil, &SyntaxError{Line: lineNo, Msg: mnemonic + " takes exactly two operands"}
	}
	b, err := parseOperand(operandToks[0], lineNo)
	if err != nil {
		return nil, err
	}
	a, err := parseOperand(operandToks[1], lineNo)
	if err != nil {
		return nil, err
	}
	s.b = b
	s.a = a
	return s, nil
}

func splitOperands(toks []token) [][]token {
	var groups [][]token
	var cur []token
	for _, t := range toks {
		if t.kind == tokComma {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)
	return groups
}

func parseDat(toks []token, lineNo int) ([]uint16, error) {
	var out []uint16
	for _, group := range splitOperands(toks) {
		if len(group) == 0 {
			return nil, &SyntaxError{Line: lineNo, Msg: "empty DAT operand"}
		}
		if len(group) == 1 && group[0].kind == tokString {
			for _, r := range group[0].text {
				out = append(out, uint16(r))
			}
			continue
		}
		neg := false
		g := group
		if g[0].kind == tokMinus {
			neg = true
			g = g[1:]
		}
		if len(g) != 1 || g[0].kind != tokNumber {
			return nil, &SyntaxError{Line: lineNo, Msg: "DAT operand must be a string or number"}
		}
		v := g[0].num
		if neg {
			v = -v
		}
		out = append(out, uint16(v))
	}
	return out, nil
}

// parseOperand parses one operand's tokens into an opcode.Operand,
// with label references left as an unresolved opcode.Expr for the
// layout pass to fill in.
func parseOperand(toks []token, lineNo int) (opcode.Operand, error) {
	if len(toks) == 0 {
		return nil, &SyntaxError{Line: lineNo, Msg: "empty operand"}
	}

	if toks[0].kind == tokLBracket {
		if toks[len(toks)-1].kind != tokRBracket {
			return nil, &SyntaxError{Line: lineNo, Msg: "unterminated ["}
		}
		return parseIndirect(toks[1:len(toks)-1], lineNo)
	}

	if toks[0].kind == tokIdent {
		word := strings.ToUpper(toks[0].text)
		if len(toks) == 1 {
			switch word {
			case "PUSH":
				return opcode.Push{}, nil
			case "POP":
				return opcode.Pop{}, nil
			case "PEEK":
				return opcode.Peek{}, nil
			case "SP":
				return opcode.SPOperand{}, nil
			case "PC":
				return opcode.PCOperand{}, nil
			case "EX":
				return opcode.EXOperand{}, nil
			}
			if reg, ok := registerNames[word]; ok {
				return opcode.RegisterOperand{Reg: reg}, nil
			}
		}
		if word == "PICK" && len(toks) >= 2 {
			expr, lit, err := parseExpr(toks[1:], lineNo)
			if err != nil {
				return nil, err
			}
			return opcode.Pick{NextWord: lit, Expr: expr}, nil
		}
	}

	expr, lit, err := parseExpr(toks, lineNo)
	if err != nil {
		return nil, err
	}
	if expr == nil {
		if isShortLiteralValue(lit) {
			return opcode.ShortLiteral{Value: int16(int32(int16(lit)))}, nil
		}
		return opcode.NextWordLiteral{Value: lit}, nil
	}
	return opcode.NextWordLiteral{Expr: expr, Wide: true}, nil
}

func parseIndirect(toks []token, lineNo int) (opcode.Operand, error) {
	if len(toks) == 0 {
		return nil, &InvalidDerefError{Text: "", Line: lineNo}
	}

	// [SP] is the PEEK alias.
	if len(toks) == 1 && toks[0].kind == tokIdent && strings.ToUpper(toks[0].text) == "SP" {
		return opcode.Peek{}, nil
	}

	// [register] or [register + expr] or [expr + register]
	var reg *opcode.Register
	var exprToks []token
	if toks[0].kind == tokIdent {
		if r, ok := registerNames[strings.ToUpper(toks[0].text)]; ok && (len(toks) == 1 || toks[1].kind == tokPlus) {
			rr := r
			reg = &rr
			if len(toks) > 1 {
				exprToks = toks[2:]
			}
		}
	}
	if reg == nil && len(toks) >= 3 && toks[len(toks)-1].kind == tokIdent {
		if r, ok := registerNames[strings.ToUpper(toks[len(toks)-1].text)]; ok && toks[len(toks)-2].kind == tokPlus {
			rr := r
			reg = &rr
			exprToks = toks[:len(toks)-2]
		}
	}

	if reg != nil {
		if len(exprToks) == 0 {
			return opcode.IndirectRegister{Reg: *reg}, nil
		}
		expr, lit, err := parseExpr(exprToks, lineNo)
		if err != nil {
			return nil, &InvalidDerefError{Text: tokensText(toks), Line: lineNo}
		}
		return opcode.IndirectOffset{Reg: *reg, NextWord: lit, Expr: expr}, nil
	}

	expr, lit, err := parseExpr(toks, lineNo)
	if err != nil {
		return nil, &InvalidDerefError{Text: tokensText(toks), Line: lineNo}
	}
	return opcode.NextWordIndirect{NextWord: lit, Expr: expr}, nil
}

// tokensText reconstructs a readable approximation of a token run for
// error messages, e.g. the text between a `[` and `]` that failed to
// parse as any recognized deref shape.
func tokensText(toks []token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch t.kind {
		case tokIdent, tokString:
			b.WriteString(t.text)
		case tokNumber:
			b.WriteString(strconv.FormatInt(int64(t.num), 10))
		case tokLBracket:
			b.WriteByte('[')
		case tokRBracket:
			b.WriteByte(']')
		case tokComma:
			b.WriteByte(',')
		case tokPlus:
			b.WriteByte('+')
		case tokMinus:
			b.WriteByte('-')
		case tokColon:
			b.WriteByte(':')
		}
	}
	return b.String()
}

// parseExpr parses a constant or label expression, optionally with a
// trailing "+N"/"-N" offset. If the expression is a plain number it
// returns expr == nil and the literal value in lit; otherwise it
// returns an opcode.Expr for the layout pass to resolve later.
func parseExpr(toks []token, lineNo int) (expr opcode.Expr, lit uint16, err error) {
	if len(toks) == 0 {
		return nil, 0, &SyntaxError{Line: lineNo, Msg: "empty expression"}
	}

	neg := false
	if toks[0].kind == tokMinus {
		neg = true
		toks = toks[1:]
	}
	if len(toks) == 0 {
		return nil, 0, &SyntaxError{Line: lineNo, Msg: "empty expression"}
	}

	if toks[0].kind == tokNumber {
		v := toks[0].num
		if neg {
			v = -v
		}
		rest := toks[1:]
		if len(rest) == 0 {
			return nil, uint16(v), nil
		}
		return nil, 0, &SyntaxError{Line: lineNo, Msg: "unexpected tokens after literal"}
	}

	if toks[0].kind == tokIdent {
		name := toks[0].text
		rest := toks[1:]
		if len(rest) == 0 {
			if neg {
				return nil, 0, &SyntaxError{Line: lineNo, Msg: "cannot negate a label reference"}
			}
			return opcode.LabelRef{Name: name}, 0, nil
		}
		if len(rest) == 2 && (rest[0].kind == tokPlus || rest[0].kind == tokMinus) && rest[1].kind == tokNumber {
			off := int32(rest[1].num)
			if rest[0].kind == tokMinus {
				off = -off
			}
			return opcode.LabelOffset{Name: name, Offset: off}, 0, nil
		}
		if len(rest) == 2 && rest[0].kind == tokPlus && rest[1].kind == tokIdent {
			return opcode.LabelSum{A: name, B: rest[1].text}, 0, nil
		}
		return nil, 0, &SyntaxError{Line: lineNo, Msg: "malformed label expression"}
	}

	return nil, 0, &SyntaxError{Line: lineNo, Msg: "expected a number or label"}
}
