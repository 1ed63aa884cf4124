package encoding

import "github.com/medek/dcpu-16/opcode"

// WordSource supplies the word stream a decode walks, one word at a
// time: the instruction word, then any extension words its operands
// need. Implementations (such as the slice-backed reader below)
// decide what "next" means, including wrap.
type WordSource interface {
	// Next returns the next word in the stream and advances past it.
	// ok is false if the stream is exhausted.
	Next() (word uint16, ok bool)
}

// sliceSource adapts a plain []uint16 to WordSource, for disassembly
// of a fixed buffer.
type sliceSource struct {
	words []uint16
	pos   int
}

func NewSliceSource(words []uint16) WordSource {
	return &sliceSource{words: words}
}

func (s *sliceSource) Next() (uint16, bool) {
	if s.pos >= len(s.words) {
		return 0, false
	}
	w := s.words[s.pos]
	s.pos++
	return w, true
}

var binaryOpcodeNames = invertOpMap(binaryOpcodeValues)
var specialOpcodeNames = invertOpMap(specialOpcodeValues)

func invertOpMap(m map[opcode.Op]uint16) map[uint16]opcode.Op {
	out := make(map[uint16]opcode.Op, len(m))
	for op, code := range m {
		out[code] = op
	}
	return out
}

// Decode reads one instruction from src. A's operand (and its
// extension word, if any) is decoded before B's, matching the word
// order Encode produces.
func Decode(src WordSource) (opcode.Instruction, error) {
	word, ok := src.Next()
	if !ok {
		return opcode.Instruction{}, &MissingNextWordError{}
	}

	opField := word & opcodeMask
	aField := (word >> argAShift) & 0x3f
	bField := (word >> argBShift) & 0x1f

	if opField == 0 {
		op, ok := specialOpcodeNames[bField]
		if !ok {
			return opcode.Instruction{}, &ReservedOpcodeError{Word: word}
		}
		a, err := decodeOperand(src, aField, true)
		if err != nil {
			return opcode.Instruction{}, err
		}
		return opcode.Instruction{Op: op, A: a}, nil
	}

	op, ok := binaryOpcodeNames[opField]
	if !ok {
		return opcode.Instruction{}, &ReservedOpcodeError{Word: word}
	}

	a, err := decodeOperand(src, aField, true)
	if err != nil {
		return opcode.Instruction{}, err
	}
	b, err := decodeOperand(src, bField, false)
	if err != nil {
		return opcode.Instruction{}, err
	}
	return opcode.Instruction{Op: op, A: a, B: b}, nil
}

func decodeOperand(src WordSource, field uint16, isA bool) (opcode.Operand, error) {
	switch {
	case field <= 0x07:
		return opcode.RegisterOperand{Reg: opcode.Register(field)}, nil
	case field <= 0x0f:
		return opcode.IndirectRegister{Reg: opcode.Register(field - 0x08)}, nil
	case field <= 0x17:
		w, err := nextOrErr(src)
		if err != nil {
			return nil, err
		}
		return opcode.IndirectOffset{Reg: opcode.Register(field - 0x10), NextWord: w}, nil
	case field == 0x18:
		if isA {
			return opcode.Pop{}, nil
		}
		return opcode.Push{}, nil
	case field == 0x19:
		return opcode.Peek{}, nil
	case field == 0x1a:
		w, err := nextOrErr(src)
		if err != nil {
			return nil, err
		}
		return opcode.Pick{NextWord: w}, nil
	case field == 0x1b:
		return opcode.SPOperand{}, nil
	case field == 0x1c:
		return opcode.PCOperand{}, nil
	case field == 0x1d:
		return opcode.EXOperand{}, nil
	case field == 0x1e:
		w, err := nextOrErr(src)
		if err != nil {
			return nil, err
		}
		return opcode.NextWordIndirect{NextWord: w}, nil
	case field == 0x1f:
		w, err := nextOrErr(src)
		if err != nil {
			return nil, err
		}
		return opcode.NextWordLiteral{Value: w}, nil
	case field <= 0x3f:
		return opcode.ShortLiteral{Value: int16(field) - 0x21}, nil
	}
	return nil, &ReservedOpcodeError{}
}

// DecodeAt decodes one instruction starting at words[pos] and returns
// the index just past it, for callers walking a fixed buffer (the
// disassembler) rather than a live fetch window.
func DecodeAt(words []uint16, pos int) (opcode.Instruction, int, error) {
	src := &sliceSource{words: words, pos: pos}
	ins, err := Decode(src)
	if err != nil {
		return opcode.Instruction{}, pos, err
	}
	return ins, src.pos, nil
}

func nextOrErr(src WordSource) (uint16, error) {
	w, ok := src.Next()
	if !ok {
		return 0, &MissingNextWordError{}
	}
	return w, nil
}
