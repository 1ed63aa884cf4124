package encoding_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/medek/dcpu-16/encoding"
	"github.com/medek/dcpu-16/opcode"
)

func TestEncodeSetRegisterShortLiteral(t *testing.T) {
	g := NewWithT(t)

	ins := opcode.Instruction{
		Op: opcode.SET,
		A:  opcode.ShortLiteral{Value: 5},
		B:  opcode.RegisterOperand{Reg: opcode.A},
	}
	words, err := encoding.Encode(ins)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(HaveLen(1))

	decoded, _, err := encoding.DecodeAt(words, 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(decoded.Op).To(Equal(opcode.SET))
	g.Expect(decoded.A).To(Equal(opcode.ShortLiteral{Value: 5}))
	g.Expect(decoded.B).To(Equal(opcode.RegisterOperand{Reg: opcode.A}))
}

func TestEncodeSetNextWordLiteral(t *testing.T) {
	g := NewWithT(t)

	ins := opcode.Instruction{
		Op: opcode.SET,
		A:  opcode.NextWordLiteral{Value: 0x1000},
		B:  opcode.RegisterOperand{Reg: opcode.B},
	}
	words, err := encoding.Encode(ins)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(HaveLen(2))
	g.Expect(words[1]).To(Equal(uint16(0x1000)))
}

func TestEncodeWordOrderAThenB(t *testing.T) {
	g := NewWithT(t)

	ins := opcode.Instruction{
		Op: opcode.SET,
		A:  opcode.NextWordIndirect{NextWord: 0xAAAA},
		B:  opcode.NextWordIndirect{NextWord: 0xBBBB},
	}
	words, err := encoding.Encode(ins)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(HaveLen(3))
	g.Expect(words[1]).To(Equal(uint16(0xAAAA)))
	g.Expect(words[2]).To(Equal(uint16(0xBBBB)))
}

func TestEncodeJSRSpecial(t *testing.T) {
	g := NewWithT(t)

	ins := opcode.Instruction{Op: opcode.JSR, A: opcode.RegisterOperand{Reg: opcode.A}}
	words, err := encoding.Encode(ins)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(HaveLen(1))

	decoded, _, err := encoding.DecodeAt(words, 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(decoded.Op).To(Equal(opcode.JSR))
	g.Expect(decoded.B).To(BeNil())
}

func TestEncodePushOnlyValidAsB(t *testing.T) {
	g := NewWithT(t)

	ins := opcode.Instruction{
		Op: opcode.SET,
		A:  opcode.Push{},
		B:  opcode.RegisterOperand{Reg: opcode.A},
	}
	_, err := encoding.Encode(ins)
	g.Expect(err).To(HaveOccurred())
	g.Expect(err).To(BeAssignableToTypeOf(&encoding.PushInAError{}))
}

func TestEncodePopOnlyValidAsA(t *testing.T) {
	g := NewWithT(t)

	ins := opcode.Instruction{
		Op: opcode.SET,
		A:  opcode.RegisterOperand{Reg: opcode.A},
		B:  opcode.Pop{},
	}
	_, err := encoding.Encode(ins)
	g.Expect(err).To(HaveOccurred())
	g.Expect(err).To(BeAssignableToTypeOf(&encoding.PopInBError{}))
}

func TestDecodeReservedOpcode(t *testing.T) {
	g := NewWithT(t)

	_, _, err := encoding.DecodeAt([]uint16{0x0000}, 0)
	g.Expect(err).To(HaveOccurred())
	g.Expect(err).To(BeAssignableToTypeOf(&encoding.ReservedOpcodeError{}))
}
