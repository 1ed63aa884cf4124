package asm_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/medek/dcpu-16/asm"
)

func TestAssembleRegistersAndBackwardLabel(t *testing.T) {
	g := NewWithT(t)

	source := ":start\n" +
		"SET A, 5\n" +
		"ADD A, B\n" +
		"SET PC, start\n"

	words, err := asm.Assemble(source)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(Equal([]uint16{0x9801, 0x0402, 0x7f81, 0x0000}))
}

func TestAssembleJSRToForwardLabel(t *testing.T) {
	g := NewWithT(t)

	source := "JSR testsub\n" +
		"SET PC, testsub\n" +
		":testsub\n" +
		"SHL X, 4\n"

	words, err := asm.Assemble(source)
	g.Expect(err).NotTo(HaveOccurred())
	// testsub resolves to address 4, which fits the short-literal
	// range -- Wide must still force the full next-word encoding so
	// JSR's size never depends on where testsub lands.
	g.Expect(words).To(Equal([]uint16{0x7c20, 0x0004, 0x7f81, 0x0004, 0x946f}))
}

func TestAssembleIndirectRegisterOffset(t *testing.T) {
	g := NewWithT(t)

	words, err := asm.Assemble("SET [A+4], 7\n")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(Equal([]uint16{0xa201, 0x0004}))
}

func TestAssembleDatStringAndNumbers(t *testing.T) {
	g := NewWithT(t)

	words, err := asm.Assemble("DAT \"hi\", 1, 2\n")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(Equal([]uint16{'h', 'i', 1, 2}))
}

func TestAssembleUndefinedLabelIsAnError(t *testing.T) {
	g := NewWithT(t)

	_, err := asm.Assemble("SET PC, nowhere\n")
	g.Expect(err).To(HaveOccurred())
	g.Expect(err).To(BeAssignableToTypeOf(&asm.UndefinedSymbolError{}))
}

func TestAssembleRedefinedLabelIsAnError(t *testing.T) {
	g := NewWithT(t)

	source := ":loop\nSET A, 1\n:loop\nSET B, 2\n"
	_, err := asm.Assemble(source)
	g.Expect(err).To(HaveOccurred())
	g.Expect(err).To(BeAssignableToTypeOf(&asm.RedefinedSymbolError{}))
}

func TestAssembleSPIndirectIsPeek(t *testing.T) {
	g := NewWithT(t)

	words, err := asm.Assemble("SET A, [SP]\n")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(Equal([]uint16{0x6401}))
}

func TestAssembleOversizedLiteralIsAnError(t *testing.T) {
	g := NewWithT(t)

	_, err := asm.Assemble("SET A, 100000\n")
	g.Expect(err).To(HaveOccurred())
	g.Expect(err).To(BeAssignableToTypeOf(&asm.ExceedsLiteralSizeError{}))
}

func TestAssembleOversizedHexLiteralIsAnError(t *testing.T) {
	g := NewWithT(t)

	_, err := asm.Assemble("DAT #10000\n")
	g.Expect(err).To(HaveOccurred())
	g.Expect(err).To(BeAssignableToTypeOf(&asm.ExceedsLiteralSizeError{}))
}

func TestAssembleInvalidDerefIsAnError(t *testing.T) {
	g := NewWithT(t)

	_, err := asm.Assemble("SET A, [A B]\n")
	g.Expect(err).To(HaveOccurred())
	g.Expect(err).To(BeAssignableToTypeOf(&asm.InvalidDerefError{}))
}

func TestAssembleCommentsAndBlankLinesAreIgnored(t *testing.T) {
	g := NewWithT(t)

	source := "; full line comment\n\nSET A, 1 ; trailing comment\n\n"
	words, err := asm.Assemble(source)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(words).To(Equal([]uint16{0x8801}))
}
