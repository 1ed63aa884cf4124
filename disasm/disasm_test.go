package disasm_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/medek/dcpu-16/disasm"
)

func TestProgramRendersSetAndJSR(t *testing.T) {
	g := NewWithT(t)

	// SET A, 0x30 ; JSR A
	words := []uint16{0x7c01, 0x0030, (0x00 << 10) | (0x01 << 5)}
	lines, err := disasm.Program(words)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(lines).To(HaveLen(2))
	g.Expect(lines[0]).To(Equal("SET A, 0x0030"))
	g.Expect(lines[1]).To(Equal("JSR A"))
}

func TestProgramStopsAtReservedOpcode(t *testing.T) {
	g := NewWithT(t)

	lines, err := disasm.Program([]uint16{0x0000})
	g.Expect(err).To(HaveOccurred())
	g.Expect(lines).To(BeEmpty())
}
