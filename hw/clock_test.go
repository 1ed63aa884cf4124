package hw_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/medek/dcpu-16/hw"
)

func exposedAt(cycles uint64, clockRate uint16, interrupts *[]uint16) (*[8]uint16, *hw.Exposed) {
	regs := &[8]uint16{}
	mem := make([]uint16, 8)
	c := cycles
	r := clockRate
	x := hw.NewExposed(regs, mem, &c, &r, func(msg uint16) {
		*interrupts = append(*interrupts, msg)
	})
	return regs, x
}

func TestClockTickFormulaUsesCycleDelta(t *testing.T) {
	g := NewWithT(t)

	var interrupts []uint16
	c := hw.NewClock()

	// sub-function 0: set divisor=60 from B, latch last_cycles at 0.
	regs, x := exposedAt(0, 100000, &interrupts)
	regs[0], regs[1] = 0, 60 // A=0, B=divisor
	c.HardwareInterrupt(x)

	// sub-function 1: 6000 cycles elapsed at clock_rate=100000,
	// divisor=60 -> ticks = 6000*60/60/100000 = 0.
	regs, x = exposedAt(6000, 100000, &interrupts)
	regs[0] = 1
	c.HardwareInterrupt(x)
	g.Expect(regs[2]).To(Equal(uint16(0)))

	// A much larger elapsed cycle count produces a nonzero tick count.
	regs, x = exposedAt(600000, 100000, &interrupts)
	regs[0] = 1
	c.HardwareInterrupt(x)
	g.Expect(regs[2]).To(Equal(uint16(6)))
}

func TestClockUpdateEnqueuesOncePerTick(t *testing.T) {
	g := NewWithT(t)

	var interrupts []uint16
	c := hw.NewClock()

	regs, x := exposedAt(0, 60, &interrupts)
	regs[0], regs[1] = 0, 1 // divisor=1: one tick every 1*60/60=1 cycle at clock_rate=60
	c.HardwareInterrupt(x)
	regs[0], regs[1] = 2, 0x42 // arm interrupt message 0x42
	c.HardwareInterrupt(x)

	_, x = exposedAt(0, 60, &interrupts)
	c.Update(x)
	g.Expect(interrupts).To(BeEmpty())

	_, x = exposedAt(1, 60, &interrupts)
	c.Update(x)
	g.Expect(interrupts).To(Equal([]uint16{0x42}))

	// No new tick has elapsed since the last one fired.
	_, x = exposedAt(1, 60, &interrupts)
	c.Update(x)
	g.Expect(interrupts).To(Equal([]uint16{0x42}))
}
