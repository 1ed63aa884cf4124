package hw

// Clock is the reference clock device. HWI sub-function (register A)
// 0 sets the tick divisor from B and resets the device's last-cycle
// marker; 1 reports elapsed ticks in register C, computed from
// (cycles - last_cycles) * 60 / divisor / clock_rate; 2 arms (or
// disarms, if B is zero) a per-tick interrupt with message B.
type Clock struct {
	info Info

	divisor      uint16
	lastCycles   uint64
	interruptMsg uint16

	lastTickCycles uint64
}

// NewClock returns a Clock ticked by the VM's cycle counter rather
// than the wall clock, so its behavior is deterministic and driven
// entirely by cpu.VM.Step.
func NewClock() *Clock {
	return &Clock{
		info: Info{Manufacturer: 0x904b3115, ID: 0x12d0b402, Version: 0x0001},
	}
}

func (c *Clock) Info() Info { return c.info }

func (c *Clock) HardwareInterrupt(x *Exposed) uint16 {
	switch x.Register(0) { // A: sub-function
	case 0x0:
		c.divisor = x.Register(1) // B
		c.lastCycles = x.Cycles()
	case 0x1:
		if c.divisor != 0 && x.ClockRate() != 0 {
			elapsed := x.Cycles() - c.lastCycles
			ticks := elapsed * 60 / uint64(c.divisor) / uint64(x.ClockRate())
			x.SetRegister(2, uint16(ticks)) // C
		}
	case 0x2:
		c.interruptMsg = x.Register(1) // B
	}
	return 0
}

func (c *Clock) Update(x *Exposed) {
	if c.divisor == 0 || c.interruptMsg == 0 || x.ClockRate() == 0 {
		return
	}
	cyclesPerTick := uint64(c.divisor) * uint64(x.ClockRate()) / 60
	if cyclesPerTick == 0 {
		return
	}
	if x.Cycles()-c.lastTickCycles >= cyclesPerTick {
		x.Interrupt(c.interruptMsg)
		c.lastTickCycles = x.Cycles()
	}
}
