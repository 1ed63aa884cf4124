// Package hw defines the DCPU-16 hardware bus contract: the interface
// devices implement, and the restricted facade the VM core exposes to
// them during HWI/HWQ dispatch and background updates.
package hw

import "fmt"

// Info identifies a device the way HWQ reports it: a 32-bit
// manufacturer id, a 32-bit hardware id, and a 16-bit version.
type Info struct {
	Manufacturer uint32
	ID           uint32
	Version      uint16
}

func (i Info) String() string {
	return fmt.Sprintf("hw{id=%#08x mfr=%#08x ver=%#04x}", i.ID, i.Manufacturer, i.Version)
}

// Device is anything attached to the DCPU-16's hardware bus.
type Device interface {
	// Info returns the device's identification triple for HWQ.
	Info() Info
	// HardwareInterrupt services an HWI directed at this device and
	// returns the number of extra cycles it costs beyond the base 4.
	HardwareInterrupt(x *Exposed) uint16
	// Update is called once per VM step so devices with background
	// behavior (a clock ticking, a buffered UART) can act without a
	// directed interrupt.
	Update(x *Exposed)
}

// Exposed is the restricted view of VM state a Device may touch. It
// is constructed fresh for each call and never retained past it, so a
// device cannot reach the PC, SP, IA, or EX registers, or read/write
// outside the general-purpose register file and RAM.
type Exposed struct {
	registers   *[8]uint16
	memory      []uint16
	cycles      *uint64
	clockRate   *uint16
	interruptFn func(message uint16)
}

// NewExposed builds a facade over the given backing state. Intended
// for use by the cpu package only.
func NewExposed(registers *[8]uint16, memory []uint16, cycles *uint64, clockRate *uint16, interrupt func(uint16)) *Exposed {
	return &Exposed{
		registers:   registers,
		memory:      memory,
		cycles:      cycles,
		clockRate:   clockRate,
		interruptFn: interrupt,
	}
}

// Register reads general-purpose register r (0..7, A..J).
func (x *Exposed) Register(r int) uint16 {
	return x.registers[r&0x7]
}

// SetRegister writes general-purpose register r (0..7, A..J).
func (x *Exposed) SetRegister(r int, v uint16) {
	x.registers[r&0x7] = v
}

// Mem reads a single word of RAM, address wrapping modulo 65536.
func (x *Exposed) Mem(addr uint16) uint16 {
	return x.memory[addr]
}

// SetMem writes a single word of RAM, address wrapping modulo 65536.
func (x *Exposed) SetMem(addr uint16, v uint16) {
	x.memory[addr] = v
}

// Cycles returns the VM's total elapsed cycle count.
func (x *Exposed) Cycles() uint64 {
	return *x.cycles
}

// ClockRate returns the configured cycles-per-second rate.
func (x *Exposed) ClockRate() uint16 {
	return *x.clockRate
}

// Interrupt enqueues a software interrupt with the given message, the
// same way the INT instruction does.
func (x *Exposed) Interrupt(message uint16) {
	x.interruptFn(message)
}
