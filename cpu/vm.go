// Package cpu implements the DCPU-16 virtual machine: register file,
// 64K word memory, fetch/execute loop, interrupts, and the hardware
// bus.
package cpu

import (
	"math"
	"sync"
	"time"

	"github.com/medek/dcpu-16/hw"
)

const (
	ramSize       = 0x10000
	lastAddr      = 0xffff
	maxIntQueue   = 256
	defaultCycles = 100000 // cycles/second
)

// opcode field masks and shifts, matching the bit layout
// aaaaaabbbbbooooo (a, b, o=opcode from MSB to LSB).
const (
	opcodeMask = 0x001f
	argAMask   = 0xFC00
	argBMask   = 0x03E0
	argAShift  = 10
	argBShift  = 5
)

// Register offsets as returned by Registers(); PC, SP, EX, IA, and
// CYCLE are not addressable by register-relative operands but are
// exported for introspection.
const (
	A = iota
	B
	C
	X
	Y
	Z
	I
	J
	PC
	SP
	EX
	IA
	CYCLE
	IQ
	regSize = iota
)

// ErrOnFire is returned by Step/Run when the interrupt queue overflows
// past maxIntQueue pending messages: "the processor has caught fire."
type ErrOnFire struct{}

func (ErrOnFire) Error() string { return "interrupt queue exceeded: processor has caught fire" }

// VM is a single DCPU-16 virtual CPU. State access methods (Read,
// Write, Registers, etc.) only run at instruction boundaries, so the
// state observed is always consistent with respect to the fetch/
// execute cycle, whether or not the VM is being driven by Run in its
// own goroutine.
type VM struct {
	register [8]uint16
	memory   [ramSize]uint16
	pc       uint16
	sp       uint16
	ex       uint16
	ia       uint16
	cycle    uint16

	intQueueing bool
	intQueue    []uint16
	onFire      error

	devices   []hw.Device
	clockRate uint16

	tmpa, tmpb uint16

	mutex sync.Mutex
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithClockRate sets the cycles-per-second rate Step and Run pace
// execution to. Zero means run as fast as possible.
func WithClockRate(rate uint16) Option {
	return func(v *VM) { v.clockRate = rate }
}

// WithHardware attaches devices to the VM's hardware bus, in
// attachment order; HWQ/HWI address them by that order's index.
func WithHardware(devices ...hw.Device) Option {
	return func(v *VM) { v.devices = append(v.devices, devices...) }
}

// New returns a VM with all registers and memory zeroed.
func New(opts ...Option) *VM {
	v := &VM{
		intQueue:  make([]uint16, 0, maxIntQueue),
		clockRate: defaultCycles,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Reset zeroes registers, memory, PC/SP/IA/EX, the interrupt queue,
// and the cycle counter, but preserves attached hardware.
func (v *VM) Reset() {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.register = [8]uint16{}
	v.memory = [ramSize]uint16{}
	v.pc, v.sp, v.ex, v.ia, v.cycle = 0, 0, 0, 0, 0
	v.intQueueing = false
	v.intQueue = v.intQueue[:0]
	v.onFire = nil
}

// Write copies data into memory starting at addr, wrapping around the
// top of the address space.
func (v *VM) Write(addr uint16, data []uint16) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	for i, w := range data {
		v.memory[uint16(int(addr)+i)] = w
	}
}

// Read returns up to l words of memory starting at addr. The result
// is shorter than l only if it would otherwise run past the top of
// the address space without wrapping (callers that want a wrapped
// read should call Read in two pieces).
func (v *VM) Read(addr uint16, l int) []uint16 {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if int(addr)+l > lastAddr+1 {
		l = lastAddr + 1 - int(addr)
	}
	d := make([]uint16, l)
	copy(d, v.memory[addr:])
	return d
}

// Registers returns the general-purpose registers followed by the
// PC, SP, EX, IA, cycle count, and interrupt-queueing flag, in that
// order.
func (v *VM) Registers() []uint16 {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	r := make([]uint16, regSize)
	copy(r, v.register[:])
	r[PC] = v.pc
	r[SP] = v.sp
	r[EX] = v.ex
	r[IA] = v.ia
	r[CYCLE] = v.cycle
	if v.intQueueing {
		r[IQ] = 1
	}
	return r
}

// Interrupt enqueues a software interrupt message, the way INT and
// hardware devices do. It may be called from outside the fetch/
// execute loop (e.g. by a Device driven from another goroutine).
func (v *VM) Interrupt(message uint16) error {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.enqueueInterrupt(message)
}

func (v *VM) enqueueInterrupt(message uint16) error {
	if v.onFire != nil {
		return v.onFire
	}
	if len(v.intQueue) >= maxIntQueue {
		v.onFire = ErrOnFire{}
		return v.onFire
	}
	v.intQueue = append(v.intQueue, message)
	return nil
}

// Step executes a single instruction and returns.
func (v *VM) Step() error {
	return v.step()
}

// Run executes instructions until a fatal error (ErrOnFire, or a
// reserved-opcode encounter) stops it.
func (v *VM) Run() error {
	for {
		if err := v.step(); err != nil {
			return err
		}
	}
}

func (v *VM) step() error {
	var wait time.Duration

	v.mutex.Lock()
	defer v.mutex.Unlock()

	if v.onFire != nil {
		return v.onFire
	}

	start := time.Now()
	oldCycle := v.cycle

	if err := v.execute(); err != nil {
		return err
	}

	for _, d := range v.devices {
		d.Update(v.exposed())
	}

	if !v.intQueueing && len(v.intQueue) > 0 {
		msg := v.intQueue[0]
		v.intQueue = v.intQueue[1:]
		if v.ia != 0 {
			v.intQueueing = true
			v.pushValue(v.pc)
			v.pushValue(v.register[A])
			v.pc = v.ia
			v.register[A] = msg
		}
	}

	if v.cycle < oldCycle {
		wait = time.Duration(v.cycle + (math.MaxUint16 - oldCycle) + 1)
	} else {
		wait = time.Duration(v.cycle - oldCycle)
	}

	if v.clockRate > 0 {
		period := time.Second / time.Duration(v.clockRate)
		elapsed := time.Since(start)
		remaining := wait*period - elapsed
		if remaining > 0 {
			time.Sleep(remaining)
		}
	}
	return nil
}

func (v *VM) exposed() *hw.Exposed {
	cycles := uint64(v.cycle)
	return hw.NewExposed(&v.register, v.memory[:], &cycles, &v.clockRate, func(msg uint16) {
		_ = v.enqueueInterrupt(msg)
	})
}

// ReservedOpcodeError is returned by Step/Run when execution reaches
// a word with no defined opcode meaning.
type ReservedOpcodeError struct{ Word uint16 }

func (e *ReservedOpcodeError) Error() string {
	return "reserved opcode encountered at runtime"
}
