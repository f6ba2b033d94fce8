// Package cpu implements the Sharp SM83, the CPU of the Game Boy.
package cpu

import (
	"errors"

	"github.com/thelolagemann/dmgcore/internal/interrupts"
	"github.com/thelolagemann/dmgcore/internal/types"
)

const (
	// ClockSpeed is the clock speed of the CPU.
	ClockSpeed = 4194304

	// interruptCycles is the cost of dispatching an interrupt.
	interruptCycles = 20
)

// ErrBreakpoint is returned by Step after executing the opcode
// registered with WithBreakpoint. Unlike a DecodeError, the CPU may be
// stepped again.
var ErrBreakpoint = errors.New("cpu: breakpoint")

type mode = uint8

const (
	// ModeNormal is the normal CPU mode.
	ModeNormal mode = iota
	// ModeHalt is entered by HALT, and left when an interrupt is
	// pending.
	ModeHalt
	// ModeStop is entered by STOP. On the DMG it behaves like
	// ModeHalt.
	ModeStop
)

// Bus is the address space the CPU reads and writes through.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Timer is advanced by the CPU for every machine cycle it spends.
type Timer interface {
	Tick(cycles int)
	ResetDiv()
}

// Interrupts is the interrupt controller the CPU services.
type Interrupts interface {
	HasInterrupts() bool
	PopHighest() (bool, interrupts.Flag)
}

// CPU represents the Gameboy CPU. It is responsible for executing instructions.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	Registers

	bus   Bus
	irq   Interrupts
	timer Timer

	// ime is the interrupt master enable flag.
	ime bool
	// imePending is set by EI, and moves into ime once the
	// instruction following EI has completed.
	imePending bool
	// haltBug is armed by HALT when it fails to halt, and stops
	// the next fetch from incrementing PC.
	haltBug bool

	mode mode

	// cycles counts the T-cycles spent by the current Step.
	cycles int
	// fault is set by an instruction that cannot be executed.
	fault error

	// address and opcode of the instruction being executed
	opPC   uint16
	opcode uint8

	trace *Trace

	// breakpoint is the opcode that stops Step, or -1.
	breakpoint    int
	hitBreakpoint bool

	// coldBoot starts execution at 0x0000 for a mapped boot ROM.
	coldBoot bool
}

// Opt configures a CPU.
type Opt func(c *CPU)

// WithTrace records every executed instruction into t.
func WithTrace(t *Trace) Opt {
	return func(c *CPU) {
		c.trace = t
	}
}

// WithBreakpoint makes Step return ErrBreakpoint every time the base
// opcode is executed. Test ROMs use LD B, B (0x40) for this.
func WithBreakpoint(opcode uint8) Opt {
	return func(c *CPU) {
		c.breakpoint = int(opcode)
	}
}

// WithColdBoot clears every register and starts execution at 0x0000,
// leaving the boot ROM to initialise the system.
func WithColdBoot() Opt {
	return func(c *CPU) {
		c.coldBoot = true
	}
}

// NewCPU creates a new CPU reading and writing through bus. The
// registers are initialised to the values the DMG boot ROM leaves
// them in.
func NewCPU(bus Bus, irq Interrupts, timer Timer, opts ...Opt) *CPU {
	c := &CPU{
		bus:        bus,
		irq:        irq,
		timer:      timer,
		breakpoint: -1,
	}
	// create register pairs
	c.BC = types.NewRegisterPair(&c.B, &c.C)
	c.DE = types.NewRegisterPair(&c.D, &c.E)
	c.HL = types.NewRegisterPair(&c.H, &c.L)
	c.AF = types.NewMaskedRegisterPair(&c.A, &c.F, 0xF0)

	for _, opt := range opts {
		opt(c)
	}

	c.Reset()

	return c
}

// Reset puts the CPU in its post boot ROM state, or its power on
// state when cold booting.
func (c *CPU) Reset() {
	c.ime = false
	c.imePending = false
	c.haltBug = false
	c.mode = ModeNormal

	if c.coldBoot {
		c.AF.SetUint16(0)
		c.BC.SetUint16(0)
		c.DE.SetUint16(0)
		c.HL.SetUint16(0)
		c.SP = 0
		c.PC = 0
		return
	}

	c.AF.SetUint16(0x01B0)
	c.BC.SetUint16(0x0013)
	c.DE.SetUint16(0x00D8)
	c.HL.SetUint16(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
}

// IME reports whether interrupts are globally enabled.
func (c *CPU) IME() bool {
	return c.ime
}

// Halted reports whether the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool {
	return c.mode != ModeNormal
}

// Step executes a single instruction, or idles for one machine cycle
// while halted, and services a pending interrupt if interrupts are
// enabled. It returns the number of T-cycles that elapsed. A non-nil
// error means the instruction stream could not be decoded, and the
// CPU must not be stepped again.
func (c *CPU) Step() (int, error) {
	// reset tick counter
	c.cycles = 0
	c.fault = nil
	c.hitBreakpoint = false

	// EI takes effect after the instruction that follows it
	enableIME := c.imePending

	switch c.mode {
	case ModeHalt, ModeStop:
		// the CPU keeps ticking while halted, and wakes up as soon as
		// an interrupt is pending, even if it will not be serviced
		c.tickCycle()
		if c.irq.HasInterrupts() {
			c.mode = ModeNormal
		}
	default:
		c.runInstruction()
		if c.fault != nil {
			return c.cycles, c.fault
		}
	}

	if enableIME && c.imePending {
		c.ime = true
		c.imePending = false
	}

	if c.ime && c.irq.HasInterrupts() {
		c.executeInterrupt()
	}

	if c.hitBreakpoint {
		return c.cycles, ErrBreakpoint
	}
	return c.cycles, nil
}

// runInstruction fetches, decodes and executes the next instruction.
func (c *CPU) runInstruction() {
	pc := c.PC
	opcode := c.readInstruction()
	c.opPC, c.opcode = pc, opcode

	var instruction Instruction
	// do we need to run a CB instruction?
	if opcode == 0xCB {
		instruction = InstructionSetCB[c.readOperand()]
	} else {
		instruction = InstructionSet[opcode]
	}

	instruction.fn(c)
	if opcode != 0xCB && int(opcode) == c.breakpoint {
		c.hitBreakpoint = true
	}

	if c.trace != nil {
		c.trace.record(pc, opcode, instruction.name, c.Snapshot())
	}
}

// executeInterrupt pushes PC and jumps to the vector of the highest
// priority pending interrupt, clearing its request bit.
func (c *CPU) executeInterrupt() {
	found, flag := c.irq.PopHighest()
	if !found {
		return
	}

	c.ime = false
	c.imePending = false
	c.mode = ModeNormal

	// EI; HALT with an interrupt pending: the halt bug never gets to
	// fetch, and HALT itself becomes the return address
	ret := c.PC
	if c.haltBug {
		c.haltBug = false
		ret--
	}

	// two internal cycles, the push, then the jump
	c.tickCycle()
	c.tickCycle()
	c.SP--
	c.writeByte(c.SP, uint8(ret>>8))
	c.SP--
	c.writeByte(c.SP, uint8(ret))
	c.PC = interrupts.Vector(flag)
	c.tickCycle()
}

// readInstruction reads the next opcode from memory. If the halt bug
// is armed, PC is not incremented, so the byte will be read again.
func (c *CPU) readInstruction() uint8 {
	c.tickCycle()
	value := c.bus.Read(c.PC)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.PC++
	}
	return value
}

// readOperand reads the next operand from memory.
func (c *CPU) readOperand() uint8 {
	c.tickCycle()
	value := c.bus.Read(c.PC)
	c.PC++
	return value
}

// readOperand16 reads the next two operands as a little-endian
// 16-bit value.
func (c *CPU) readOperand16() uint16 {
	low := c.readOperand()
	high := c.readOperand()
	return uint16(high)<<8 | uint16(low)
}

// readByte reads a byte from memory.
func (c *CPU) readByte(addr uint16) uint8 {
	c.tickCycle()
	return c.bus.Read(addr)
}

// writeByte writes the given value to the given address.
func (c *CPU) writeByte(addr uint16, val uint8) {
	c.tickCycle()
	c.bus.Write(addr, val)
}

// tickCycle advances the rest of the system by one machine cycle.
func (c *CPU) tickCycle() {
	c.timer.Tick(4)
	c.cycles += 4
}
