// Package timer provides an implementation of the Game Boy
// timer. It is used to generate interrupts at a specific
// frequency. The frequency can be configured using the
// TAC register.
package timer

import (
	"github.com/thelolagemann/dmgcore/internal/interrupts"
	"github.com/thelolagemann/dmgcore/internal/types"
	"github.com/thelolagemann/dmgcore/pkg/bits"
)

// ReloadDelay is the number of cycles TIMA holds 0x00 after
// overflowing, before it is reloaded from TMA.
const ReloadDelay = 4

// monitoredBits maps the frequency select bits of TAC to the
// accumulator bit whose falling edge increments TIMA.
//
//	00 = bit 9 (4096 Hz)
//	01 = bit 3 (262144 Hz)
//	10 = bit 5 (65536 Hz)
//	11 = bit 7 (16384 Hz)
var monitoredBits = [4]uint8{9, 3, 5, 7}

// Controller is a timer controller. It is used to generate
// interrupts at a specific frequency. The frequency can be
// configured using the types.TAC register.
type Controller struct {
	// div is the free-running 16-bit accumulator, the upper
	// 8 bits of which are visible as types.DIV.
	div uint16

	tima uint8
	tma  uint8
	tac  uint8

	// reloadDelay counts down the cycles left until TIMA is
	// reloaded after an overflow, 0 when no reload is pending.
	reloadDelay int

	irq *interrupts.Service
}

// NewController returns a new timer controller.
func NewController(irq *interrupts.Service) *Controller {
	return &Controller{
		irq: irq,
	}
}

// Enabled reports whether TAC bit 2 is set.
func (c *Controller) Enabled() bool {
	return c.tac&types.Bit2 != 0
}

// monitoredBit returns the accumulator bit currently selected
// by TAC.
func (c *Controller) monitoredBit() uint8 {
	return monitoredBits[c.tac&0b11]
}

// signal returns the input of the falling edge detector, which
// is the selected accumulator bit AND'ed with the enable bit.
func (c *Controller) signal() bool {
	return c.Enabled() && bits.Test(c.div, c.monitoredBit())
}

// Tick advances the accumulator by the given number of cycles,
// incrementing TIMA once for every falling edge of the monitored
// bit that occurred, however many cycles are passed at once.
func (c *Controller) Tick(cycles int) {
	for cycles > 0 {
		step := cycles
		delaying := c.reloadDelay > 0
		if delaying && step > c.reloadDelay {
			step = c.reloadDelay
		}

		consumed := c.advance(step)
		cycles -= consumed

		if delaying {
			c.reloadDelay -= consumed
			if c.reloadDelay == 0 {
				c.tima = c.tma
				c.irq.Request(interrupts.TimerFlag)
			}
		}
	}
}

// advance moves the accumulator forward by at most cycles,
// stopping early on the cycle TIMA overflows so the reload delay
// can be counted from that point. It returns the cycles consumed.
func (c *Controller) advance(cycles int) int {
	old := uint32(c.div)
	end := old + uint32(cycles)

	if c.Enabled() {
		// the monitored bit falls every time the accumulator
		// crosses a multiple of period
		period := uint32(1) << (c.monitoredBit() + 1)
		for edge := (old/period + 1) * period; edge <= end; edge += period {
			if c.increment() {
				c.div = uint16(edge)
				return int(edge - old)
			}
		}
	}

	c.div = uint16(end)
	return cycles
}

// increment increments TIMA, returning true when it overflowed.
func (c *Controller) increment() bool {
	c.tima++
	if c.tima == 0 {
		c.reloadDelay = ReloadDelay
		return true
	}
	return false
}

// Div returns the visible divider (types.DIV).
func (c *Controller) Div() uint8 {
	return uint8(c.div >> 8)
}

// Accumulator returns the full 16-bit internal counter.
func (c *Controller) Accumulator() uint16 {
	return c.div
}

// SetAccumulator sets the internal counter directly, which is used
// to establish the post boot ROM state.
func (c *Controller) SetAccumulator(v uint16) {
	c.div = v
}

// ResetDiv handles a write to types.DIV, which clears the whole
// accumulator. If the monitored bit was high this produces a
// falling edge.
func (c *Controller) ResetDiv() {
	before := c.signal()
	c.div = 0
	if before {
		c.increment()
	}
}

// TIMA returns the current counter value.
func (c *Controller) TIMA() uint8 {
	return c.tima
}

// SetTIMA handles a write to types.TIMA. Writing during the reload
// delay cancels the pending reload and interrupt.
func (c *Controller) SetTIMA(v uint8) {
	c.reloadDelay = 0
	c.tima = v
}

// TMA returns the reload value.
func (c *Controller) TMA() uint8 {
	return c.tma
}

// SetTMA handles a write to types.TMA.
func (c *Controller) SetTMA(v uint8) {
	c.tma = v
}

// TAC returns the control register, unused bits read as set.
func (c *Controller) TAC() uint8 {
	return c.tac | 0b11111000
}

// SetTAC handles a write to types.TAC. The monitored bit changes
// immediately, and disabling the timer or switching to a bit that
// is low while the old one was high increments TIMA.
func (c *Controller) SetTAC(v uint8) {
	before := c.signal()
	c.tac = v & 0b111
	if before && !c.signal() {
		c.increment()
	}
}
