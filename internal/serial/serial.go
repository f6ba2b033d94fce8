// Package serial implements the serial port. Transfers complete
// instantly, the outgoing byte is delivered to the attached Device
// and to any listeners, which is how most test ROMs report their
// results.
package serial

import (
	"strings"

	"github.com/thelolagemann/dmgcore/internal/interrupts"
	"github.com/thelolagemann/dmgcore/internal/types"
)

// CharListener is called with every byte transferred.
type CharListener func(c byte)

// LineListener is called with every complete, non-blank line of
// text transferred. Lines are terminated by '\n', '\r' or '\0' and
// have surrounding whitespace removed.
type LineListener func(line string)

// Controller is the serial controller. It owns SB and SC.
type Controller struct {
	data    uint8 // types.SB
	control uint8 // types.SC

	AttachedDevice Device // the device that is attached to this controller.

	line  strings.Builder
	chars []CharListener
	lines []LineListener

	irq *interrupts.Service
}

// NewController creates a new Controller. By default, the
// Controller is attached to a nullDevice, which is the same as if
// no cable is plugged in.
func NewController(irq *interrupts.Service) *Controller {
	return &Controller{
		irq:            irq,
		AttachedDevice: nullDevice{},
	}
}

// Attach attaches a Device to the Controller.
func (c *Controller) Attach(d Device) {
	c.AttachedDevice = d
}

// OnChar registers l to be called with every transferred byte.
func (c *Controller) OnChar(l CharListener) {
	c.chars = append(c.chars, l)
}

// OnLine registers l to be called with every complete line.
func (c *Controller) OnLine(l LineListener) {
	c.lines = append(c.lines, l)
}

// ReadData returns SB.
func (c *Controller) ReadData() uint8 {
	return c.data
}

// WriteData sets SB.
func (c *Controller) WriteData(v uint8) {
	c.data = v
}

// ReadControl returns SC, bits 1-6 are unused and always set.
func (c *Controller) ReadControl() uint8 {
	return c.control | 0x7E
}

// WriteControl sets SC. Requesting a transfer with the internal
// clock selected performs the transfer immediately.
func (c *Controller) WriteControl(v uint8) {
	if v&(types.Bit7|types.Bit0) == types.Bit7|types.Bit0 {
		v &^= types.Bit7
		c.transfer()
	}
	c.control = v & (types.Bit7 | types.Bit0)
}

// transfer exchanges SB with the attached device, raises the serial
// interrupt and notifies listeners.
func (c *Controller) transfer() {
	out := c.data
	c.irq.Request(interrupts.SerialFlag)

	c.AttachedDevice.Receive(out)
	c.data = c.AttachedDevice.Send()

	for _, l := range c.chars {
		l(out)
	}

	switch out {
	case '\n', '\r', 0:
		c.flushLine()
	default:
		c.line.WriteByte(out)
	}
}

// flushLine delivers the buffered line, if it has any content.
func (c *Controller) flushLine() {
	line := strings.TrimSpace(c.line.String())
	c.line.Reset()
	if line == "" {
		return
	}
	for _, l := range c.lines {
		l(line)
	}
}
