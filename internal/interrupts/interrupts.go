// Package interrupts implements the interrupt controller. It holds the
// request (IF) and enable (IE) masks and decides which of the five
// interrupt sources is to be serviced next.
package interrupts

import (
	"fmt"

	"github.com/thelolagemann/dmgcore/internal/types"
)

// Flag identifies a single interrupt source by its bit in IF and IE.
type Flag = uint8

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0),
	// which is requested every time the display enters
	// its vertical blanking period.
	VBlankFlag Flag = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1), which
	// is requested by the LCD STAT register when certain
	// conditions are met.
	LCDFlag Flag = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2),
	// which is requested when the timer overflows,
	// (types.TIMA > 0xFF).
	TimerFlag Flag = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3),
	// which is requested when a serial transfer is
	// completed.
	SerialFlag Flag = types.Bit3
	// JoypadFlag is the Joypad interrupt Flag (bit 4),
	// which is requested when an input line goes from
	// high to low.
	JoypadFlag Flag = types.Bit4
)

const (
	// validMask covers the five implemented interrupt sources.
	validMask = 0x1F
	// vectorBase is the address of the highest priority handler.
	vectorBase = 0x0040
)

// Service is the interrupt service, used to request
// interrupts and to find the next one to service.
//
// When an interrupt is requested, the corresponding bit
// in the Flag register is set. When an interrupt is
// enabled, the corresponding bit in the Enable register
// is set. Sources only ever set request bits, the CPU
// clears them when it services the interrupt through
// PopHighest.
type Service struct {
	Flag   uint8 // interrupt Flag (types.IF)
	Enable uint8 // interrupt Enable (types.IE)
}

// NewService returns a new Service.
func NewService() *Service {
	return &Service{}
}

// Request requests the specified interrupt, by setting
// the corresponding bit in the Flag register.
func (s *Service) Request(flag Flag) {
	s.Flag |= flag & validMask
}

// Pending returns the interrupts that are both requested
// and enabled.
func (s *Service) Pending() uint8 {
	return s.Flag & s.Enable & validMask
}

// HasInterrupts returns true if there are any interrupts
// that are requested and enabled.
func (s *Service) HasInterrupts() bool {
	return s.Pending() != 0
}

// PopHighest returns the highest priority pending interrupt
// and clears its request bit. The lowest bit has the highest
// priority. If nothing is pending, found is false and the
// masks are left untouched.
func (s *Service) PopHighest() (found bool, flag Flag) {
	pending := s.Pending()
	if pending == 0 {
		return false, 0
	}

	// isolate the lowest set bit
	flag = pending & -pending
	s.Flag &^= flag
	return true, flag
}

// ReadFlag returns IF as seen on the bus. The upper 3
// bits are unused and always read as set.
func (s *Service) ReadFlag() uint8 {
	return s.Flag | 0xE0
}

// WriteFlag sets IF from the bus, only the lower 5 bits
// are stored.
func (s *Service) WriteFlag(value uint8) {
	s.Flag = value & validMask
}

// ReadEnable returns IE as seen on the bus.
func (s *Service) ReadEnable() uint8 {
	return s.Enable
}

// WriteEnable sets IE from the bus.
func (s *Service) WriteEnable(value uint8) {
	s.Enable = value
}

// Vector returns the handler address for flag.
func Vector(flag Flag) uint16 {
	for i := uint16(0); i < 5; i++ {
		if flag == 1<<i {
			return vectorBase + i*8
		}
	}
	panic(fmt.Sprintf("interrupts: invalid flag %08b", flag))
}

// Name returns a human readable name for flag.
func Name(flag Flag) string {
	switch flag {
	case VBlankFlag:
		return "VBlank"
	case LCDFlag:
		return "LCD"
	case TimerFlag:
		return "Timer"
	case SerialFlag:
		return "Serial"
	case JoypadFlag:
		return "Joypad"
	}
	return "unknown"
}
