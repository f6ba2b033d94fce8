package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/dmgcore/internal/interrupts"
)

// flatBus is 64KiB of plain memory.
type flatBus [0x10000]uint8

func (b *flatBus) Read(address uint16) uint8         { return b[address] }
func (b *flatBus) Write(address uint16, value uint8) { b[address] = value }

// countingTimer records the cycles it is ticked by.
type countingTimer struct {
	ticks  int
	resets int
}

func (t *countingTimer) Tick(cycles int) { t.ticks += cycles }
func (t *countingTimer) ResetDiv()       { t.resets++ }

type testSystem struct {
	cpu   *CPU
	bus   *flatBus
	irq   *interrupts.Service
	timer *countingTimer
}

// newTestSystem returns a CPU with program loaded at 0x0100.
func newTestSystem(program ...uint8) *testSystem {
	s := &testSystem{
		bus:   &flatBus{},
		irq:   interrupts.NewService(),
		timer: &countingTimer{},
	}
	copy(s.bus[0x0100:], program)
	s.cpu = NewCPU(s.bus, s.irq, s.timer)
	return s
}

func (s *testSystem) step(t *testing.T) int {
	t.Helper()
	cycles, err := s.cpu.Step()
	require.NoError(t, err)
	return cycles
}

func TestCPU_PowerOn(t *testing.T) {
	s := newTestSystem()
	assert.Equal(t, uint16(0x01B0), s.cpu.AF.Uint16())
	assert.Equal(t, uint16(0x0013), s.cpu.BC.Uint16())
	assert.Equal(t, uint16(0x00D8), s.cpu.DE.Uint16())
	assert.Equal(t, uint16(0x014D), s.cpu.HL.Uint16())
	assert.Equal(t, uint16(0xFFFE), s.cpu.SP)
	assert.Equal(t, uint16(0x0100), s.cpu.PC)
	assert.False(t, s.cpu.IME())
	assert.False(t, s.cpu.Halted())
}

func TestCPU_ColdBoot(t *testing.T) {
	bus := &flatBus{}
	bus[0x0000] = 0x31 // LD SP, 0xFFFE
	bus[0x0001] = 0xFE
	bus[0x0002] = 0xFF
	c := NewCPU(bus, interrupts.NewService(), &countingTimer{}, WithColdBoot())

	assert.Equal(t, uint16(0), c.AF.Uint16())
	assert.Equal(t, uint16(0), c.HL.Uint16())
	assert.Equal(t, uint16(0), c.SP)
	assert.Equal(t, uint16(0), c.PC)

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xFFFE), c.SP)
	assert.Equal(t, uint16(0x0003), c.PC)
}

func TestCPU_TimerTicksPerCycle(t *testing.T) {
	// CALL a16 costs 6 machine cycles
	s := newTestSystem(0xCD, 0x00, 0x02)
	cycles := s.step(t)
	assert.Equal(t, 24, cycles)
	assert.Equal(t, 24, s.timer.ticks)
}

func TestCPU_AddSubRoundTrip(t *testing.T) {
	for a := 0; a < 256; a += 3 {
		for b := 0; b < 256; b += 5 {
			s := newTestSystem(0x80, 0x90) // ADD A, B ; SUB B
			s.cpu.A = uint8(a)
			s.cpu.B = uint8(b)

			s.step(t)
			added := s.cpu.A
			assert.Equal(t, uint8(a+b), added)
			assert.Equal(t, a+b > 0xFF, s.cpu.isFlagSet(FlagCarry))
			assert.Equal(t, a&0xF+b&0xF > 0xF, s.cpu.isFlagSet(FlagHalfCarry))

			s.step(t)
			require.Equal(t, uint8(a), s.cpu.A, "a=%02X b=%02X", a, b)
			assert.Equal(t, int(added) < b, s.cpu.isFlagSet(FlagCarry))
			assert.True(t, s.cpu.isFlagSet(FlagSubtract))
		}
	}
}

func TestCPU_XorA(t *testing.T) {
	for _, a := range []uint8{0x00, 0x01, 0x7F, 0xFF} {
		s := newTestSystem(0xAF)
		s.cpu.A = a
		s.cpu.F = 0xF0
		s.step(t)
		assert.Equal(t, uint8(0), s.cpu.A)
		assert.Equal(t, uint8(0x80), s.cpu.F)
	}
}

func TestCPU_PushPop(t *testing.T) {
	tests := []struct {
		name string
		push uint8
		pop  uint8
		get  func(c *CPU) uint16
	}{
		{"BC", 0xC5, 0xC1, func(c *CPU) uint16 { return c.BC.Uint16() }},
		{"DE", 0xD5, 0xD1, func(c *CPU) uint16 { return c.DE.Uint16() }},
		{"HL", 0xE5, 0xE1, func(c *CPU) uint16 { return c.HL.Uint16() }},
		{"AF", 0xF5, 0xF1, func(c *CPU) uint16 { return c.AF.Uint16() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(tt.push, tt.pop)
			s.cpu.SP = 0xD000
			before := tt.get(s.cpu)

			assert.Equal(t, 16, s.step(t))
			assert.Equal(t, uint16(0xCFFE), s.cpu.SP)
			assert.Equal(t, uint8(before>>8), s.bus[0xCFFF])
			assert.Equal(t, uint8(before), s.bus[0xCFFE])

			assert.Equal(t, 12, s.step(t))
			assert.Equal(t, uint16(0xD000), s.cpu.SP)
			assert.Equal(t, before, tt.get(s.cpu))
		})
	}
}

func TestCPU_PopAFMasksFlags(t *testing.T) {
	s := newTestSystem(0xF1)
	s.cpu.SP = 0xD000
	s.bus[0xD000] = 0xFF
	s.bus[0xD001] = 0x12
	s.step(t)
	assert.Equal(t, uint8(0x12), s.cpu.A)
	assert.Equal(t, uint8(0xF0), s.cpu.F)
}

func TestCPU_EIDelay(t *testing.T) {
	t.Run("EI then NOP", func(t *testing.T) {
		s := newTestSystem(0xFB, 0x00, 0x00)
		s.step(t)
		assert.False(t, s.cpu.IME(), "IME should not be set by EI itself")
		s.step(t)
		assert.True(t, s.cpu.IME())
	})
	t.Run("EI then DI", func(t *testing.T) {
		s := newTestSystem(0xFB, 0xF3, 0x00, 0x00)
		s.irq.Enable = 0x1F
		s.irq.Request(interrupts.TimerFlag)
		for i := 0; i < 3; i++ {
			s.step(t)
			assert.False(t, s.cpu.IME())
		}
		assert.Equal(t, uint16(0x0103), s.cpu.PC)
		assert.Equal(t, interrupts.TimerFlag, s.irq.Pending())
	})
	t.Run("EI services after next instruction", func(t *testing.T) {
		s := newTestSystem(0xFB, 0x00, 0x00)
		s.cpu.SP = 0xD000
		s.irq.Enable = 0x1F
		s.irq.Request(interrupts.VBlankFlag)

		s.step(t)
		assert.Equal(t, uint16(0x0101), s.cpu.PC)
		cycles := s.step(t)
		assert.Equal(t, 4+20, cycles)
		assert.Equal(t, uint16(0x0040), s.cpu.PC)
		// return address is the instruction after the NOP
		assert.Equal(t, uint8(0x01), s.bus[0xCFFF])
		assert.Equal(t, uint8(0x02), s.bus[0xCFFE])
	})
}

func TestCPU_InterruptDispatch(t *testing.T) {
	s := newTestSystem(0x00)
	s.cpu.SP = 0xD000
	s.cpu.ime = true
	s.irq.Enable = interrupts.VBlankFlag | interrupts.TimerFlag
	s.irq.Request(interrupts.TimerFlag)
	s.irq.Request(interrupts.VBlankFlag)

	cycles := s.step(t)
	assert.Equal(t, 24, cycles)
	assert.Equal(t, uint16(0x0040), s.cpu.PC)
	assert.False(t, s.cpu.IME())
	assert.Equal(t, interrupts.TimerFlag, s.irq.Pending())
	assert.Equal(t, uint16(0xCFFE), s.cpu.SP)
}

func TestCPU_Halt(t *testing.T) {
	t.Run("wakes on interrupt without IME", func(t *testing.T) {
		s := newTestSystem(0x76, 0x3C) // HALT ; INC A
		s.irq.Enable = interrupts.SerialFlag
		s.step(t)
		require.True(t, s.cpu.Halted())

		for i := 0; i < 10; i++ {
			assert.Equal(t, 4, s.step(t))
		}
		assert.True(t, s.cpu.Halted())

		s.irq.Request(interrupts.SerialFlag)
		s.step(t)
		assert.False(t, s.cpu.Halted())
		assert.Equal(t, uint16(0x0101), s.cpu.PC)

		a := s.cpu.A
		s.step(t)
		assert.Equal(t, a+1, s.cpu.A)
	})
	t.Run("services interrupt with IME", func(t *testing.T) {
		s := newTestSystem(0x76)
		s.cpu.SP = 0xD000
		s.cpu.ime = true
		s.irq.Enable = interrupts.TimerFlag
		s.step(t)
		require.True(t, s.cpu.Halted())

		s.irq.Request(interrupts.TimerFlag)
		cycles := s.step(t)
		assert.Equal(t, 4+20, cycles)
		assert.Equal(t, uint16(0x0050), s.cpu.PC)
		assert.False(t, s.cpu.Halted())
		// the HALT is not re-executed on return
		assert.Equal(t, uint8(0x01), s.bus[0xCFFF])
		assert.Equal(t, uint8(0x01), s.bus[0xCFFE])
	})
	t.Run("halt bug", func(t *testing.T) {
		s := newTestSystem(0x76, 0x3C, 0x00) // HALT ; INC A ; NOP
		s.irq.Enable = interrupts.JoypadFlag
		s.irq.Request(interrupts.JoypadFlag)
		s.cpu.A = 0

		s.step(t)
		assert.False(t, s.cpu.Halted())
		assert.Equal(t, uint16(0x0101), s.cpu.PC)

		// INC A is fetched twice
		s.step(t)
		assert.Equal(t, uint16(0x0101), s.cpu.PC)
		s.step(t)
		assert.Equal(t, uint16(0x0102), s.cpu.PC)
		assert.Equal(t, uint8(2), s.cpu.A)
	})
	t.Run("halt bug with EI services the interrupt", func(t *testing.T) {
		s := newTestSystem(0xFB, 0x76, 0x00) // EI ; HALT ; NOP
		// INC A
		s.bus[0x0040] = 0x3C
		s.cpu.SP = 0xD000
		s.cpu.A = 0
		s.irq.Enable = interrupts.VBlankFlag
		s.irq.Request(interrupts.VBlankFlag)

		s.step(t) // EI
		s.step(t) // HALT, then the interrupt is serviced
		assert.Equal(t, uint16(0x0040), s.cpu.PC)
		assert.False(t, s.cpu.haltBug)
		// HALT is the return address
		assert.Equal(t, uint8(0x01), s.bus[0xCFFF])
		assert.Equal(t, uint8(0x01), s.bus[0xCFFE])

		s.step(t)
		assert.Equal(t, uint16(0x0041), s.cpu.PC)
		assert.Equal(t, uint8(1), s.cpu.A, "the handler runs its first instruction once")
	})
}

func TestCPU_Stop(t *testing.T) {
	s := newTestSystem(0x10, 0x00)
	assert.Equal(t, 8, s.step(t))
	assert.True(t, s.cpu.Halted())
	assert.Equal(t, 1, s.timer.resets)
	assert.Equal(t, uint16(0x0102), s.cpu.PC)
}

func TestCPU_IllegalOpcode(t *testing.T) {
	for _, opcode := range disallowedOpcodes {
		s := newTestSystem(0x00, opcode)
		s.step(t)

		_, err := s.cpu.Step()
		require.Error(t, err)

		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, opcode, decodeErr.Opcode)
		assert.Equal(t, uint16(0x0101), decodeErr.PC)
	}

	t.Run("after the halt bug", func(t *testing.T) {
		s := newTestSystem(0x76, 0xD3) // HALT ; illegal
		s.irq.Enable = interrupts.JoypadFlag
		s.irq.Request(interrupts.JoypadFlag)
		s.step(t)

		_, err := s.cpu.Step()
		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, uint8(0xD3), decodeErr.Opcode)
		assert.Equal(t, uint16(0x0101), decodeErr.PC)
		assert.Equal(t, uint16(0x0101), s.cpu.PC, "PC was not advanced past the illegal opcode")
	})
}

func TestCPU_Trace(t *testing.T) {
	s := newTestSystem(0x3E, 0x42, 0x06, 0x10, 0x80) // LD A, d8 ; LD B, d8 ; ADD A, B
	trace := NewTrace(2)
	s.cpu.trace = trace

	for i := 0; i < 3; i++ {
		s.step(t)
	}

	require.Equal(t, 2, trace.Len())
	tail := trace.Tail(5)
	require.Len(t, tail, 2)
	assert.Equal(t, "LD B, d8", tail[0].Name)
	assert.Equal(t, uint16(0x0102), tail[0].PC)
	assert.Equal(t, "ADD A, B", tail[1].Name)
	assert.Equal(t, uint8(0x52), tail[1].After.A)
	assert.Contains(t, tail[1].String(), "A:52")
}

func TestCPU_Breakpoint(t *testing.T) {
	s := newTestSystem(0x00, 0x40, 0x00)
	WithBreakpoint(0x40)(s.cpu)

	s.step(t)
	_, err := s.cpu.Step()
	assert.ErrorIs(t, err, ErrBreakpoint)

	// execution continues past the breakpoint
	s.step(t)
	assert.Equal(t, uint16(0x0103), s.cpu.PC)
}
