package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thelolagemann/dmgcore/internal/interrupts"
)

func newTestController() (*Controller, *interrupts.Service) {
	irq := interrupts.NewService()
	return NewController(irq), irq
}

func TestController_Div(t *testing.T) {
	c, _ := newTestController()
	c.Tick(255)
	assert.Equal(t, uint8(0), c.Div())
	c.Tick(1)
	assert.Equal(t, uint8(1), c.Div())

	c.Tick(0x1000)
	assert.Equal(t, uint8(0x11), c.Div())

	c.ResetDiv()
	assert.Equal(t, uint16(0), c.Accumulator())
	assert.Equal(t, uint8(0), c.Div())
}

func TestController_EdgeCounting(t *testing.T) {
	t.Run("single edge across a multi cycle tick", func(t *testing.T) {
		c, _ := newTestController()
		c.SetTAC(0b101) // enabled, bit 3
		c.SetAccumulator(0x00FF)

		c.Tick(8)
		assert.Equal(t, uint16(0x0107), c.Accumulator())
		assert.Equal(t, uint8(1), c.TIMA())
	})
	t.Run("large ticks are not under counted", func(t *testing.T) {
		c, _ := newTestController()
		c.SetTAC(0b101)

		c.Tick(16 * 10)
		assert.Equal(t, uint8(10), c.TIMA())
	})
	t.Run("frequencies", func(t *testing.T) {
		tests := []struct {
			tac    uint8
			period int
		}{
			{0b100, 1024},
			{0b101, 16},
			{0b110, 64},
			{0b111, 256},
		}
		for _, tt := range tests {
			c, _ := newTestController()
			c.SetTAC(tt.tac)
			c.Tick(tt.period - 4)
			assert.Equal(t, uint8(0), c.TIMA(), "tac %03b", tt.tac)
			c.Tick(4)
			assert.Equal(t, uint8(1), c.TIMA(), "tac %03b", tt.tac)
		}
	})
	t.Run("disabled", func(t *testing.T) {
		c, _ := newTestController()
		c.SetTAC(0b001)
		c.Tick(4096)
		assert.Equal(t, uint8(0), c.TIMA())
	})
	t.Run("accumulator wraparound", func(t *testing.T) {
		c, _ := newTestController()
		c.SetTAC(0b100)
		c.SetAccumulator(0xFFF0)
		c.Tick(0x20)
		assert.Equal(t, uint16(0x0010), c.Accumulator())
		assert.Equal(t, uint8(1), c.TIMA())
	})
}

func TestController_Overflow(t *testing.T) {
	t.Run("reload after delay", func(t *testing.T) {
		c, irq := newTestController()
		c.SetTAC(0b101)
		c.SetTMA(0x42)
		c.SetTIMA(0xFF)

		c.Tick(16)
		assert.Equal(t, uint8(0x00), c.TIMA())
		assert.Zero(t, irq.Flag)

		c.Tick(ReloadDelay)
		assert.Equal(t, uint8(0x42), c.TIMA())
		assert.Equal(t, interrupts.TimerFlag, irq.Flag)
	})
	t.Run("reload within the same tick", func(t *testing.T) {
		c, irq := newTestController()
		c.SetTAC(0b101)
		c.SetTMA(0x80)
		c.SetTIMA(0xFF)

		c.Tick(16 + ReloadDelay)
		assert.Equal(t, uint8(0x80), c.TIMA())
		assert.Equal(t, interrupts.TimerFlag, irq.Flag)
	})
	t.Run("write during delay cancels reload", func(t *testing.T) {
		c, irq := newTestController()
		c.SetTAC(0b101)
		c.SetTMA(0x42)
		c.SetTIMA(0xFF)

		c.Tick(16)
		c.SetTIMA(0x10)
		c.Tick(ReloadDelay)
		assert.Equal(t, uint8(0x10), c.TIMA())
		assert.Zero(t, irq.Flag)
	})
}

func TestController_Glitches(t *testing.T) {
	t.Run("div reset with monitored bit high", func(t *testing.T) {
		c, _ := newTestController()
		c.SetTAC(0b101)
		c.SetAccumulator(0x0008)
		c.ResetDiv()
		assert.Equal(t, uint8(1), c.TIMA())
	})
	t.Run("div reset with monitored bit low", func(t *testing.T) {
		c, _ := newTestController()
		c.SetTAC(0b101)
		c.SetAccumulator(0x0010)
		c.ResetDiv()
		assert.Equal(t, uint8(0), c.TIMA())
	})
	t.Run("disabling with monitored bit high", func(t *testing.T) {
		c, _ := newTestController()
		c.SetTAC(0b101)
		c.SetAccumulator(0x0008)
		c.SetTAC(0b001)
		assert.Equal(t, uint8(1), c.TIMA())
	})
	t.Run("switching frequency changes the monitored bit", func(t *testing.T) {
		c, _ := newTestController()
		c.SetTAC(0b100)
		c.SetAccumulator(0x0100)
		c.SetTAC(0b101) // bit 9 low, bit 3 low: no edge
		assert.Equal(t, uint8(0), c.TIMA())
		c.Tick(16)
		assert.Equal(t, uint8(1), c.TIMA())
	})
}

func TestController_Registers(t *testing.T) {
	c, _ := newTestController()
	assert.Equal(t, uint8(0xF8), c.TAC())
	c.SetTAC(0xFF)
	assert.Equal(t, uint8(0xFF), c.TAC())
	assert.True(t, c.Enabled())
	c.SetTMA(0x12)
	assert.Equal(t, uint8(0x12), c.TMA())
}
