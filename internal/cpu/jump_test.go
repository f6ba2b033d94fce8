package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJump_Relative(t *testing.T) {
	s := newTestSystem(0x18, 0xFE) // JR -2
	s.step(t)
	assert.Equal(t, uint16(0x0100), s.cpu.PC)

	s = newTestSystem(0x18, 0x7F)
	s.step(t)
	assert.Equal(t, uint16(0x0181), s.cpu.PC)
}

func TestJump_CallReturn(t *testing.T) {
	s := newTestSystem(0xCD, 0x00, 0xC0) // CALL 0xC000
	s.cpu.SP = 0xD000
	s.bus[0xC000] = 0xC9 // RET

	s.step(t)
	assert.Equal(t, uint16(0xC000), s.cpu.PC)
	assert.Equal(t, uint16(0xCFFE), s.cpu.SP)
	assert.Equal(t, uint8(0x01), s.bus[0xCFFF])
	assert.Equal(t, uint8(0x03), s.bus[0xCFFE])

	s.step(t)
	assert.Equal(t, uint16(0x0103), s.cpu.PC)
	assert.Equal(t, uint16(0xD000), s.cpu.SP)
}

func TestJump_RETI(t *testing.T) {
	s := newTestSystem(0xD9)
	s.cpu.SP = 0xCFFE
	s.bus[0xCFFE] = 0x34
	s.bus[0xCFFF] = 0x12
	s.step(t)
	assert.Equal(t, uint16(0x1234), s.cpu.PC)
	assert.True(t, s.cpu.IME(), "RETI enables interrupts immediately")
}

func TestJump_Restart(t *testing.T) {
	for i := uint8(0); i < 8; i++ {
		s := newTestSystem(0xC7 + i<<3)
		s.cpu.SP = 0xD000
		s.step(t)
		assert.Equal(t, uint16(i)<<3, s.cpu.PC)
		assert.Equal(t, uint8(0x01), s.bus[0xCFFE])
	}
}

func TestJump_HL(t *testing.T) {
	s := newTestSystem(0xE9)
	s.cpu.HL.SetUint16(0x4000)
	assert.Equal(t, 4, s.step(t))
	assert.Equal(t, uint16(0x4000), s.cpu.PC)
}
