package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestALU_AddCarry(t *testing.T) {
	tests := []struct {
		name    string
		a, n    uint8
		carryIn bool
		result  uint8
		flags   uint8
	}{
		{"zero", 0x00, 0x00, false, 0x00, 0x80},
		{"half carry", 0x0F, 0x01, false, 0x10, 0x20},
		{"carry", 0xF0, 0x10, false, 0x00, 0x90},
		{"half carry from carry in", 0x0F, 0x00, true, 0x10, 0x20},
		{"full carry from carry in", 0xFF, 0x00, true, 0x00, 0xB0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(0x88) // ADC A, B
			s.cpu.A, s.cpu.B = tt.a, tt.n
			s.cpu.setFlags(false, false, false, tt.carryIn)
			s.step(t)
			assert.Equal(t, tt.result, s.cpu.A)
			assert.Equal(t, tt.flags, s.cpu.F)
		})
	}
}

func TestALU_SubCarry(t *testing.T) {
	tests := []struct {
		name    string
		a, n    uint8
		carryIn bool
		result  uint8
		flags   uint8
	}{
		{"equal", 0x42, 0x42, false, 0x00, 0xC0},
		{"half borrow", 0x10, 0x01, false, 0x0F, 0x60},
		{"borrow", 0x00, 0x01, false, 0xFF, 0x70},
		{"borrow from carry in", 0x00, 0x00, true, 0xFF, 0x70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(0x98) // SBC A, B
			s.cpu.A, s.cpu.B = tt.a, tt.n
			s.cpu.setFlags(false, false, false, tt.carryIn)
			s.step(t)
			assert.Equal(t, tt.result, s.cpu.A)
			assert.Equal(t, tt.flags, s.cpu.F)
		})
	}
}

func TestALU_Compare(t *testing.T) {
	s := newTestSystem(0xFE, 0x43) // CP d8
	s.cpu.A = 0x42
	s.step(t)
	assert.Equal(t, uint8(0x42), s.cpu.A)
	assert.Equal(t, uint8(0x70), s.cpu.F)
}

func TestALU_IncDec(t *testing.T) {
	s := newTestSystem(0x04, 0x05, 0x05) // INC B ; DEC B ; DEC B
	s.cpu.B = 0xFF
	s.cpu.F = 0x10

	s.step(t)
	assert.Equal(t, uint8(0x00), s.cpu.B)
	assert.Equal(t, uint8(0xB0), s.cpu.F, "carry is preserved")

	s.step(t)
	assert.Equal(t, uint8(0xFF), s.cpu.B)
	assert.Equal(t, uint8(0x70), s.cpu.F)

	s.step(t)
	assert.Equal(t, uint8(0xFE), s.cpu.B)
	assert.Equal(t, uint8(0x50), s.cpu.F)
}

func TestALU_AddHL(t *testing.T) {
	s := newTestSystem(0x09) // ADD HL, BC
	s.cpu.HL.SetUint16(0x8FFF)
	s.cpu.BC.SetUint16(0x8001)
	s.cpu.F = 0x80
	s.step(t)
	assert.Equal(t, uint16(0x1000), s.cpu.HL.Uint16())
	assert.Equal(t, uint8(0xB0), s.cpu.F, "zero is not affected")
}

func TestALU_AddSPSigned(t *testing.T) {
	tests := []struct {
		name   string
		sp     uint16
		e      uint8
		result uint16
		flags  uint8
	}{
		{"positive", 0xFFF8, 0x08, 0x0000, 0x30},
		{"negative", 0x0000, 0xFF, 0xFFFF, 0x00},
		{"negative with carries", 0x00FF, 0xFF, 0x00FE, 0x30},
		{"half carry only", 0x000F, 0x01, 0x0010, 0x20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(0xE8, tt.e, 0xF8, tt.e) // ADD SP, r8 ; LD HL, SP+r8
			s.cpu.SP = tt.sp
			s.cpu.F = 0xC0
			assert.Equal(t, 16, s.step(t))
			assert.Equal(t, tt.result, s.cpu.SP)
			assert.Equal(t, tt.flags, s.cpu.F)

			s.cpu.SP = tt.sp
			assert.Equal(t, 12, s.step(t))
			assert.Equal(t, tt.result, s.cpu.HL.Uint16())
			assert.Equal(t, tt.sp, s.cpu.SP)
			assert.Equal(t, tt.flags, s.cpu.F)
		})
	}
}

func TestALU_DecimalAdjust(t *testing.T) {
	tests := []struct {
		name   string
		a      uint8
		flags  uint8
		result uint8
		out    uint8
	}{
		{"no adjust", 0x45, 0x00, 0x45, 0x00},
		{"low nibble", 0x0A, 0x00, 0x10, 0x00},
		{"high nibble", 0xA0, 0x00, 0x00, 0x90},
		{"both nibbles", 0x9A, 0x00, 0x00, 0x90},
		{"half carry", 0x12, 0x20, 0x18, 0x00},
		{"subtract half carry", 0x0F, 0x60, 0x09, 0x40},
		{"subtract carry", 0xF0, 0x50, 0x90, 0x50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSystem(0x27)
			s.cpu.A, s.cpu.F = tt.a, tt.flags
			s.step(t)
			assert.Equal(t, tt.result, s.cpu.A)
			assert.Equal(t, tt.out, s.cpu.F)
		})
	}
}

func TestALU_BCDAddition(t *testing.T) {
	// 0x38 + 0x45 = 0x83 in BCD
	s := newTestSystem(0x80, 0x27) // ADD A, B ; DAA
	s.cpu.A, s.cpu.B = 0x38, 0x45
	s.step(t)
	s.step(t)
	assert.Equal(t, uint8(0x83), s.cpu.A)
	assert.False(t, s.cpu.isFlagSet(FlagCarry))
}

func TestALU_Misc(t *testing.T) {
	s := newTestSystem(0x2F, 0x37, 0x3F) // CPL ; SCF ; CCF
	s.cpu.A = 0x35
	s.cpu.F = 0x80

	s.step(t)
	assert.Equal(t, uint8(0xCA), s.cpu.A)
	assert.Equal(t, uint8(0xE0), s.cpu.F)

	s.step(t)
	assert.Equal(t, uint8(0x90), s.cpu.F)

	s.step(t)
	assert.Equal(t, uint8(0x80), s.cpu.F)
}
