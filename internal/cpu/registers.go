package cpu

import (
	"fmt"

	"github.com/thelolagemann/dmgcore/internal/types"
)

// Registers represents the GB CPU registers.
type Registers struct {
	A types.Register
	B types.Register
	C types.Register
	D types.Register
	E types.Register
	F types.Register
	H types.Register
	L types.Register

	BC *types.RegisterPair
	DE *types.RegisterPair
	HL *types.RegisterPair
	AF *types.RegisterPair
}

// registerNames holds the operand names in the order they are encoded
// in the lower 3 bits of most opcodes.
var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// registerIndex returns a Register pointer for the given index. Index
// 6 refers to memory at HL, and has no Register.
func (c *CPU) registerIndex(index uint8) *types.Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("invalid register index: %d", index))
}

// readIndex returns the operand at index, reading memory at HL for
// index 6.
func (c *CPU) readIndex(index uint8) uint8 {
	if index == 6 {
		return c.readByte(c.HL.Uint16())
	}
	return *c.registerIndex(index)
}

// writeIndex sets the operand at index, writing memory at HL for
// index 6.
func (c *CPU) writeIndex(index uint8, value uint8) {
	if index == 6 {
		c.writeByte(c.HL.Uint16(), value)
		return
	}
	*c.registerIndex(index) = value
}

// Snapshot is a copy of the register file at a point in time.
type Snapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME                    bool
}

// Snapshot returns a copy of the current register file.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC,
		IME: c.ime,
	}
}

func (s Snapshot) String() string {
	ime := 0
	if s.IME {
		ime = 1
	}
	return fmt.Sprintf("A:%02X F:%02X B:%02X C:%02X D:%02X E:%02X H:%02X L:%02X SP:%04X PC:%04X IME:%d",
		s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L, s.SP, s.PC, ime)
}
