package cpu

import (
	"fmt"

	"github.com/thelolagemann/dmgcore/internal/types"
)

func init() {
	// LD r, r' ; LD r, (HL) ; LD (HL), r
	for i := uint8(0x40); i < 0x80; i++ {
		if i == 0x76 {
			continue // HALT
		}
		dst, src := (i>>3)&7, i&7
		DefineInstruction(i, fmt.Sprintf("LD %s, %s", registerNames[dst], registerNames[src]), func(c *CPU) {
			c.writeIndex(dst, c.readIndex(src))
		})
	}

	// LD r, d8
	for i := uint8(0); i < 8; i++ {
		dst := i
		DefineInstruction(0x06+i<<3, fmt.Sprintf("LD %s, d8", registerNames[dst]), func(c *CPU) {
			c.writeIndex(dst, c.readOperand())
		})
	}

	// LD rr, d16
	DefineInstruction(0x01, "LD BC, d16", func(c *CPU) { c.BC.SetUint16(c.readOperand16()) })
	DefineInstruction(0x11, "LD DE, d16", func(c *CPU) { c.DE.SetUint16(c.readOperand16()) })
	DefineInstruction(0x21, "LD HL, d16", func(c *CPU) { c.HL.SetUint16(c.readOperand16()) })
	DefineInstruction(0x31, "LD SP, d16", func(c *CPU) { c.SP = c.readOperand16() })

	// LD (rr), A ; LD A, (rr)
	DefineInstruction(0x02, "LD (BC), A", func(c *CPU) { c.writeByte(c.BC.Uint16(), c.A) })
	DefineInstruction(0x12, "LD (DE), A", func(c *CPU) { c.writeByte(c.DE.Uint16(), c.A) })
	DefineInstruction(0x0A, "LD A, (BC)", func(c *CPU) { c.A = c.readByte(c.BC.Uint16()) })
	DefineInstruction(0x1A, "LD A, (DE)", func(c *CPU) { c.A = c.readByte(c.DE.Uint16()) })
	DefineInstruction(0x22, "LD (HL+), A", func(c *CPU) {
		c.writeByte(c.HL.Uint16(), c.A)
		c.HL.SetUint16(c.HL.Uint16() + 1)
	})
	DefineInstruction(0x32, "LD (HL-), A", func(c *CPU) {
		c.writeByte(c.HL.Uint16(), c.A)
		c.HL.SetUint16(c.HL.Uint16() - 1)
	})
	DefineInstruction(0x2A, "LD A, (HL+)", func(c *CPU) {
		c.A = c.readByte(c.HL.Uint16())
		c.HL.SetUint16(c.HL.Uint16() + 1)
	})
	DefineInstruction(0x3A, "LD A, (HL-)", func(c *CPU) {
		c.A = c.readByte(c.HL.Uint16())
		c.HL.SetUint16(c.HL.Uint16() - 1)
	})

	// high page loads
	DefineInstruction(0xE0, "LDH (a8), A", func(c *CPU) {
		c.writeByte(0xFF00+uint16(c.readOperand()), c.A)
	})
	DefineInstruction(0xF0, "LDH A, (a8)", func(c *CPU) {
		c.A = c.readByte(0xFF00 + uint16(c.readOperand()))
	})
	DefineInstruction(0xE2, "LD (C), A", func(c *CPU) {
		c.writeByte(0xFF00+uint16(c.C), c.A)
	})
	DefineInstruction(0xF2, "LD A, (C)", func(c *CPU) {
		c.A = c.readByte(0xFF00 + uint16(c.C))
	})

	// absolute loads
	DefineInstruction(0xEA, "LD (a16), A", func(c *CPU) {
		c.writeByte(c.readOperand16(), c.A)
	})
	DefineInstruction(0xFA, "LD A, (a16)", func(c *CPU) {
		c.A = c.readByte(c.readOperand16())
	})
	DefineInstruction(0x08, "LD (a16), SP", func(c *CPU) {
		address := c.readOperand16()
		c.writeByte(address, uint8(c.SP))
		c.writeByte(address+1, uint8(c.SP>>8))
	})

	// stack pointer loads
	DefineInstruction(0xF8, "LD HL, SP+r8", func(c *CPU) {
		c.HL.SetUint16(c.addSPSigned(c.readOperand()))
		c.tickCycle()
	})
	DefineInstruction(0xF9, "LD SP, HL", func(c *CPU) {
		c.SP = c.HL.Uint16()
		c.tickCycle()
	})

	// PUSH / POP
	pairs := []struct {
		name string
		pair func(c *CPU) *types.RegisterPair
	}{
		{"BC", func(c *CPU) *types.RegisterPair { return c.BC }},
		{"DE", func(c *CPU) *types.RegisterPair { return c.DE }},
		{"HL", func(c *CPU) *types.RegisterPair { return c.HL }},
		{"AF", func(c *CPU) *types.RegisterPair { return c.AF }},
	}
	for i, p := range pairs {
		pair := p.pair
		DefineInstruction(0xC5+uint8(i)<<4, "PUSH "+p.name, func(c *CPU) {
			c.tickCycle()
			c.push(pair(c).Uint16())
		})
		DefineInstruction(0xC1+uint8(i)<<4, "POP "+p.name, func(c *CPU) {
			pair(c).SetUint16(c.pop())
		})
	}
}

// push writes value to the stack, high byte first.
func (c *CPU) push(value uint16) {
	c.SP--
	c.writeByte(c.SP, uint8(value>>8))
	c.SP--
	c.writeByte(c.SP, uint8(value))
}

// pop reads a value from the stack, low byte first.
func (c *CPU) pop() uint16 {
	low := c.readByte(c.SP)
	c.SP++
	high := c.readByte(c.SP)
	c.SP++
	return uint16(high)<<8 | uint16(low)
}
