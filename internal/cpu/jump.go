package cpu

import "fmt"

// conditions holds the branch conditions in the order they are
// encoded in bits 3-4 of the conditional jumps.
var conditions = [4]struct {
	name string
	fn   func(c *CPU) bool
}{
	{"NZ", func(c *CPU) bool { return !c.isFlagSet(FlagZero) }},
	{"Z", func(c *CPU) bool { return c.isFlagSet(FlagZero) }},
	{"NC", func(c *CPU) bool { return !c.isFlagSet(FlagCarry) }},
	{"C", func(c *CPU) bool { return c.isFlagSet(FlagCarry) }},
}

func init() {
	DefineInstruction(0xC3, "JP a16", func(c *CPU) {
		c.jumpAbsolute(c.readOperand16())
	})
	DefineInstruction(0xE9, "JP HL", func(c *CPU) {
		c.PC = c.HL.Uint16()
	})
	DefineInstruction(0x18, "JR r8", func(c *CPU) {
		c.jumpRelative(c.readOperand())
	})
	DefineInstruction(0xCD, "CALL a16", func(c *CPU) {
		c.call(c.readOperand16())
	})
	DefineInstruction(0xC9, "RET", func(c *CPU) {
		c.ret()
	})
	DefineInstruction(0xD9, "RETI", func(c *CPU) {
		c.ret()
		c.ime = true
		c.imePending = false
	})

	for i, cond := range conditions {
		cc := cond.fn
		DefineInstruction(0xC2+uint8(i)<<3, fmt.Sprintf("JP %s, a16", cond.name), func(c *CPU) {
			address := c.readOperand16()
			if cc(c) {
				c.jumpAbsolute(address)
			}
		})
		DefineInstruction(0x20+uint8(i)<<3, fmt.Sprintf("JR %s, r8", cond.name), func(c *CPU) {
			offset := c.readOperand()
			if cc(c) {
				c.jumpRelative(offset)
			}
		})
		DefineInstruction(0xC4+uint8(i)<<3, fmt.Sprintf("CALL %s, a16", cond.name), func(c *CPU) {
			address := c.readOperand16()
			if cc(c) {
				c.call(address)
			}
		})
		DefineInstruction(0xC0+uint8(i)<<3, fmt.Sprintf("RET %s", cond.name), func(c *CPU) {
			c.tickCycle()
			if cc(c) {
				c.ret()
			}
		})
	}

	for i := uint8(0); i < 8; i++ {
		vector := uint16(i) << 3
		DefineInstruction(0xC7+i<<3, fmt.Sprintf("RST %02XH", vector), func(c *CPU) {
			c.call(vector)
		})
	}
}

// jumpAbsolute sets PC to address, spending one internal cycle.
func (c *CPU) jumpAbsolute(address uint16) {
	c.PC = address
	c.tickCycle()
}

// jumpRelative adds the signed offset to PC, spending one internal
// cycle.
func (c *CPU) jumpRelative(offset uint8) {
	c.PC = uint16(int32(c.PC) + int32(int8(offset)))
	c.tickCycle()
}

// call pushes PC to the stack and jumps to address.
func (c *CPU) call(address uint16) {
	c.tickCycle()
	c.push(c.PC)
	c.PC = address
}

// ret pops PC from the stack.
func (c *CPU) ret() {
	c.PC = c.pop()
	c.tickCycle()
}
