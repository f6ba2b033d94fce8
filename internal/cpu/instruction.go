package cpu

// Instruction is a single entry of the instruction tables.
type Instruction struct {
	name string
	fn   func(*CPU)
}

// Name returns the mnemonic of the instruction.
func (i Instruction) Name() string {
	return i.name
}

var (
	// InstructionSet holds the base instructions, indexed by opcode.
	InstructionSet [256]Instruction
	// InstructionSetCB holds the instructions prefixed by 0xCB,
	// indexed by the second byte.
	InstructionSetCB [256]Instruction
)

// DefineInstruction defines the instruction in the InstructionSet,
// with the provided opcode.
func DefineInstruction(opcode uint8, name string, fn func(*CPU)) {
	InstructionSet[opcode] = Instruction{
		name: name,
		fn:   fn,
	}
}

// DefineInstructionCB defines the instruction in the InstructionSetCB,
// with the provided opcode.
func DefineInstructionCB(opcode uint8, name string, fn func(*CPU)) {
	InstructionSetCB[opcode] = Instruction{
		name: name,
		fn:   fn,
	}
}

// disallowedOpcodes have no behaviour on the SM83, and lock up the
// real hardware.
var disallowedOpcodes = []uint8{
	0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD,
}

func init() {
	DefineInstruction(0x00, "NOP", func(c *CPU) {})
	DefineInstruction(0x10, "STOP", func(c *CPU) {
		// STOP is followed by a byte that is skipped
		c.readOperand()
		c.timer.ResetDiv()
		c.mode = ModeStop
	})
	DefineInstruction(0x27, "DAA", func(c *CPU) {
		c.decimalAdjust()
	})
	DefineInstruction(0x2F, "CPL", func(c *CPU) {
		c.A = 0xFF ^ c.A
		c.setFlag(FlagSubtract)
		c.setFlag(FlagHalfCarry)
	})
	DefineInstruction(0x37, "SCF", func(c *CPU) {
		c.setFlag(FlagCarry)
		c.clearFlag(FlagSubtract)
		c.clearFlag(FlagHalfCarry)
	})
	DefineInstruction(0x3F, "CCF", func(c *CPU) {
		if c.isFlagSet(FlagCarry) {
			c.clearFlag(FlagCarry)
		} else {
			c.setFlag(FlagCarry)
		}
		c.clearFlag(FlagSubtract)
		c.clearFlag(FlagHalfCarry)
	})
	DefineInstruction(0x76, "HALT", func(c *CPU) {
		if c.ime || !c.irq.HasInterrupts() {
			c.mode = ModeHalt
		} else {
			// halt bug: HALT with an interrupt pending but IME
			// clear does not halt, and the next byte is read twice
			c.haltBug = true
		}
	})
	DefineInstruction(0xF3, "DI", func(c *CPU) {
		c.ime = false
		c.imePending = false
	})
	DefineInstruction(0xFB, "EI", func(c *CPU) {
		c.imePending = true
	})

	for _, opcode := range disallowedOpcodes {
		DefineInstruction(opcode, "illegal", disallowedOpcode)
	}
}

// disallowedOpcode faults the CPU with the instruction being executed.
func disallowedOpcode(c *CPU) {
	c.fault = &DecodeError{Opcode: c.opcode, PC: c.opPC}
}

// decimalAdjust adjusts the A Register so that the correct
// representation of Binary Coded Decimal (BCD) is obtained, after an
// addition or subtraction of two BCD values.
//
//	DAA
//
// Flags affected:
//
//	Z - Set if register A is zero.
//	N - Not affected.
//	H - Reset.
//	C - Set or reset according to operation.
func (c *CPU) decimalAdjust() {
	if !c.isFlagSet(FlagSubtract) {
		if c.isFlagSet(FlagCarry) || c.A > 0x99 {
			c.A += 0x60
			c.setFlag(FlagCarry)
		}
		if c.isFlagSet(FlagHalfCarry) || c.A&0x0F > 0x09 {
			c.A += 0x06
		}
	} else {
		if c.isFlagSet(FlagCarry) {
			c.A -= 0x60
		}
		if c.isFlagSet(FlagHalfCarry) {
			c.A -= 0x06
		}
	}
	c.setFlags(c.A == 0, c.isFlagSet(FlagSubtract), false, c.isFlagSet(FlagCarry))
}
