package cpu

import "fmt"

// aluOps holds the 8-bit arithmetic operations in the order they are
// encoded in bits 3-5 of opcodes 0x80-0xBF and 0xC6-0xFE.
var aluOps = [8]struct {
	name string
	fn   func(c *CPU, n uint8)
}{
	{"ADD A,", (*CPU).add},
	{"ADC A,", (*CPU).adc},
	{"SUB", (*CPU).sub},
	{"SBC A,", (*CPU).sbc},
	{"AND", (*CPU).and},
	{"XOR", (*CPU).xor},
	{"OR", (*CPU).or},
	{"CP", (*CPU).compare},
}

func init() {
	for op := uint8(0); op < 8; op++ {
		alu := aluOps[op]

		// ALU A, r
		for src := uint8(0); src < 8; src++ {
			idx := src
			DefineInstruction(0x80+op<<3+src, fmt.Sprintf("%s %s", alu.name, registerNames[idx]), func(c *CPU) {
				alu.fn(c, c.readIndex(idx))
			})
		}

		// ALU A, d8
		DefineInstruction(0xC6+op<<3, alu.name+" d8", func(c *CPU) {
			alu.fn(c, c.readOperand())
		})
	}

	// INC r ; DEC r
	for i := uint8(0); i < 8; i++ {
		idx := i
		DefineInstruction(0x04+idx<<3, "INC "+registerNames[idx], func(c *CPU) {
			c.writeIndex(idx, c.increment(c.readIndex(idx)))
		})
		DefineInstruction(0x05+idx<<3, "DEC "+registerNames[idx], func(c *CPU) {
			c.writeIndex(idx, c.decrement(c.readIndex(idx)))
		})
	}

	// 16-bit INC, DEC and ADD HL
	pairs := []struct {
		name string
		get  func(c *CPU) uint16
		set  func(c *CPU, v uint16)
	}{
		{"BC", func(c *CPU) uint16 { return c.BC.Uint16() }, func(c *CPU, v uint16) { c.BC.SetUint16(v) }},
		{"DE", func(c *CPU) uint16 { return c.DE.Uint16() }, func(c *CPU, v uint16) { c.DE.SetUint16(v) }},
		{"HL", func(c *CPU) uint16 { return c.HL.Uint16() }, func(c *CPU, v uint16) { c.HL.SetUint16(v) }},
		{"SP", func(c *CPU) uint16 { return c.SP }, func(c *CPU, v uint16) { c.SP = v }},
	}
	for i, p := range pairs {
		get, set := p.get, p.set
		DefineInstruction(0x03+uint8(i)<<4, "INC "+p.name, func(c *CPU) {
			set(c, get(c)+1)
			c.tickCycle()
		})
		DefineInstruction(0x0B+uint8(i)<<4, "DEC "+p.name, func(c *CPU) {
			set(c, get(c)-1)
			c.tickCycle()
		})
		DefineInstruction(0x09+uint8(i)<<4, "ADD HL, "+p.name, func(c *CPU) {
			c.addHL(get(c))
			c.tickCycle()
		})
	}

	DefineInstruction(0xE8, "ADD SP, r8", func(c *CPU) {
		c.SP = c.addSPSigned(c.readOperand())
		c.tickCycle()
		c.tickCycle()
	})
}

// add performs an 8-bit addition of n to the A register.
//
//	ADD A, n
//	n = d8, A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) add(n uint8) {
	c.A = c.addCarry(c.A, n, 0)
}

// adc adds n plus the carry flag to the A register.
//
//	ADC A, n
//	n = d8, A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) adc(n uint8) {
	c.A = c.addCarry(c.A, n, c.carryBit())
}

func (c *CPU) addCarry(a, b, carry uint8) uint8 {
	sum := uint16(a) + uint16(b) + uint16(carry)
	result := uint8(sum)
	c.setFlags(
		result == 0,
		false,
		(a&0x0F)+(b&0x0F)+carry > 0x0F,
		sum > 0xFF,
	)
	return result
}

// sub subtracts n from the A register.
//
//	SUB n
//	n = d8, A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if no borrow from bit 4.
//	C - Set if no borrow.
func (c *CPU) sub(n uint8) {
	c.A = c.subCarry(c.A, n, 0)
}

// sbc subtracts n plus the carry flag from the A register.
//
//	SBC A, n
//	n = d8, A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if no borrow from bit 4.
//	C - Set if no borrow.
func (c *CPU) sbc(n uint8) {
	c.A = c.subCarry(c.A, n, c.carryBit())
}

func (c *CPU) subCarry(a, b, carry uint8) uint8 {
	diff := int16(a) - int16(b) - int16(carry)
	result := uint8(diff)
	c.setFlags(
		result == 0,
		true,
		int16(a&0x0F)-int16(b&0x0F)-int16(carry) < 0,
		diff < 0,
	)
	return result
}

// compare compares A with n. This is basically an A - n subtraction
// instruction, but the results are thrown away.
//
//	CP n
//	n = d8, A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero. (Set if A = n.)
//	N - Set.
//	H - Set if no borrow from bit 4.
//	C - Set for no borrow. (Set if A < n.)
func (c *CPU) compare(n uint8) {
	c.subCarry(c.A, n, 0)
}

// and performs a logical AND of n with the A register.
//
//	AND n
//	n = d8, A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set.
//	C - Reset.
func (c *CPU) and(n uint8) {
	c.A &= n
	c.setFlags(c.A == 0, false, true, false)
}

// or performs a logical OR of n with the A register.
//
//	OR n
//	n = d8, A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) or(n uint8) {
	c.A |= n
	c.setFlags(c.A == 0, false, false, false)
}

// xor performs a logical XOR of n with the A register.
//
//	XOR n
//	n = d8, A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) xor(n uint8) {
	c.A ^= n
	c.setFlags(c.A == 0, false, false, false)
}

// increment returns n + 1.
//
//	INC n
//	n = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Not affected.
func (c *CPU) increment(n uint8) uint8 {
	result := n + 1
	c.setFlags(result == 0, false, n&0x0F == 0x0F, c.isFlagSet(FlagCarry))
	return result
}

// decrement returns n - 1.
//
//	DEC n
//	n = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if no borrow from bit 4.
//	C - Not affected.
func (c *CPU) decrement(n uint8) uint8 {
	result := n - 1
	c.setFlags(result == 0, true, n&0x0F == 0, c.isFlagSet(FlagCarry))
	return result
}

// addHL adds n to the HL register pair.
//
//	ADD HL, n
//	n = BC, DE, HL, SP
//
// Flags affected:
//
//	Z - Not affected.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func (c *CPU) addHL(n uint16) {
	hl := c.HL.Uint16()
	sum := uint32(hl) + uint32(n)
	c.setFlags(
		c.isFlagSet(FlagZero),
		false,
		(hl&0x0FFF)+(n&0x0FFF) > 0x0FFF,
		sum > 0xFFFF,
	)
	c.HL.SetUint16(uint16(sum))
}

// addSPSigned returns SP plus the signed offset e. The half carry and
// carry flags come from the unsigned addition of e to the low byte of
// SP.
//
//	ADD SP, e
//	LD HL, SP+e
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) addSPSigned(e uint8) uint16 {
	low := uint8(c.SP)
	c.setFlags(
		false,
		false,
		(low&0x0F)+(e&0x0F) > 0x0F,
		uint16(low)+uint16(e) > 0xFF,
	)
	return uint16(int32(c.SP) + int32(int8(e)))
}
