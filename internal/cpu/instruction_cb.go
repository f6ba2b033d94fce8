package cpu

import "fmt"

// cbShifts holds the CB rotate and shift operations in the order
// they are encoded in bits 3-5 of opcodes 0x00-0x3F.
var cbShifts = [8]struct {
	name string
	fn   func(c *CPU, n uint8) uint8
}{
	{"RLC", (*CPU).rotateLeftCarry},
	{"RRC", (*CPU).rotateRightCarry},
	{"RL", (*CPU).rotateLeft},
	{"RR", (*CPU).rotateRight},
	{"SLA", (*CPU).shiftLeftArithmetic},
	{"SRA", (*CPU).shiftRightArithmetic},
	{"SWAP", (*CPU).swap},
	{"SRL", (*CPU).shiftRightLogical},
}

func init() {
	for op := uint8(0); op < 8; op++ {
		shift := cbShifts[op]
		for i := uint8(0); i < 8; i++ {
			idx := i
			DefineInstructionCB(op<<3+idx, fmt.Sprintf("%s %s", shift.name, registerNames[idx]), func(c *CPU) {
				c.writeIndex(idx, shift.fn(c, c.readIndex(idx)))
			})
		}
	}

	for b := uint8(0); b < 8; b++ {
		bit := b
		for i := uint8(0); i < 8; i++ {
			idx := i
			DefineInstructionCB(0x40+bit<<3+idx, fmt.Sprintf("BIT %d, %s", bit, registerNames[idx]), func(c *CPU) {
				c.testBit(c.readIndex(idx), bit)
			})
			DefineInstructionCB(0x80+bit<<3+idx, fmt.Sprintf("RES %d, %s", bit, registerNames[idx]), func(c *CPU) {
				c.writeIndex(idx, c.readIndex(idx)&^(1<<bit))
			})
			DefineInstructionCB(0xC0+bit<<3+idx, fmt.Sprintf("SET %d, %s", bit, registerNames[idx]), func(c *CPU) {
				c.writeIndex(idx, c.readIndex(idx)|1<<bit)
			})
		}
	}
}

// testBit tests bit b in n.
//
//	BIT b, n
//	b = 0-7, n = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if bit b of n is 0.
//	N - Reset.
//	H - Set.
//	C - Not affected.
func (c *CPU) testBit(n uint8, b uint8) {
	c.setFlags(n&(1<<b) == 0, false, true, c.isFlagSet(FlagCarry))
}
