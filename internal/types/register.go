package types

// Register represents a GB Register which is used to hold an 8-bit value.
// The CPU has 8 registers: A, B, C, D, E, H, L, and F. The F register is
// special in that it is used to hold the flags.
type Register = uint8

// RegisterPair is a 16-bit view over two 8-bit Registers. The pair does
// not hold any storage of its own, reads and writes are composed from
// the two halves so that writing either the pair or a half is always
// observed by the other.
type RegisterPair struct {
	High *Register
	Low  *Register

	// lowMask is applied to the low byte on every 16-bit write. It
	// keeps the unused nibble of F zero when the pair is AF.
	lowMask uint8
}

// NewRegisterPair returns a RegisterPair over high and low.
func NewRegisterPair(high, low *Register) *RegisterPair {
	return &RegisterPair{High: high, Low: low, lowMask: 0xFF}
}

// NewMaskedRegisterPair returns a RegisterPair whose low byte is
// masked with mask whenever the pair is written as a whole.
func NewMaskedRegisterPair(high, low *Register, mask uint8) *RegisterPair {
	return &RegisterPair{High: high, Low: low, lowMask: mask}
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value) & r.lowMask
}
