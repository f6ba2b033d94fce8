package serial

// Device is a device that can be attached to the Controller, on
// the other end of the link cable.
type Device interface {
	// Receive is given the byte shifted out of SB.
	Receive(uint8)
	// Send returns the byte shifted into SB.
	Send() uint8
}

// nullDevice is an implementation of Device that acts as if no
// cable were plugged in. The serial input line floats high, so
// every transfer receives 0xFF.
type nullDevice struct{}

// Receive does nothing.
func (n nullDevice) Receive(uint8) {}

// Send always returns 0xFF.
func (n nullDevice) Send() uint8 { return 0xFF }
