package web

// Type is the first byte of every message sent to a client.
type Type = uint8

const (
	// Hello is sent once to every client after it connects. It holds
	// the little-endian ROM fingerprint followed by the ROM title.
	Hello Type = iota
	// Line holds a line of serial output.
	Line
	// Char holds a single byte of serial output.
	Char
	// ClientClosing is sent by a client before it disconnects.
	ClientClosing = 255
)

// Flags is the second byte of every message sent to a client.
type Flags = uint8

const (
	// Compressed is set when the payload is brotli compressed.
	Compressed Flags = 1 << iota
)
