package cpu

import "fmt"

// DecodeError is returned by Step when an opcode with no defined
// behaviour is fetched. Continuing past it would desynchronise PC
// from the instruction stream, so it is always fatal.
type DecodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}
