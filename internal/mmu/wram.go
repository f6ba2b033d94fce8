package mmu

// WRAM is the 8KiB of work RAM mapped at 0xC000-0xDFFF. It is split in
// two 4KiB banks, the second of which is switchable on later hardware,
// so the bank is kept even though it is fixed on the DMG.
type WRAM struct {
	bank uint8
	raw  [2][0x1000]uint8
}

// NewWRAM returns a new, zeroed WRAM.
func NewWRAM() *WRAM {
	return &WRAM{
		bank: 1, // bank 1 is the default as the first bank is fixed
	}
}

// Read returns the byte at addr (0xC000-0xDFFF).
func (w *WRAM) Read(addr uint16) uint8 {
	// are we reading from the fixed bank?
	if addr < 0xD000 {
		return w.raw[0][addr&0xFFF]
	}
	return w.raw[w.bank][addr&0xFFF]
}

// Write sets the byte at addr (0xC000-0xDFFF).
func (w *WRAM) Write(addr uint16, value uint8) {
	if addr < 0xD000 {
		w.raw[0][addr&0xFFF] = value
		return
	}
	w.raw[w.bank][addr&0xFFF] = value
}
