package cartridge

// ROMCartridge represents a cartridge without a memory bank
// controller. The 32KiB image is mapped directly, and any RAM is
// always accessible.
type ROMCartridge struct {
	*memoryBankedCartridge
}

// NewROMCartridge returns a new ROMCartridge.
func NewROMCartridge(rom []byte, header *Header) *ROMCartridge {
	m := newMemoryBankedCartridge(rom, header)
	m.ramEnabled = true
	return &ROMCartridge{memoryBankedCartridge: m}
}

// Read returns the value from the ROM or RAM.
func (r *ROMCartridge) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		if int(address) < len(r.rom) {
			return r.rom[address]
		}
		return 0xFF
	case address >= 0xA000 && address < 0xC000:
		return r.readRAM(0, address)
	}
	return 0xFF
}

// Write writes to RAM, if present. Writes to the ROM area are
// ignored.
func (r *ROMCartridge) Write(address uint16, value uint8) {
	if address >= 0xA000 && address < 0xC000 {
		r.writeRAM(0, address, value)
	}
}
