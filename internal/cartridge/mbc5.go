package cartridge

// MemoryBankedCartridge5 represents a MBC5 cartridge, which supports up
// to 8MiB of ROM and 128KiB of RAM. Unlike the earlier controllers,
// bank 0 may be mapped into 0x4000-0x7FFF.
//
//	0x0000-0x1FFF - RAM enable (0x0A in the lower nibble)
//	0x2000-0x2FFF - ROM bank, lower 8 bits
//	0x3000-0x3FFF - ROM bank, bit 8
//	0x4000-0x5FFF - RAM bank, 4 bits
type MemoryBankedCartridge5 struct {
	*memoryBankedCartridge
}

// NewMemoryBankedCartridge5 returns a new MemoryBankedCartridge5 cartridge.
func NewMemoryBankedCartridge5(rom []byte, header *Header) *MemoryBankedCartridge5 {
	return &MemoryBankedCartridge5{memoryBankedCartridge: newMemoryBankedCartridge(rom, header)}
}

// Read returns the value from the cartridges ROM or RAM, depending on the bank
// selected.
func (m *MemoryBankedCartridge5) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.readROM(0, address)
	case address < 0x8000:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address < 0xC000:
		return m.readRAM(int(m.ramBank), address)
	}
	return 0xFF
}

// Write attempts to switch the ROM or RAM bank.
func (m *MemoryBankedCartridge5) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = ramEnableValue(value)
	case address < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address < 0x4000:
		m.romBank = m.romBank&0xFF | uint16(value&0x01)<<8
	case address < 0x6000:
		m.ramBank = value & 0x0F
	case address >= 0xA000 && address < 0xC000:
		m.writeRAM(int(m.ramBank), address, value)
	}
}
