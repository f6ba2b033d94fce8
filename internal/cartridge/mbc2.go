package cartridge

import "github.com/thelolagemann/dmgcore/pkg/utils"

// mbc2RAMSize is the size of the built-in RAM, in 4-bit cells.
const mbc2RAMSize = 512

// MemoryBankedCartridge2 represents a MBC2 cartridge, which supports up
// to 256KiB of ROM and has 512x4 bits of RAM built into the controller.
//
// Both registers live in 0x0000-0x3FFF, and are told apart by bit 8 of
// the address: when clear the write controls RAM enable, when set the
// lower 4 bits select the ROM bank.
type MemoryBankedCartridge2 struct {
	*memoryBankedCartridge
}

// NewMemoryBankedCartridge2 returns a new MemoryBankedCartridge2 cartridge.
func NewMemoryBankedCartridge2(rom []byte, header *Header) *MemoryBankedCartridge2 {
	m := newMemoryBankedCartridge(rom, header)
	m.ram = make([]byte, mbc2RAMSize)
	return &MemoryBankedCartridge2{memoryBankedCartridge: m}
}

// Read returns the value from the cartridges ROM or RAM. Only the lower
// nibble of RAM is stored, the upper nibble reads as set.
func (m *MemoryBankedCartridge2) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.readROM(0, address)
	case address < 0x8000:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[address&0x1FF] | 0xF0
	}
	return 0xFF
}

// Write attempts to switch the ROM bank, or writes to RAM.
func (m *MemoryBankedCartridge2) Write(address uint16, value uint8) {
	switch {
	case address < 0x4000:
		if address&0x0100 == 0 {
			m.ramEnabled = ramEnableValue(value)
		} else {
			m.romBank = uint16(utils.ZeroAdjust8(value & 0x0F))
		}
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled {
			m.ram[address&0x1FF] = value & 0x0F
		}
	}
}
