package cartridge

import "github.com/thelolagemann/dmgcore/pkg/utils"

// MemoryBankedCartridge1 represents a MBC1 cartridge, which supports up
// to 2MiB of ROM and 32KiB of RAM.
//
//	0x0000-0x1FFF - RAM enable (0x0A in the lower nibble)
//	0x2000-0x3FFF - ROM bank, lower 5 bits (0 is treated as 1)
//	0x4000-0x5FFF - upper 2 bits of the ROM bank, or the RAM bank
//	0x6000-0x7FFF - banking mode select
type MemoryBankedCartridge1 struct {
	*memoryBankedCartridge

	bank1 uint8 // 5 bit register
	bank2 uint8 // 2 bit register
	mode  bool  // false = simple, true = advanced banking
}

// NewMemoryBankedCartridge1 returns a new MemoryBankedCartridge1 cartridge.
func NewMemoryBankedCartridge1(rom []byte, header *Header) *MemoryBankedCartridge1 {
	m := &MemoryBankedCartridge1{
		memoryBankedCartridge: newMemoryBankedCartridge(rom, header),
		bank1:                 1,
	}
	m.updateROMBank()
	return m
}

// Read returns the value from the cartridges ROM or RAM, depending on the bank
// selected.
func (m *MemoryBankedCartridge1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.readROM(m.zeroBank(), address)
	case address < 0x8000:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address < 0xC000:
		return m.readRAM(m.currentRAMBank(), address)
	}
	return 0xFF
}

// Write attempts to switch the ROM or RAM bank.
func (m *MemoryBankedCartridge1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = ramEnableValue(value)
	case address < 0x4000:
		m.bank1 = utils.ZeroAdjust8(value & 0x1F)
		m.updateROMBank()
	case address < 0x6000:
		m.bank2 = value & 0x03
		m.updateROMBank()
	case address < 0x8000:
		m.mode = value&0x01 == 0x01
	case address >= 0xA000 && address < 0xC000:
		m.writeRAM(m.currentRAMBank(), address, value)
	}
}

// updateROMBank combines both bank registers into the bank mapped to
// 0x4000-0x7FFF. Because bank1 can never be 0, the banks 0x00, 0x20,
// 0x40 and 0x60 are unreachable and select the bank after instead.
func (m *MemoryBankedCartridge1) updateROMBank() {
	m.romBank = uint16(m.bank2)<<5 | uint16(m.bank1)
	m.romBank %= uint16(m.romBanks())
}

// zeroBank returns the bank mapped to 0x0000-0x3FFF, which only
// follows bank2 in advanced banking mode.
func (m *MemoryBankedCartridge1) zeroBank() int {
	if m.mode {
		return int(m.bank2) << 5
	}
	return 0
}

// currentRAMBank returns the selected RAM bank, which is fixed to 0
// in simple banking mode.
func (m *MemoryBankedCartridge1) currentRAMBank() int {
	if m.mode {
		return int(m.bank2)
	}
	return 0
}
