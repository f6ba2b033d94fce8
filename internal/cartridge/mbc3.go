package cartridge

import (
	"time"

	"github.com/thelolagemann/dmgcore/pkg/utils"
)

// MemoryBankedCartridge3 represents a MBC3 cartridge, which supports up
// to 2MiB of ROM, 32KiB of RAM and optionally a real time clock.
//
//	0x0000-0x1FFF - RAM and RTC enable (0x0A in the lower nibble)
//	0x2000-0x3FFF - ROM bank, 7 bits (0 is treated as 1)
//	0x4000-0x5FFF - RAM bank (0x00-0x03) or RTC register (0x08-0x0C)
//	0x6000-0x7FFF - latch clock data (write 0x00 then 0x01)
type MemoryBankedCartridge3 struct {
	*memoryBankedCartridge

	hasRTC     bool
	rtc        *RTC
	latchValue uint8
}

// NewMemoryBankedCartridge3 returns a new MemoryBankedCartridge3 cartridge.
func NewMemoryBankedCartridge3(rom []byte, header *Header) *MemoryBankedCartridge3 {
	return newMemoryBankedCartridge3(rom, header, time.Now)
}

func newMemoryBankedCartridge3(rom []byte, header *Header, now func() time.Time) *MemoryBankedCartridge3 {
	return &MemoryBankedCartridge3{
		memoryBankedCartridge: newMemoryBankedCartridge(rom, header),
		hasRTC:                header.CartridgeType == MBC3TIMERBATT || header.CartridgeType == MBC3TIMERRAMBATT,
		rtc:                   newRTC(now),
		latchValue:            0xFF,
	}
}

// RTC returns the real time clock of the cartridge, or nil if the
// cartridge has none.
func (m *MemoryBankedCartridge3) RTC() *RTC {
	if !m.hasRTC {
		return nil
	}
	return m.rtc
}

// rtcSelected reports whether 0xA000-0xBFFF is mapped to a clock
// register rather than RAM.
func (m *MemoryBankedCartridge3) rtcSelected() bool {
	return m.ramBank >= rtcSeconds
}

// Read returns the value from the cartridges ROM, RAM or clock,
// depending on the bank selected.
func (m *MemoryBankedCartridge3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.readROM(0, address)
	case address < 0x8000:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address < 0xC000:
		if m.rtcSelected() {
			if !m.ramEnabled || !m.hasRTC {
				return 0xFF
			}
			return m.rtc.Read(m.ramBank)
		}
		return m.readRAM(int(m.ramBank), address)
	}
	return 0xFF
}

// Write attempts to switch the ROM or RAM bank, latch the clock or
// write to RAM or a clock register.
func (m *MemoryBankedCartridge3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = ramEnableValue(value)
	case address < 0x4000:
		m.romBank = uint16(utils.ZeroAdjust8(value & 0x7F))
	case address < 0x6000:
		if value <= 0x03 || (value >= rtcSeconds && value <= rtcControl) {
			m.ramBank = value
		}
	case address < 0x8000:
		if m.hasRTC && m.latchValue == 0x00 && value == 0x01 {
			m.rtc.Latch()
		}
		m.latchValue = value
	case address >= 0xA000 && address < 0xC000:
		if m.rtcSelected() {
			if m.ramEnabled && m.hasRTC {
				m.rtc.Write(m.ramBank, value)
			}
			return
		}
		m.writeRAM(int(m.ramBank), address, value)
	}
}
