// Package cartridge provides a Cartridge interface for the DMG.
// The cartridge holds the game ROM and any external RAM, and the
// memory bank controller that maps them into the address space.
package cartridge

import (
	"errors"
	"fmt"
)

var (
	// ErrROMTooSmall is returned when the image is too short to
	// contain a header.
	ErrROMTooSmall = errors.New("cartridge: rom is smaller than the header")
	// ErrHeaderChecksum is returned when the header checksum at
	// 0x014D does not match the header contents.
	ErrHeaderChecksum = errors.New("cartridge: header checksum mismatch")
)

// UnsupportedTypeError is returned when the header names a memory
// bank controller that is not emulated.
type UnsupportedTypeError struct {
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("cartridge: unsupported cartridge type 0x%02X (%s)", uint8(e.Type), e.Type)
}

// Cartridge represents a basic game cartridge. Reads and writes
// cover both the ROM area (0x0000-0x7FFF) and the external RAM
// area (0xA000-0xBFFF).
type Cartridge interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	Header() *Header
	Title() string
}

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// memoryBankedCartridge holds the state shared by every memory
// bank controller.
type memoryBankedCartridge struct {
	rom, ram []byte
	romBank  uint16
	ramBank  uint8

	ramEnabled bool

	header *Header
}

func newMemoryBankedCartridge(rom []byte, h *Header) *memoryBankedCartridge {
	return &memoryBankedCartridge{
		rom:     rom,
		ram:     make([]byte, h.RAMSize),
		romBank: 1,
		header:  h,
	}
}

func (m *memoryBankedCartridge) Header() *Header {
	return m.header
}

// Title returns the cartridge title.
func (m *memoryBankedCartridge) Title() string {
	return m.header.Title
}

// ROMBank returns the bank mapped to 0x4000-0x7FFF.
func (m *memoryBankedCartridge) ROMBank() uint16 {
	return m.romBank
}

// romBanks returns the number of 16KiB banks present in the image.
func (m *memoryBankedCartridge) romBanks() int {
	if n := len(m.rom) / romBankSize; n > 0 {
		return n
	}
	return 1
}

// readROM returns the byte at offset within bank, wrapping the bank
// number to the size of the image like the unconnected address
// lines of a real cartridge do.
func (m *memoryBankedCartridge) readROM(bank int, offset uint16) uint8 {
	index := (bank%m.romBanks())*romBankSize + int(offset&0x3FFF)
	if index >= len(m.rom) {
		return 0xFF
	}
	return m.rom[index]
}

// ramIndex returns the index into ram for the given bank and
// address, or -1 if there is no RAM.
func (m *memoryBankedCartridge) ramIndex(bank int, address uint16) int {
	if len(m.ram) == 0 {
		return -1
	}
	return (bank*ramBankSize + int(address&0x1FFF)) % len(m.ram)
}

// readRAM reads from the external RAM, returning 0xFF if RAM is
// disabled or missing.
func (m *memoryBankedCartridge) readRAM(bank int, address uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	if i := m.ramIndex(bank, address); i >= 0 {
		return m.ram[i]
	}
	return 0xFF
}

// writeRAM writes to the external RAM, ignoring the write if RAM is
// disabled or missing.
func (m *memoryBankedCartridge) writeRAM(bank int, address uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	if i := m.ramIndex(bank, address); i >= 0 {
		m.ram[i] = value
	}
}

// ramEnableValue reports whether value written to the RAM enable
// window enables RAM.
func ramEnableValue(value uint8) bool {
	return value&0x0F == 0x0A
}

// NewCartridge parses the header of rom, verifies its checksum and
// returns the Cartridge for the memory bank controller it names.
func NewCartridge(rom []byte) (Cartridge, error) {
	if len(rom) < headerEnd {
		return nil, ErrROMTooSmall
	}

	header := parseHeader(rom)
	if sum := headerChecksum(rom); sum != header.HeaderChecksum {
		return nil, fmt.Errorf("%w: expected 0x%02X, computed 0x%02X", ErrHeaderChecksum, header.HeaderChecksum, sum)
	}

	switch header.CartridgeType {
	case ROM, ROMRAM, ROMRAMBATT:
		return NewROMCartridge(rom, header), nil
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return NewMemoryBankedCartridge1(rom, header), nil
	case MBC2, MBC2BATT:
		return NewMemoryBankedCartridge2(rom, header), nil
	case MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC3, MBC3RAM, MBC3RAMBATT:
		return NewMemoryBankedCartridge3(rom, header), nil
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return NewMemoryBankedCartridge5(rom, header), nil
	}

	return nil, &UnsupportedTypeError{Type: header.CartridgeType}
}
