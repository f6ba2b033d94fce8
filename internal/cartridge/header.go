package cartridge

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
)

// Flag describes the hardware a cartridge expects to run on.
type Flag uint8

const (
	FlagOnlyDMG Flag = iota
	FlagSupportsCGB
	FlagOnlyCGB
)

const (
	headerStart = 0x0100
	headerEnd   = 0x0150
)

var (
	ramMAP = map[uint8]uint{
		0x00: 0,
		0x01: 2 * 1024,
		0x02: 8 * 1024,
		0x03: 32 * 1024,
		0x04: 128 * 1024,
		0x05: 64 * 1024,
	}
)

// Type is the mapper code found at 0x0147 of the header.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBATT       Type = 0x03
	MBC2              Type = 0x05
	MBC2BATT          Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBATT        Type = 0x09
	MMM01             Type = 0x0B
	MMM01RAM          Type = 0x0C
	MMM01RAMBATT      Type = 0x0D
	MBC3TIMERBATT     Type = 0x0F
	MBC3TIMERRAMBATT  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBATT       Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBATT       Type = 0x1B
	MBC5RUMBLE        Type = 0x1C
	MBC5RUMBLERAM     Type = 0x1D
	MBC5RUMBLERAMBATT Type = 0x1E
	POCKETCAMERA      Type = 0x1F
	BANDAITAMA5       Type = 0xFD
	HUDSONHUC3        Type = 0xFE
	HUDSONHUC1        Type = 0xFF
)

func (t Type) String() string {
	switch t {
	case ROM, ROMRAM, ROMRAMBATT:
		return "ROM"
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return "MBC1"
	case MBC2, MBC2BATT:
		return "MBC2"
	case MBC3TIMERBATT, MBC3TIMERRAMBATT, MBC3, MBC3RAM, MBC3RAMBATT:
		return "MBC3"
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return "MBC5"
	case MMM01, MMM01RAM, MMM01RAMBATT:
		return "MMM01"
	case POCKETCAMERA:
		return "Pocket Camera"
	case BANDAITAMA5:
		return "TAMA5"
	case HUDSONHUC3:
		return "HuC3"
	case HUDSONHUC1:
		return "HuC1"
	}
	return fmt.Sprintf("unknown (0x%02X)", uint8(t))
}

// Header represents the header of a cartridge, each cartridge has a header and is
// located at the address space 0x0100-0x014F. The header contains information about
// the cartridge itself, and the hardware it expects to run on.
type Header struct {
	// 0x0134-0x0143 - Title of the game
	Title string

	// 0x0143 - CartridgeGBMode of the game. In older cartridges this byte was part
	// of the title, but the Colour Game Boy and later models interpret this byte
	// to determine if the cartridge is compatible with the Colour Game Boy.
	CartridgeGBMode Flag

	CartridgeType  Type
	ROMSize        uint
	RAMSize        uint
	HeaderChecksum uint8
	GlobalChecksum uint16

	// Fingerprint is a hash of the whole ROM image, used to
	// identify a ROM in logs regardless of its file name.
	Fingerprint uint64

	romSizeCode uint8
	ramSizeCode uint8
}

// parseHeader parses the header of the given ROM and returns a Header.
// The ROM must be at least headerEnd bytes long.
func parseHeader(rom []byte) *Header {
	header := rom[headerStart:headerEnd]
	h := &Header{}

	// parse the mode of the cartridge and parse the header accordingly
	switch header[0x43] {
	case 0x80:
		h.CartridgeGBMode = FlagSupportsCGB
	case 0xC0:
		h.CartridgeGBMode = FlagOnlyCGB
	default:
		h.CartridgeGBMode = FlagOnlyDMG
	}

	// parse the title
	var title []byte
	if h.CartridgeGBMode == FlagOnlyDMG {
		title = header[0x34:0x44]
	} else {
		title = header[0x34:0x43]
	}
	h.Title = strings.TrimRight(string(title), "\x00 ")

	// parse the cartridge type
	h.CartridgeType = Type(header[0x47])

	// parse the ROM size (calculated by 32kB x (1 << n))
	h.romSizeCode = header[0x48]
	h.ROMSize = (32 * 1024) << h.romSizeCode

	// parse the RAM size
	h.ramSizeCode = header[0x49]
	h.RAMSize = ramMAP[h.ramSizeCode]

	h.HeaderChecksum = header[0x4D]
	h.GlobalChecksum = uint16(header[0x4E])<<8 | uint16(header[0x4F])

	h.Fingerprint = xxhash.Sum64(rom)

	return h
}

// headerChecksum computes the checksum over 0x0134-0x014C, the
// same way the boot ROM does.
func headerChecksum(rom []byte) uint8 {
	var x uint8
	for _, b := range rom[0x0134:0x014D] {
		x = x - b - 1
	}
	return x
}

// ROMSizeCode returns the raw ROM size byte (0x0148).
func (h *Header) ROMSizeCode() uint8 {
	return h.romSizeCode
}

// RAMSizeCode returns the raw RAM size byte (0x0149).
func (h *Header) RAMSizeCode() uint8 {
	return h.ramSizeCode
}

func (h *Header) Hardware() string {
	switch h.CartridgeGBMode {
	case FlagOnlyDMG:
		return "DMG"
	case FlagSupportsCGB:
		return "CGB"
	case FlagOnlyCGB:
		return "CGB"
	default:
		return "Unknown"
	}
}

func (h *Header) String() string {
	return fmt.Sprintf("%s Mode: %s | Type: %s | ROM Size: %dkB | RAM Size: %dkB | Fingerprint: %016x",
		h.Title, h.Hardware(), h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024, h.Fingerprint)
}
