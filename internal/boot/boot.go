// Package boot provides a boot ROM implementation for the Game Boy. Whilst
// this package is not strictly required for the emulator to function, it
// can be used to emulate the boot process of the Game Boy.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Size is the size of the DMG family boot ROMs.
const Size = 256

// InvalidSizeError is returned when a boot ROM is not Size bytes.
type InvalidSizeError struct {
	Size int
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("boot: invalid boot rom length %d, expected %d", e.Size, Size)
}

// ROM represents a boot ROM for the Game Boy. When the Game Boy first
// powers on, the boot ROM is mapped to memory addresses 0x0000 -
// 0x00FF.
//
// The boot ROM performs a series of tasks, such as initializing the
// hardware, setting the stack pointer, scrolling the Nintendo logo, etc.
//
// Once the boot ROM has completed its tasks, it is unmapped from memory
// (by writing to the types.BDIS register), and the cartridge is mapped
// over the boot ROM, thus starting the cartridge execution, and preventing
// the boot ROM from being executed again.
type ROM struct {
	raw      [Size]byte // the raw boot rom
	checksum string     // the MD5 checksum of the boot rom
}

// LoadBootROM loads a boot ROM into a new ROM struct and returns a
// pointer to it. The MD5 checksum is calculated, so that the boot ROM
// can be identified.
func LoadBootROM(b []byte) (*ROM, error) {
	if len(b) != Size {
		return nil, &InvalidSizeError{Size: len(b)}
	}

	bootChecksum := md5.Sum(b)
	rom := &ROM{checksum: hex.EncodeToString(bootChecksum[:])}
	copy(rom.raw[:], b)
	return rom, nil
}

// Read returns the byte at the given address.
func (b *ROM) Read(addr uint16) byte {
	return b.raw[addr&(Size-1)]
}

// Checksum returns the MD5 checksum of the boot rom.
func (b *ROM) Checksum() string {
	if b == nil {
		return ""
	}
	return b.checksum
}

// Model returns the model of the boot rom. The model
// is determined by the checksum of the boot rom.
func (b *ROM) Model() string {
	if b == nil {
		return "none"
	}
	if model, ok := knownBootROMChecksums[b.checksum]; ok {
		return model
	}
	return "unknown"
}

// knownBootROMChecksums is a map of known boot rom checksums,
// with the key being the checksum, and the value being the
// model of the boot rom.
var knownBootROMChecksums = map[string]string{
	DMG0:        "Game Boy (DMG-0)",
	DMG:         "Game Boy (DMG-01)",
	MGB:         "Game Boy Pocket",
	SGB:         "Super Game Boy",
	SGB2:        "Super Game Boy 2",
	Fortune:     "Fortune/Bitman 3000B",
	GameFighter: "Game Fighter",
	MaxStation:  "Max Station",
}

const (
	// DMG0 is the checksum of the DMG early boot ROM,
	// a variant that was found in very early DMG units and
	// only ever sold in Japan.
	DMG0 = "a8f84a0ac44da5d3f0ee19f9cea80a8c"
	// DMG is the checksum of the DMG boot rom, which is
	// the most common boot ROM found in the original DMG-01
	// models.
	DMG = "32fbbd84168d3482956eb3c5051637f5"
	// MGB differs only by a single byte from the DMG boot ROM,
	// loading 0xFF into the A register rather than 0x01.
	MGB = "71a378e71ff30b2d8a1f02bf5c7896aa"
	// SGB sends the cartridge header to the SNES instead of
	// scrolling the logo.
	SGB = "d574d4f9c12f305074798f54c091a8b4"
	// SGB2 differs from SGB as MGB does from DMG.
	SGB2 = "e0430bca9925fb9882148fd2dc2418c1"
	// Fortune is found in the "Fortune/Bitman 3000B" clone.
	Fortune = "92ed4eca17d61fcd53f8a64c3ce84743"
	// GameFighter is found in the "Game Fighter" clone.
	GameFighter = "6a7b8ee12a793f66a969c6a2b8926cc9"
	// MaxStation is found in the "Maxstation" clone.
	MaxStation = "77a7021db824010a678791f6d062943d"
)
