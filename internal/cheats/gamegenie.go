package cheats

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// GameGenie patches bytes read from the cartridge ROM.
type GameGenie struct {
	Codes []GameGenieCode
}

// A GameGenieCode consists of nine-digit hex numbers, formatted as
// ABC-DEF-GHI. AB is the new data, FCDE is the memory address XORed
// by 0xF000, GI is the old data XORed by 0xBA and rotated left by 2,
// and H is unknown (possibly a checksum). Six digit codes (ABC-DEF)
// have no old data, and patch the address unconditionally.
type GameGenieCode struct {
	NewData uint8
	Address uint16
	OldData uint8
	Compare bool // whether OldData must match

	Name    string // name provided by the user
	Enabled bool
	rawCode string // raw code provided by the user
}

// ParseGameGenie parses a code in the ABC-DEF-GHI or ABC-DEF form.
func ParseGameGenie(code string) (GameGenieCode, error) {
	c := GameGenieCode{rawCode: code}

	// remove the hyphens, and interpret the code
	digits := strings.ReplaceAll(code, "-", "")
	if len(digits) != 6 && len(digits) != 9 {
		return c, &InvalidCodeError{Code: code, Reason: "expected 6 or 9 digits"}
	}

	// AB
	ab, err := strconv.ParseUint(digits[0:2], 16, 8)
	if err != nil {
		return c, &InvalidCodeError{Code: code, Reason: err.Error()}
	}
	c.NewData = uint8(ab)

	// reorganize CDEF to FCDE
	fcde, err := strconv.ParseUint(digits[5:6]+digits[2:5], 16, 16)
	if err != nil {
		return c, &InvalidCodeError{Code: code, Reason: err.Error()}
	}
	c.Address = uint16(fcde) ^ 0xF000
	if c.Address >= 0x8000 {
		return c, &InvalidCodeError{Code: code, Reason: fmt.Sprintf("address 0x%04X is not in ROM", c.Address)}
	}

	if len(digits) == 9 {
		// GI
		gi, err := strconv.ParseUint(digits[6:7]+digits[8:9], 16, 8)
		if err != nil {
			return c, &InvalidCodeError{Code: code, Reason: err.Error()}
		}
		c.OldData = bits.RotateLeft8(uint8(gi), -2) ^ 0xBA
		c.Compare = true
	}

	return c, nil
}

// NewGameGenie creates a new GameGenie.
func NewGameGenie() *GameGenie {
	return &GameGenie{}
}

// Load loads the given GameGenie code into the GameGenie. Codes are
// enabled once loaded.
func (g *GameGenie) Load(code, name string) error {
	c, err := ParseGameGenie(code)
	if err != nil {
		return err
	}

	c.Name = name
	c.Enabled = true
	g.Codes = append(g.Codes, c)

	return nil
}

// Patch returns the value the CPU sees when reading value from the
// ROM at address.
func (g *GameGenie) Patch(address uint16, value uint8) uint8 {
	for _, c := range g.Codes {
		if !c.Enabled || c.Address != address {
			continue
		}
		if c.Compare && c.OldData != value {
			continue
		}
		return c.NewData
	}

	return value
}

// Enable enables every code loaded under name.
func (g *GameGenie) Enable(name string) {
	g.setEnabled(name, true)
}

// Disable disables every code loaded under name.
func (g *GameGenie) Disable(name string) {
	g.setEnabled(name, false)
}

func (g *GameGenie) setEnabled(name string, enabled bool) {
	for i := range g.Codes {
		if g.Codes[i].Name == name {
			g.Codes[i].Enabled = enabled
		}
	}
}
