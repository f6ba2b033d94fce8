package cheats

import (
	"fmt"
	"strconv"
)

// GameShark writes fixed values to memory once per frame.
type GameShark struct {
	Codes []GameSharkCode
}

// A GameSharkCode consists of eight-digit hex numbers, formatted
// as ABCDEFGH. Where AB represents the external RAM bank, CD is
// the new data, and GHEF is the memory address.
type GameSharkCode struct {
	ExternalRAMBank uint8
	Address         uint16
	NewData         uint8

	Name    string // name provided by the user
	Enabled bool
	rawCode string // raw code provided by the user
}

// ParseGameShark parses a code in the ABCDEFGH form.
func ParseGameShark(code string) (GameSharkCode, error) {
	c := GameSharkCode{rawCode: code}

	// make sure the code is 8 characters long
	if len(code) != 8 {
		return c, &InvalidCodeError{Code: code, Reason: "expected 8 digits"}
	}

	// AB
	ab, err := strconv.ParseUint(code[0:2], 16, 8)
	if err != nil {
		return c, &InvalidCodeError{Code: code, Reason: err.Error()}
	}
	c.ExternalRAMBank = uint8(ab)

	// CD
	cd, err := strconv.ParseUint(code[2:4], 16, 8)
	if err != nil {
		return c, &InvalidCodeError{Code: code, Reason: err.Error()}
	}
	c.NewData = uint8(cd)

	// reorganize GHEF to EFGH
	efgh, err := strconv.ParseUint(code[6:8]+code[4:6], 16, 16)
	if err != nil {
		return c, &InvalidCodeError{Code: code, Reason: err.Error()}
	}
	c.Address = uint16(efgh)
	if c.Address < 0xA000 {
		return c, &InvalidCodeError{Code: code, Reason: fmt.Sprintf("address 0x%04X is not in RAM", c.Address)}
	}

	return c, nil
}

// NewGameShark creates a new GameShark.
func NewGameShark() *GameShark {
	return &GameShark{}
}

// Load loads a GameShark code. Codes are enabled once loaded.
func (g *GameShark) Load(code string, name string) error {
	c, err := ParseGameShark(code)
	if err != nil {
		return err
	}

	c.Name = name
	c.Enabled = true
	g.Codes = append(g.Codes, c)
	return nil
}

// Apply writes every enabled code through write.
func (g *GameShark) Apply(write func(address uint16, value uint8)) {
	for _, c := range g.Codes {
		if c.Enabled {
			write(c.Address, c.NewData)
		}
	}
}

// Enable enables the given GameShark code.
func (g *GameShark) Enable(name string) error {
	return g.setEnabled(name, true)
}

// Disable disables the given GameShark code.
func (g *GameShark) Disable(name string) error {
	return g.setEnabled(name, false)
}

func (g *GameShark) setEnabled(name string, enabled bool) error {
	found := false
	for i := range g.Codes {
		if g.Codes[i].Name == name {
			g.Codes[i].Enabled = enabled
			found = true
		}
	}

	if !found {
		return fmt.Errorf("cheats: code not found: %s", name)
	}
	return nil
}
