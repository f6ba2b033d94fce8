// Package cheats implements Game Genie and GameShark codes.
package cheats

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// InvalidCodeError is returned when a code cannot be parsed.
type InvalidCodeError struct {
	Code   string
	Reason string
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("cheats: invalid code %q: %s", e.Code, e.Reason)
}

// Cheat is a named group of codes.
type Cheat struct {
	Name  string
	Codes []string
}

// ParseCheats parses a cheat file and populates the given GameGenie
// and GameShark. The file format is as follows:
//
//	# Cheat Name
//	ABC-DEF-GHI
//	01FF34C1
//
// Cheat files may have any number of GameGenie and GameShark codes, and
// may be mixed together. Blank lines are ignored. Codes that appear
// before the first name are named after their line number.
func ParseCheats(r io.Reader, genie *GameGenie, shark *GameShark) ([]Cheat, error) {
	scanner := bufio.NewScanner(r)

	var cheats []Cheat
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// if it's a comment, read the name
		if line[0] == '#' {
			cheats = append(cheats, Cheat{Name: strings.TrimSpace(line[1:])})
			continue
		}
		if len(cheats) == 0 {
			cheats = append(cheats, Cheat{Name: fmt.Sprintf("line %d", lineNumber)})
		}
		current := &cheats[len(cheats)-1]

		var err error
		if strings.Contains(line, "-") {
			err = genie.Load(line, current.Name)
		} else {
			err = shark.Load(line, current.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		current.Codes = append(current.Codes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cheats, nil
}
