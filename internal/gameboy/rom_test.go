package gameboy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/dmgcore/internal/cpu"
	"github.com/thelolagemann/dmgcore/pkg/utils"
)

// romPath holds the test ROM suites. They are not distributed with
// the repository, tests are skipped when they are missing.
var romPath = filepath.Join("testdata", "roms")

// mooneyeDirs are the mooneye-test-suite directories that only need
// the CPU, timer, serial port and bank controllers.
var mooneyeDirs = []string{
	"acceptance/bits",
	"acceptance/instr",
	"acceptance/timer",
	"emulator-only/mbc1",
	"emulator-only/mbc2",
	"emulator-only/mbc5",
}

// mooneyeFiles are individual mooneye-test-suite ROMs.
var mooneyeFiles = []string{
	"acceptance/di_timing-GS.gb",
	"acceptance/ei_sequence.gb",
	"acceptance/ei_timing.gb",
	"acceptance/halt_ime0_ei.gb",
	"acceptance/halt_ime1_timing.gb",
	"acceptance/if_ie_registers.gb",
	"acceptance/rapid_di_ei.gb",
	"acceptance/reti_intr_timing.gb",
}

func romsIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var roms []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".gb" {
			roms = append(roms, filepath.Join(dir, entry.Name()))
		}
	}
	return roms
}

func loadROM(t *testing.T, path string) []byte {
	t.Helper()
	b, err := utils.LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		t.Skipf("%s not found", path)
	}
	require.NoError(t, err)
	return b
}

// TestBlargg runs the blargg cpu_instrs and instr_timing ROMs. They
// report over the serial port.
func TestBlargg(t *testing.T) {
	var roms []string
	roms = append(roms, romsIn(t, filepath.Join(romPath, "blargg", "cpu_instrs", "individual"))...)
	roms = append(roms, filepath.Join(romPath, "blargg", "instr_timing", "instr_timing.gb"))
	roms = append(roms, filepath.Join(romPath, "blargg", "cpu_instrs", "cpu_instrs.gb"))

	for _, rom := range roms {
		rom := rom
		t.Run(filepath.Base(rom), func(t *testing.T) {
			testBlarggROM(t, rom)
		})
	}
}

func testBlarggROM(t *testing.T, romFile string) {
	b := loadROM(t, romFile)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var output []string
	gb, err := NewGameBoy(b, WithSpeed(0), WithLineListener(func(line string) {
		output = append(output, line)
		if strings.Contains(line, "Passed") || strings.Contains(line, "Failed") {
			cancel()
		}
	}))
	require.NoError(t, err)

	err = gb.Run(ctx)
	require.ErrorIs(t, err, context.Canceled, "output: %q", output)

	all := strings.Join(output, "\n")
	assert.NotContains(t, all, "Failed")
	assert.Contains(t, all, "Passed")
}

// TestMooneye runs the mooneye-test-suite ROMs that do not need video.
// A passing test loads the fibonacci sequence into the registers and
// executes LD B, B.
func TestMooneye(t *testing.T) {
	var roms []string
	for _, dir := range mooneyeDirs {
		roms = append(roms, romsIn(t, filepath.Join(romPath, "mooneye", dir))...)
	}
	for _, file := range mooneyeFiles {
		roms = append(roms, filepath.Join(romPath, "mooneye", file))
	}

	for _, rom := range roms {
		rom := rom
		t.Run(strings.TrimPrefix(rom, filepath.Join(romPath, "mooneye")+string(filepath.Separator)), func(t *testing.T) {
			testMooneyeROM(t, rom)
		})
	}
}

func testMooneyeROM(t *testing.T, romFile string) {
	b := loadROM(t, romFile)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gb, err := NewGameBoy(b, WithSpeed(0), Debug())
	require.NoError(t, err)
	require.ErrorIs(t, gb.Run(ctx), cpu.ErrBreakpoint)

	expectedRegisters := []uint8{3, 5, 8, 13, 21, 34}
	for i, r := range []uint8{gb.CPU.B, gb.CPU.C, gb.CPU.D, gb.CPU.E, gb.CPU.H, gb.CPU.L} {
		assert.Equal(t, expectedRegisters[i], r, "register %d", i)
	}
}
