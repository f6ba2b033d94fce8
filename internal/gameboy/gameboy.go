// Package gameboy composes the components of a DMG Game Boy, and runs
// them.
package gameboy

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/thelolagemann/dmgcore/internal/boot"
	"github.com/thelolagemann/dmgcore/internal/cartridge"
	"github.com/thelolagemann/dmgcore/internal/cheats"
	"github.com/thelolagemann/dmgcore/internal/cpu"
	"github.com/thelolagemann/dmgcore/internal/interrupts"
	"github.com/thelolagemann/dmgcore/internal/mmu"
	"github.com/thelolagemann/dmgcore/internal/serial"
	"github.com/thelolagemann/dmgcore/internal/timer"
	"github.com/thelolagemann/dmgcore/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = cpu.ClockSpeed // 4.194304 MHz
	// CyclesPerFrame is the number of clock cycles per frame.
	CyclesPerFrame = 70224
	// FrameTime is the time it takes the hardware to run a frame.
	FrameTime = time.Second * CyclesPerFrame / ClockSpeed

	// postBootDiv is the DMG divider accumulator as the boot ROM
	// leaves it.
	postBootDiv = 0xABCC

	defaultTraceDepth = 32
	// pausePoll is how often a paused GameBoy checks for resumption.
	pausePoll = 20 * time.Millisecond
)

// ErrRunning is returned by Run when the GameBoy is already running.
var ErrRunning = errors.New("gameboy: already running")

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
type GameBoy struct {
	CPU        *cpu.CPU
	MMU        *mmu.MMU
	Cartridge  cartridge.Cartridge
	Interrupts *interrupts.Service
	Timer      *timer.Controller
	Serial     *serial.Controller

	log.Logger

	trace      *cpu.Trace
	traceDepth int
	speed      float64
	debug      bool

	bootROM   []byte
	gameGenie *cheats.GameGenie
	gameShark *cheats.GameShark

	running atomic.Bool
	paused  atomic.Bool
	steps   atomic.Uint64
	cycles  atomic.Uint64
}

// NewGameBoy returns a new GameBoy running rom. It fails if the
// cartridge header cannot be validated, or names a memory bank
// controller that is not supported.
func NewGameBoy(rom []byte, opts ...Opt) (*GameBoy, error) {
	cart, err := cartridge.NewCartridge(rom)
	if err != nil {
		return nil, fmt.Errorf("gameboy: loading cartridge: %w", err)
	}

	irq := interrupts.NewService()
	g := &GameBoy{
		Cartridge:  cart,
		Interrupts: irq,
		Timer:      timer.NewController(irq),
		Serial:     serial.NewController(irq),
		Logger:     log.NewNullLogger(),
		traceDepth: defaultTraceDepth,
		speed:      1,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.trace = cpu.NewTrace(g.traceDepth)
	cpuOpts := []cpu.Opt{cpu.WithTrace(g.trace)}
	if g.debug {
		cpuOpts = append(cpuOpts, cpu.WithBreakpoint(0x40))
	}

	mmuOpts := []mmu.Opt{mmu.WithLogger(log.WithField(g.Logger, "component", "mmu"))}
	if g.bootROM != nil {
		b, err := boot.LoadBootROM(g.bootROM)
		if err != nil {
			return nil, fmt.Errorf("gameboy: loading boot rom: %w", err)
		}
		g.Infof("booting with %s boot rom (%s)", b.Model(), b.Checksum())
		mmuOpts = append(mmuOpts, mmu.WithBootROM(b))
		cpuOpts = append(cpuOpts, cpu.WithColdBoot())
	} else {
		// the divider keeps counting while the boot ROM runs
		g.Timer.SetAccumulator(postBootDiv)
	}
	if g.gameGenie != nil && len(g.gameGenie.Codes) > 0 {
		mmuOpts = append(mmuOpts, mmu.WithROMPatch(g.gameGenie.Patch))
	}
	g.MMU = mmu.NewMMU(cart, g.Timer, g.Serial, irq, mmuOpts...)

	g.CPU = cpu.NewCPU(g.MMU, irq, g.Timer, cpuOpts...)

	g.Infof("loaded %s", cart.Header())
	g.Debugf("fingerprint %016x", cart.Header().Fingerprint)

	return g, nil
}

// Run steps the CPU until ctx is cancelled or a fatal error occurs.
// Cancellation is checked between instructions, so an instruction is
// never left half executed. The returned error is ctx.Err() on
// cancellation, cpu.ErrBreakpoint when running with Debug and the
// breakpoint was hit, or the fatal error that stopped the CPU.
func (g *GameBoy) Run(ctx context.Context) (err error) {
	if !g.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer g.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gameboy: panic: %v", r)
		}
		if err != nil && ctx.Err() == nil && !errors.Is(err, cpu.ErrBreakpoint) {
			g.Errorf("%v", err)
			g.dumpTrace()
		}
	}()

	var throttle <-chan time.Time
	if g.speed > 0 {
		ticker := time.NewTicker(time.Duration(float64(FrameTime) / g.speed))
		defer ticker.Stop()
		throttle = ticker.C
	}

	frameCycles := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if g.paused.Load() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pausePoll):
			}
			continue
		}

		cycles, err := g.CPU.Step()
		g.steps.Add(1)
		g.cycles.Add(uint64(cycles))
		if err != nil {
			if errors.Is(err, cpu.ErrBreakpoint) {
				return err
			}
			return fmt.Errorf("gameboy: %w", err)
		}

		frameCycles += cycles
		if frameCycles >= CyclesPerFrame {
			frameCycles -= CyclesPerFrame
			if g.gameShark != nil {
				g.gameShark.Apply(g.MMU.Write)
			}
			if throttle != nil {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-throttle:
				}
			}
		}
	}
}

// dumpTrace logs the most recently executed instructions.
func (g *GameBoy) dumpTrace() {
	tail := g.trace.Tail(g.traceDepth)
	g.Errorf("last %d instructions:", len(tail))
	for _, entry := range tail {
		g.Errorf("  %s", entry)
	}
}

// Trace returns the most recently executed instructions, oldest
// first.
func (g *GameBoy) Trace() []cpu.TraceEntry {
	return g.trace.Tail(g.traceDepth)
}

// Pause pauses a running GameBoy at the next instruction boundary.
func (g *GameBoy) Pause() {
	g.paused.Store(true)
}

// Resume resumes a paused GameBoy.
func (g *GameBoy) Resume() {
	g.paused.Store(false)
}

// Paused reports whether the GameBoy is paused.
func (g *GameBoy) Paused() bool {
	return g.paused.Load()
}

// Running reports whether Run is executing.
func (g *GameBoy) Running() bool {
	return g.running.Load()
}

// Steps returns the number of times the CPU has been stepped.
func (g *GameBoy) Steps() uint64 {
	return g.steps.Load()
}

// Cycles returns the number of clock cycles elapsed.
func (g *GameBoy) Cycles() uint64 {
	return g.cycles.Load()
}
