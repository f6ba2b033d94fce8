package gameboy

import (
	"github.com/thelolagemann/dmgcore/internal/cheats"
	"github.com/thelolagemann/dmgcore/internal/serial"
	"github.com/thelolagemann/dmgcore/pkg/log"
	"github.com/thelolagemann/dmgcore/pkg/utils"
)

// maxSpeed is the fastest a throttled GameBoy can be asked to run.
const maxSpeed = 16

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

// Debug stops Run with cpu.ErrBreakpoint when the CPU executes
// LD B, B, which test ROMs use to signal completion.
func Debug() Opt {
	return func(gb *GameBoy) {
		gb.debug = true
	}
}

func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = log
	}
}

// WithTraceDepth sets how many instructions are kept for the post
// mortem log.
func WithTraceDepth(depth int) Opt {
	return func(gb *GameBoy) {
		if depth > 0 {
			gb.traceDepth = depth
		}
	}
}

// WithSpeed sets the speed relative to the hardware. A speed of 0
// disables throttling, and the GameBoy runs as fast as it can.
func WithSpeed(speed float64) Opt {
	return func(gb *GameBoy) {
		if speed <= 0 {
			gb.speed = 0
			return
		}
		gb.speed = utils.Clamp(0.1, speed, maxSpeed)
	}
}

// WithSerialListener registers l to receive every byte sent over the
// serial port.
func WithSerialListener(l serial.CharListener) Opt {
	return func(gb *GameBoy) {
		gb.Serial.OnChar(l)
	}
}

// WithLineListener registers l to receive every line of text sent over
// the serial port.
func WithLineListener(l serial.LineListener) Opt {
	return func(gb *GameBoy) {
		gb.Serial.OnLine(l)
	}
}

// SerialConnection plugs d into the serial port.
func SerialConnection(d serial.Device) Opt {
	return func(gb *GameBoy) {
		gb.Serial.Attach(d)
	}
}

// WithBootROM maps rom over the cartridge and starts the CPU from
// 0x0000, instead of skipping straight to the cartridge entry point.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.bootROM = rom
	}
}

// WithCheats patches cartridge reads with the Game Genie codes in
// genie, and applies the GameShark codes in shark once per frame.
// Either may be nil.
func WithCheats(genie *cheats.GameGenie, shark *cheats.GameShark) Opt {
	return func(gb *GameBoy) {
		gb.gameGenie = genie
		gb.gameShark = shark
	}
}
