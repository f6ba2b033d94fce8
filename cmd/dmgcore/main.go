package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/pkg/profile"
	"github.com/thelolagemann/dmgcore/internal/cheats"
	"github.com/thelolagemann/dmgcore/internal/cpu"
	"github.com/thelolagemann/dmgcore/internal/gameboy"
	"github.com/thelolagemann/dmgcore/pkg/log"
	"github.com/thelolagemann/dmgcore/pkg/utils"
	"github.com/thelolagemann/dmgcore/pkg/web"
)

type config struct {
	romFile     string
	bootFile    string
	cheatFile   string
	speed       float64
	traceDepth  int
	debug       bool
	breakpoint  bool
	serialAddr  string
	compression int
	profileMode string
	statsAddr   string
	pprofAddr   string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.romFile, "rom", "", "The rom file to load")
	flag.StringVar(&cfg.bootFile, "boot", "", "The boot rom file to run before the cartridge")
	flag.StringVar(&cfg.cheatFile, "cheats", "", "A file of Game Genie and GameShark codes to apply")
	flag.Float64Var(&cfg.speed, "speed", 1, "The speed to run the emulator at, 0 runs unthrottled")
	flag.IntVar(&cfg.traceDepth, "trace", 32, "The number of instructions to log on a fatal error")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&cfg.breakpoint, "breakpoint", false, "Stop when the LD B, B breakpoint is executed, as test ROMs do")
	flag.StringVar(&cfg.serialAddr, "serial-addr", "", "Serve serial output to websocket clients on this address")
	flag.IntVar(&cfg.compression, "compress", 0, "Brotli compression level for websocket messages, 0 disables compression")
	flag.StringVar(&cfg.profileMode, "profile", "", "Write a profile to the working directory. Can be cpu or mem")
	flag.StringVar(&cfg.statsAddr, "statsview", "", "Serve runtime statistics on this address")
	flag.StringVar(&cfg.pprofAddr, "pprof", "", "Serve pprof on this address")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, cfg.debug)
	if err := run(logger, cfg); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(logger log.Logger, cfg config) error {
	if cfg.romFile == "" {
		return errors.New("no rom file specified, use -rom")
	}

	switch cfg.profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", cfg.profileMode)
	}

	if cfg.pprofAddr != "" {
		// start pprof
		go func() {
			if err := http.ListenAndServe(cfg.pprofAddr, nil); err != nil {
				logger.Warnf("pprof: %v", err)
			}
		}()
	}

	if cfg.statsAddr != "" {
		viewer.SetConfiguration(viewer.WithAddr(cfg.statsAddr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		logger.Infof("stats server available at http://%s/debug/statsview", cfg.statsAddr)
	}

	rom, err := utils.LoadFile(cfg.romFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the hub needs the fingerprint, which is known once the
	// cartridge has been parsed
	var hub *web.Hub
	opts, err := gameboyOptions(logger, cfg, func() *web.Hub { return hub })
	if err != nil {
		return err
	}

	gb, err := gameboy.NewGameBoy(rom, opts...)
	if err != nil {
		return err
	}

	if cfg.serialAddr != "" {
		header := gb.Cartridge.Header()
		hubOpts := []web.Opt{web.WithLogger(log.WithField(logger, "component", "web"))}
		if cfg.compression > 0 {
			hubOpts = append(hubOpts, web.WithCompression(cfg.compression))
		}
		hub = web.NewHub(header.Fingerprint, header.Title, hubOpts...)
		go func() {
			if err := web.ListenAndServe(ctx, cfg.serialAddr, hub); err != nil {
				logger.Errorf("serial server: %v", err)
			}
		}()
		logger.Infof("serving serial output on ws://%s", cfg.serialAddr)
	}

	err = gb.Run(ctx)
	logger.Infof("stopped after %d steps (%d cycles)", gb.Steps(), gb.Cycles())
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, cpu.ErrBreakpoint):
		return nil
	default:
		return err
	}
}

// gameboyOptions builds the options for cfg. When serving serial
// output, every line and character is forwarded to the hub returned
// by hub.
func gameboyOptions(logger log.Logger, cfg config, hub func() *web.Hub) ([]gameboy.Opt, error) {
	opts := []gameboy.Opt{
		gameboy.WithLogger(logger),
		gameboy.WithSpeed(cfg.speed),
		gameboy.WithTraceDepth(cfg.traceDepth),
		gameboy.WithLineListener(func(line string) {
			fmt.Println(line)
		}),
	}
	if cfg.breakpoint {
		opts = append(opts, gameboy.Debug())
	}

	if cfg.bootFile != "" {
		b, err := os.ReadFile(cfg.bootFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gameboy.WithBootROM(b))
	}

	if cfg.cheatFile != "" {
		genie, shark, err := loadCheats(logger, cfg.cheatFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gameboy.WithCheats(genie, shark))
	}

	if cfg.serialAddr != "" {
		opts = append(opts,
			gameboy.WithLineListener(func(line string) {
				hub().BroadcastLine(line)
			}),
			gameboy.WithSerialListener(func(c byte) {
				hub().BroadcastChar(c)
			}),
		)
	}

	return opts, nil
}

func loadCheats(logger log.Logger, file string) (*cheats.GameGenie, *cheats.GameShark, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	genie, shark := cheats.NewGameGenie(), cheats.NewGameShark()
	loaded, err := cheats.ParseCheats(f, genie, shark)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}
	for _, c := range loaded {
		logger.Infof("cheat %q: %d codes", c.Name, len(c.Codes))
	}

	return genie, shark, nil
}
