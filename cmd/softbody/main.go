package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/softbody/audio"
	"github.com/lixenwraith/softbody/config"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/input"
	"github.com/lixenwraith/softbody/render"
	"github.com/lixenwraith/softbody/status"
	"golang.org/x/term"
)

var (
	configFlag = flag.String("config", "", "TOML config file")
	envFlag    = flag.String("env", ".env", "dotenv file with SOFTBODY_* overrides, skipped if missing")
	debugFlag  = flag.Bool("debug", false, "write logs to "+logDir+"/"+logFileName)
	muteFlag   = flag.Bool("mute", false, "disable audio cues")
	dumpFlag   = flag.Bool("dump-config", false, "print the merged config as TOML and exit")
)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(config.Source{File: *configFlag, EnvFile: *envFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "softbody: %v\n", err)
		os.Exit(1)
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}

	if *dumpFlag {
		if err := config.Write(os.Stdout, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "softbody: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "softbody: needs an interactive terminal, use softbody-serve for headless runs")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "softbody: %v\n", err)
		os.Exit(1)
	}
}

// crashed restores the terminal and reports a panic; use as a deferred call
func crashed(screen tcell.Screen, where string) {
	if r := recover(); r != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\n\x1b[31mSOFTBODY %s CRASHED: %v\x1b[0m\n", where, r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	reg := status.NewRegistry()
	sim, err := cfg.NewSimulation(reg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	// Panics must restore the terminal before printing
	defer crashed(screen, "LOOP")
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	screen.HideCursor()

	clock := engine.NewClock(engine.NewMonotonicTimeProvider(), cfg.Render.MaxFrameDelta)
	driver := engine.NewDriver(sim, clock)

	machine := input.NewMachine(cfg.EffectorMode())
	pointer := input.NewPointer(cfg.Render.FrameInterval, cfg.Effector.SmoothingFrequency, cfg.Effector.SmoothingDamping)
	driver.AddSource(pointer)

	world := cfg.Bounds().Box
	renderer := render.NewRenderer(screen, cfg.Render.CellAspect, cfg.Render.ShowHUD, reg)
	w, h := screen.Size()
	renderer.Resize(world, w, h)
	driver.AddConsumer(renderer)

	cues := audio.NewCues(cfg.AudioConfig(), reg)
	if err := cues.Initialize(); err != nil {
		// Non-fatal, runs silent
		log.Printf("audio unavailable: %v", err)
	}
	defer cues.Close()
	driver.AddConsumer(cues)

	events := make(chan tcell.Event, 256)
	go func() {
		defer crashed(screen, "EVENT POLLER")
		for {
			ev := screen.PollEvent()
			// Nil after Fini
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(cfg.Render.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			intent := machine.Process(ev)
			if intent == nil {
				continue
			}
			switch intent.Type {
			case input.IntentQuit:
				log.Printf("quit after %d frames", reg.Ints.Get("engine.frames").Load())
				return nil
			case input.IntentResize:
				screen.Sync()
				w, h := screen.Size()
				renderer.Resize(world, w, h)
			case input.IntentPause:
				paused := clock.Toggle()
				log.Printf("paused: %v", paused)
			case input.IntentReset:
				sim.Reset()
			case input.IntentSelectMode:
				// Idle effector carries the mode so the HUD shows the selection
				sim.Effector().Mode = intent.Mode
			case input.IntentPress:
				pointer.Press(intent.Mode, renderer.Viewport().ToWorld(intent.Col, intent.Row))
			case input.IntentRelease:
				pointer.Release()
			}

		case <-ticker.C:
			driver.Frame()
		}
	}
}
