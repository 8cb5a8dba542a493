// softbody-serve runs the simulation without a terminal, driving the effector
// along a Perlin path and streaming outlines to websocket peers
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lixenwraith/softbody/config"
	"github.com/lixenwraith/softbody/engine"
	"github.com/lixenwraith/softbody/input"
	"github.com/lixenwraith/softbody/network"
	"github.com/lixenwraith/softbody/parameter"
	"github.com/lixenwraith/softbody/status"
)

var (
	configFlag   = flag.String("config", "", "TOML config file")
	envFlag      = flag.String("env", ".env", "dotenv file with SOFTBODY_* overrides, skipped if missing")
	addrFlag     = flag.String("addr", "", "listen address, overrides stream.address")
	durationFlag = flag.Duration("duration", 0, "stop after this long, 0 runs until interrupted")
	seedFlag     = flag.Int64("seed", parameter.WanderSeed, "wander path seed")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(config.Source{File: *configFlag, EnvFile: *envFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "softbody-serve: %v\n", err)
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.Stream.Address = *addrFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *durationFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *durationFlag)
		defer cancel()
	}

	if err := serve(ctx, cfg, *seedFlag); err != nil {
		log.Printf("softbody-serve: %v", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config, seed int64) error {
	reg := status.NewRegistry()
	sim, err := cfg.NewSimulation(reg)
	if err != nil {
		return err
	}

	clock := engine.NewClock(engine.NewMonotonicTimeProvider(), cfg.Render.MaxFrameDelta)
	driver := engine.NewDriver(sim, clock)
	driver.AddSource(input.NewWander(cfg.Bounds().Box, cfg.EffectorMode(), seed))

	hub := network.NewHub(cfg.StreamConfig(), reg)
	if err := hub.Start(); err != nil {
		return err
	}
	defer hub.Stop()
	driver.AddConsumer(hub)
	driver.AddConsumer(statusLogger(parameter.StatusLogInterval))

	log.Printf("serving %d bodies at %v Hz", len(sim.Bodies()), cfg.Physics.Hz)
	err = driver.Run(ctx, cfg.Render.FrameInterval)
	log.Printf("stopped after %d frames", reg.Ints.Get("engine.frames").Load())
	return err
}

// statusLogger logs every registry metric on one line at most once per interval
func statusLogger(interval time.Duration) engine.FrameConsumer {
	var last time.Time
	var sb strings.Builder
	return engine.FrameConsumerFunc(func(sim *engine.Simulation) {
		now := time.Now()
		if now.Sub(last) < interval {
			return
		}
		last = now

		sb.Reset()
		for i, e := range sim.Status().Entries() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(e.Key)
			sb.WriteByte('=')
			sb.WriteString(e.Value)
		}
		log.Print(sb.String())
	})
}
