// Package main provides the headless encounter simulator: it loads content and
// an encounter, runs the tick loop and prints the final snapshot as YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/inferno/internal/config"
	"github.com/cory-johannsen/inferno/internal/game/dice"
	"github.com/cory-johannsen/inferno/internal/game/sim"
	"github.com/cory-johannsen/inferno/internal/observability"
	"github.com/cory-johannsen/inferno/internal/runner"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	encounterPath := flag.String("encounter", "content/encounters/wave_62.yaml", "path to encounter YAML file")
	maxTicks := flag.Int("ticks", -1, "stop after this many ticks; -1 uses simulation.max_ticks, 0 runs until the encounter ends")
	realtime := flag.Bool("realtime", false, "pace ticks at simulation.tick_duration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *maxTicks >= 0 {
		cfg.Simulation.MaxTicks = *maxTicks
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "realtime" {
			cfg.Simulation.Realtime = *realtime
		}
	})

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewCryptoSource()
	if cfg.Simulation.Seed != 0 {
		src = dice.NewSeededSource(cfg.Simulation.Seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	content, scripts, err := runner.LoadContent(cfg.Content, roller, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	defer scripts.Close()

	enc, err := sim.LoadEncounter(*encounterPath)
	if err != nil {
		logger.Fatal("loading encounter", zap.Error(err))
	}
	region, err := enc.Build(content, roller, logger)
	if err != nil {
		logger.Fatal("building encounter", zap.Error(err))
	}
	logger.Info("encounter ready",
		zap.String("encounter", enc.Name),
		zap.Int("mobs", len(region.Mobs())),
		zap.Uint64("seed", cfg.Simulation.Seed),
		zap.Duration("elapsed", time.Since(start)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := sim.NewScheduler(region)
	loop := runner.NewTickLoop(sched, cfg.Simulation.TickDuration, logger)
	loop.MaxTicks = cfg.Simulation.MaxTicks
	loop.Realtime = cfg.Simulation.Realtime
	loop.OnTick = func(ev sim.TickEvents) {
		for _, e := range ev.Events {
			logger.Info("event",
				zap.Int("tick", e.Tick),
				zap.String("type", string(e.Type)),
				zap.String("actor", e.Actor),
				zap.String("target", e.Target),
				zap.Int("damage", e.Damage),
			)
		}
	}

	res := loop.Run(ctx)
	if res.Err != nil {
		logger.Warn("simulation interrupted", zap.Int("ticks", res.Ticks), zap.Error(res.Err))
	}

	out := yaml.NewEncoder(os.Stdout)
	out.SetIndent(2)
	if err := out.Encode(region.Snapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "encoding snapshot: %v\n", err)
		os.Exit(1)
	}
}
