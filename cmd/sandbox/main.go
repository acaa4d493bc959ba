package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/injector"
	"github.com/zeusync/ricochet/internal/sandbox"
)

func main() {
	var (
		opts injector.Options
		cfg  = sandbox.DefaultConfig()
		hold time.Duration
	)
	flag.StringVar(&opts.ConfigPath, "config", "configs/projectiles.yaml", "presets file")
	flag.StringVar(&opts.Listen, "listen", "", "serve the feedback feed on this address, e.g. 127.0.0.1:8090")
	flag.BoolVar(&opts.Audio, "audio", false, "play countdown beeps")
	flag.StringVar(&cfg.Preset, "preset", "basic", "projectile preset to spawn")
	flag.IntVar(&cfg.Sessions, "sessions", cfg.Sessions, "independent sessions to simulate")
	flag.IntVar(&cfg.Parallel, "parallel", cfg.Parallel, "sessions simulated at once (0 = all)")
	flag.Float64Var(&cfg.Duration, "duration", cfg.Duration, "simulated seconds per session")
	flag.Float64Var(&cfg.SpawnInterval, "spawn-interval", cfg.SpawnInterval, "seconds between spawns")
	flag.DurationVar(&hold, "hold", 0, "keep the feed open this long after the run")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, hold); err != nil {
		fmt.Fprintln(os.Stderr, "sandbox:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts injector.Options, cfg sandbox.Config, hold time.Duration) error {
	app, cleanup, err := injector.InitializeApp(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	if app.Feed != nil {
		if err := app.Feed.Start(ctx); err != nil {
			return err
		}
	}
	if app.Audio != nil {
		if err := app.Audio.Start(); err != nil {
			app.Logger.Warn("Audio disabled", log.Error(err))
		}
	}

	results, err := app.Runner.Run(ctx, cfg)
	if err != nil {
		return err
	}
	for _, r := range results {
		kinds := make([]string, 0, len(r.Events))
		for k := range r.Events {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		fmt.Printf("session %s seed=%d ticks=%d spawned=%d alive=%d enemy_hits=%d damage=%.2f paddle_hits=%d\n",
			r.SessionID, r.Seed, r.Ticks, r.Spawned, r.Alive, r.EnemyHits, r.EnemyDamage, r.PaddleHits)
		for _, k := range kinds {
			fmt.Printf("  %-22s %d\n", k, r.Events[k])
		}
	}

	if hold > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(hold):
		}
	}
	return nil
}
