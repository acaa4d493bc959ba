package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/ricochet/internal/core/config"
	"github.com/zeusync/ricochet/internal/core/events/bus"
	"github.com/zeusync/ricochet/internal/core/feedback/tone"
	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/sandbox"
	"github.com/zeusync/ricochet/internal/server"
)

// Options are the command-line inputs of the sandbox.
type Options struct {
	ConfigPath string
	// Listen enables the websocket feed when non-empty.
	Listen string
	Audio  bool
}

// App is the wired sandbox. Feed and Audio are nil when disabled.
type App struct {
	Presets *config.Presets
	Logger  log.Log
	Bus     bus.EventBus
	Runner  *sandbox.Runner
	Feed    *server.FeedServer
	Audio   *tone.Player
}

var SandboxSet = wire.NewSet(
	ProvidePresets,
	ProvideLogger,
	ProvideBus,
	ProvideRunner,
	ProvideFeed,
	ProvideAudio,
)

func ProvidePresets(opts Options) (*config.Presets, error) {
	return config.LoadFile(opts.ConfigPath)
}

func ProvideLogger(presets *config.Presets) log.Log {
	logger := log.NewDevelopment(presets.LogLevel())
	presets.Report(logger)
	return logger
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideRunner(presets *config.Presets, b bus.EventBus, logger log.Log) *sandbox.Runner {
	return sandbox.NewRunner(presets, b, logger)
}

func ProvideFeed(opts Options, b bus.EventBus, logger log.Log) (*server.FeedServer, func(), error) {
	if opts.Listen == "" {
		return nil, func() {}, nil
	}
	cfg := server.DefaultConfig()
	cfg.ListenAddr = opts.Listen
	feed, err := server.NewFeedServer(cfg, b, logger)
	if err != nil {
		return nil, nil, err
	}
	return feed, func() { _ = feed.Close() }, nil
}

func ProvideAudio(opts Options, b bus.EventBus) (*tone.Player, func(), error) {
	if !opts.Audio {
		return nil, func() {}, nil
	}
	player := tone.NewPlayer(tone.DefaultConfig())
	sub, err := b.Subscribe("beep", player.Handle)
	if err != nil {
		return nil, nil, err
	}
	return player, func() {
		_ = b.Unsubscribe(sub)
		player.Stop()
	}, nil
}
