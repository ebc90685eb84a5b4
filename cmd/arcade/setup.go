package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/roomwalk/internal/core"
	"github.com/vovakirdan/roomwalk/internal/games/crates"
	"github.com/vovakirdan/roomwalk/internal/games/pyramid"
	"github.com/vovakirdan/roomwalk/internal/games/reef"
	"github.com/vovakirdan/roomwalk/internal/storage"
	"github.com/vovakirdan/roomwalk/internal/telemetry"
)

// configureGames applies the global flags to every game. configPath is only
// given to the game named by gameID.
func configureGames(gameID, configPath string) {
	path := func(id string) string {
		if id == gameID {
			return configPath
		}
		return ""
	}

	pyramid.SetConfigPath(path("pyramid"))
	pyramid.SetDifficultyPreset(flagDifficulty)
	pyramid.SetMazeDir(flagMazeDir)

	reef.SetConfigPath(path("reef"))
	reef.SetDifficultyPreset(flagDifficulty)

	crates.SetConfigPath(path("crates"))
}

// setupTelemetry routes game events to the database, the --event-log file
// and any extra sinks through one async forwarder. The returned func
// flushes the queue and detaches the games from it.
func setupTelemetry(store *storage.Store, extra ...telemetry.Sink) (func(), error) {
	var sinks []telemetry.Sink
	if store != nil {
		sinks = append(sinks, store)
	}

	var logFile *os.File
	if flagEventLog != "" {
		f, err := os.OpenFile(flagEventLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open event log: %w", err)
		}
		logFile = f
		logger := log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Level:           log.DebugLevel,
			Prefix:          "events",
		})
		sinks = append(sinks, telemetry.NewLogSink(logger))
	}
	sinks = append(sinks, extra...)

	if len(sinks) == 0 {
		return func() {}, nil
	}

	async := telemetry.NewAsync(telemetry.Multi(sinks...), 512)
	telemetry.SetDefault(async)
	return func() {
		telemetry.SetDefault(nil)
		async.Close()
		if n := async.Dropped(); n > 0 {
			log.Warn("telemetry events dropped", "count", n)
		}
		if logFile != nil {
			logFile.Close()
		}
	}, nil
}

// openStore opens the scores database, warning instead of failing so games
// still run without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// arcadeEnv is what a local command needs around its games: the scores
// database and the telemetry pipeline feeding it.
type arcadeEnv struct {
	store         *storage.Store
	stopTelemetry func()
}

func startEnv(extra ...telemetry.Sink) (*arcadeEnv, error) {
	store := openStore()
	stop, err := setupTelemetry(store, extra...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return &arcadeEnv{store: store, stopTelemetry: stop}, nil
}

// Close flushes pending events before the store goes away.
func (e *arcadeEnv) Close() {
	e.stopTelemetry()
	if e.store != nil {
		e.store.Close()
	}
}

// terminalConfig sizes games to stdout, or 80x24 when it is not a terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: flagSeed}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	return cfg
}
