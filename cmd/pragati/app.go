package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lachiem1/pragati/internal/config"
	"github.com/lachiem1/pragati/internal/storage"
	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/rs/zerolog"
)

// app is the wiring every command shares: config, logger, database and a
// tracker already caught up to now.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	db      *sql.DB
	store   *storage.SessionStore
	tracker *tracker.Tracker
	clock   tracker.Clock
	snap    tracker.Snapshot

	closeLog func() error
}

type runMode int

const (
	// runOneShot prints a result and exits; only warnings reach stderr.
	runOneShot runMode = iota
	// runInteractive owns the terminal, so logs go to a file.
	runInteractive
	// runService logs at the configured level until stopped.
	runService
)

func openApp(ctx context.Context, mode runMode) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	out, closeLog, err := openLogOutput(cfg.Logging, mode == runInteractive)
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.Logging, out)
	if mode == runOneShot && cfg.Logging.File == "" && cfg.Logging.Level != "debug" {
		logger = logger.Level(zerolog.WarnLevel)
	}

	storageCfg, err := storage.ResolveConfig(cfg.Storage.Mode, cfg.Storage.Path)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	db, err := storage.Open(ctx, storageCfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Debug().
		Str("path", storageCfg.Path).
		Str("mode", string(storageCfg.Mode)).
		Msg("Storage initialized")

	store := storage.NewSessionStore(db, logger)
	rec, err := store.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Stored record unavailable, starting from defaults")
	}

	clock := tracker.RealClock{}
	t := tracker.New(store, logger, tracker.Options{
		ChartPoints:  cfg.Tracker.ChartPoints,
		ChartRefresh: cfg.Tracker.ChartRefresh,
		Clock:        clock,
	})
	snap := t.Resume(ctx, rec, clock.Now())

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		store:    store,
		tracker:  t,
		clock:    clock,
		snap:     snap,
		closeLog: closeLog,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close storage")
	}
	_ = a.closeLog()
}

func (a *app) now() time.Time { return a.clock.Now() }
