package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neexbeast/travelrec/internal/cache"
	"github.com/neexbeast/travelrec/internal/config"
	"github.com/neexbeast/travelrec/internal/destination"
	"github.com/neexbeast/travelrec/internal/sources"
	"github.com/neexbeast/travelrec/internal/storage"
	"github.com/neexbeast/travelrec/internal/tui"
	"github.com/neexbeast/travelrec/internal/view"
)

func main() {
	logPath := flag.String("log", "", "Write JSON logs to this file (default: discard)")
	city := flag.String("city", "", "Preferred default city (overrides DEFAULT_CITY)")
	flag.Parse()

	if err := run(*logPath, *city); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(logPath, city string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if city != "" {
		cfg.DefaultCity = city
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	log := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx := context.Background()

	var deps sources.Backends
	if cfg.DatabaseURL != "" {
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		deps.Datasets = storage.NewRepository(pool)
	}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, running without dataset cache", "err", err)
		} else {
			defer func() { _ = client.Close() }()
			deps.Cache = cache.NewCacheWithTTL(client, cfg.CacheTTL)
		}
	}

	set, err := sources.Build(cfg.DataSources, deps, log)
	if err != nil {
		return fmt.Errorf("building data sources: %w", err)
	}
	loader := destination.NewLoader(log, set.Sources...)

	display := &tui.Display{}
	ctrl := view.NewController(display, log, view.WithDefaultHint(cfg.DefaultCity))
	defer ctrl.Close()

	p := tea.NewProgram(tui.New(ctrl, loader), tea.WithAltScreen())
	display.Attach(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}
