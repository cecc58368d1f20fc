package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/travelrec/internal/api"
	"github.com/neexbeast/travelrec/internal/cache"
	"github.com/neexbeast/travelrec/internal/config"
	"github.com/neexbeast/travelrec/internal/destination"
	"github.com/neexbeast/travelrec/internal/metrics"
	"github.com/neexbeast/travelrec/internal/sources"
	"github.com/neexbeast/travelrec/internal/storage"
)

const usage = `usage:
  server                      run the HTTP service
  server import <name> <file> store a dataset document in Postgres
  server datasets             list stored datasets`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	args := os.Args[1:]
	switch {
	case len(args) == 0 || args[0] == "serve":
		err = run(cfg, log)
	case args[0] == "import" && len(args) == 3:
		err = importDataset(cfg, log, args[1], args[2])
	case args[0] == "datasets" && len(args) == 1:
		err = listDatasets(cfg, os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// backends holds the optional Postgres and Redis connections.
type backends struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// openBackends connects to whatever is configured. Postgres is fatal when
// configured; Redis only degrades to running without a cache.
func openBackends(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backends, error) {
	b := &backends{}

	if cfg.DatabaseURL != "" {
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		b.pool = pool

		if err := storage.RunMigrations(ctx, pool, os.DirFS(cfg.MigrationsDir)); err != nil {
			b.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, running without dataset cache", "err", err)
		} else {
			b.redis = client
		}
	}

	return b, nil
}

func run(cfg *config.Config, log *slog.Logger) error {
	if err := cfg.ServerReady(); err != nil {
		return err
	}

	ctx := context.Background()

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	// Wire dependencies.
	var (
		deps        sources.Backends
		dbPinger    api.Pinger
		redisPinger api.Pinger
	)
	if b.pool != nil {
		deps.Datasets = storage.NewRepository(b.pool)
		dbPinger = &pgxPoolPinger{pool: b.pool}
	}
	if b.redis != nil {
		deps.Cache = cache.NewCacheWithTTL(b.redis, cfg.CacheTTL)
		redisPinger = &redisPingerAdapter{client: b.redis}
	}

	set, err := sources.Build(cfg.DataSources, deps, log)
	if err != nil {
		return fmt.Errorf("building data sources: %w", err)
	}

	catalog := destination.NewCatalog(destination.NewLoader(log, set.Sources...))
	if err := catalog.Reload(ctx); err != nil {
		// The service still starts and answers 503 until a reload succeeds.
		log.Error("initial catalog load failed", "err", err)
		metrics.RecordReload(0, err)
	} else {
		records, _ := catalog.Snapshot()
		metrics.RecordReload(len(records), nil)
	}

	invalidators := make([]api.CacheInvalidator, 0, len(set.Cached))
	for _, cs := range set.Cached {
		invalidators = append(invalidators, cs)
	}

	handlers := api.NewHandlers(catalog, log,
		api.WithDefaultCity(cfg.DefaultCity),
		api.WithInvalidators(invalidators...),
	)
	router := api.NewRouter(handlers, cfg.BearerToken, dbPinger, redisPinger, log)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "addr", srv.Addr, "sources", len(set.Sources))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// importDataset validates a dataset file and stores it under name.
func importDataset(cfg *config.Config, log *slog.Logger, name, path string) error {
	if cfg.DatabaseURL == "" {
		return errors.New("import needs DATABASE_URL")
	}

	ctx := context.Background()

	doc, err := destination.NewFileSource(path).Fetch(ctx)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	records := destination.Normalize(*doc)

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := storage.NewRepository(b.pool).UpsertDataset(ctx, name, *doc); err != nil {
		return err
	}

	// A cached copy of the previous document would hide the import.
	if b.redis != nil {
		if err := cache.NewCache(b.redis).Delete(ctx, "pg:"+name); err != nil {
			log.Warn("cache delete failed after import", "dataset", name, "err", err)
		}
	}

	log.Info("dataset imported", "dataset", name, "records", len(records))
	return nil
}

func listDatasets(cfg *config.Config, out *os.File) error {
	if cfg.DatabaseURL == "" {
		return errors.New("datasets needs DATABASE_URL")
	}

	ctx := context.Background()
	pool, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	list, err := storage.NewRepository(pool).ListDatasets(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPLACES\tUPDATED")
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Name, d.Places, d.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// pgxPoolPinger adapts pgxpool.Pool to the api.Pinger interface.
type pgxPoolPinger struct {
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (p *pgxPoolPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// redisPingerAdapter adapts redis.Client to the api.Pinger interface.
type redisPingerAdapter struct {
	client *redis.Client
}

func (r *redisPingerAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
