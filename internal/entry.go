// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/mdbacklinks/internal/index"
	"github.com/starford/mdbacklinks/internal/service"
	"github.com/starford/mdbacklinks/internal/storage"
)

// Run synchronises backlinks once and, in watch mode, keeps re-synchronising
// until ctx is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{logOutput: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("docs_path", cfg.Docs.Path),
		slog.Bool("dry_run", cfg.Sync.DryRun),
		slog.Bool("watch", cfg.Sync.Watch),
		slog.String("export_path", cfg.Export.SQLitePath),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Docs.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	svcOpts := []service.Option{
		service.WithLogger(logger),
		service.WithDryRun(cfg.Sync.DryRun),
	}

	var db *index.DB
	if cfg.Export.Enabled() {
		db, err = index.Open(cfg.Export.SQLitePath)
		if err != nil {
			return fmt.Errorf("init export: %w", err)
		}
		defer db.Close()
		svcOpts = append(svcOpts, service.WithExporter(db))
	}

	svc := service.New(store, svcOpts...)

	syncOnce := func(ctx context.Context) error {
		if _, err := svc.Run(ctx); err != nil {
			return err
		}
		if db == nil {
			return nil
		}
		st, err := db.Stats()
		if err != nil {
			return err
		}
		logger.Info("graph exported",
			slog.String("path", cfg.Export.SQLitePath),
			slog.Int("documents", st.Documents),
			slog.Int("links", st.Links))
		return nil
	}

	if err := syncOnce(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if !cfg.Sync.Watch {
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(watchCtx)

	// Re-sync on every change batch. Our own writes produce one more batch
	// whose run changes nothing.
	g.Go(func() error {
		return index.Watch(gCtx, store.Root(), cfg.Sync.Debounce, logger, func(paths []string) {
			logger.Debug("change detected", slog.Int("files", len(paths)))
			if err := syncOnce(gCtx); err != nil {
				logger.Warn("resync failed", slog.String("error", err.Error()))
			}
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Watcher stopped")
	return nil
}
