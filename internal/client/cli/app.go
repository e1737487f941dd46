package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/iudanet/fitsync/internal/client/adapter"
	"github.com/iudanet/fitsync/internal/client/data"
	"github.com/iudanet/fitsync/internal/client/inbox"
	"github.com/iudanet/fitsync/internal/client/iocli"
	"github.com/iudanet/fitsync/internal/client/remote"
	"github.com/iudanet/fitsync/internal/client/scheduler"
	"github.com/iudanet/fitsync/internal/client/session"
	"github.com/iudanet/fitsync/internal/client/storage/boltdb"
	"github.com/iudanet/fitsync/internal/client/storage/sqlite"
	"github.com/iudanet/fitsync/internal/client/sync"
	"github.com/iudanet/fitsync/internal/config"
)

// App собранный клиент: хранилища, синхронизация и команды
type App struct {
	Cli     *Cli
	closers []io.Closer
}

// Open открывает локальные хранилища в cfg.DataDir и собирает клиента
func Open(ctx context.Context, cfg *config.Client, out iocli.IO, logger *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{}

	records, err := sqlite.New(ctx, cfg.RecordsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	app.closers = append(app.closers, records)

	meta, err := boltdb.New(ctx, cfg.MetaPath())
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	app.closers = append(app.closers, meta)

	sessions := session.NewService(meta, logger)
	client := remote.NewClient(cfg.ServerURL, sessions, remote.Options{
		Timeout:       cfg.HTTPTimeout,
		RetryBase:     cfg.RetryBase,
		RetryMaxDelay: cfg.RetryMax,
		MaxRetries:    cfg.MaxRetries,
	}, logger)

	adapters, err := adapter.Registry(adapter.Deps{
		Records:  records,
		Cursors:  meta,
		Failures: meta,
		Remote:   client,
		Logger:   logger,
	}, adapter.Config{
		PushBatchSize: cfg.PushBatchSize,
		PullPageSize:  cfg.PullPageSize,
		MaxPullPages:  cfg.MaxPullPages,
		Failure: adapter.FailurePolicy{
			BaseDelay:   cfg.FailureBaseDelay,
			MaxDelay:    cfg.FailureMaxDelay,
			MaxAttempts: cfg.FailureMaxAttempts,
		},
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to build entity adapters: %w", err)
	}

	orch, err := sync.NewOrchestrator(adapters, records, meta, sessions, logger)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to create sync orchestrator: %w", err)
	}

	sched := scheduler.New(orch, sessions, records, meta, scheduler.Config{
		Interval:   cfg.SyncInterval,
		RunOnStart: true,
	}, logger)

	dataService := data.NewService(records, logger)

	watcher, err := inbox.New(cfg.InboxDir, dataService, sessions, 0, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Cli = New(out, sessions, sched, dataService, meta, watcher, logger)
	return app, nil
}

// Close закрывает хранилища в обратном порядке
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
