package cli

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

var errInboxStopped = errors.New("inbox watcher stopped")

// runDaemon запускает планировщик и inbox до отмены контекста
func (c *Cli) runDaemon(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	c.syncer.Start(gctx)
	c.logger.Info("Daemon started")
	c.io.Println("Syncing in background, press Ctrl+C to stop.")

	g.Go(func() error {
		err := c.inbox.Run(gctx)
		if err == nil && gctx.Err() == nil {
			return errInboxStopped
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		c.syncer.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("daemon stopped: %w", err)
	}
	c.logger.Info("Daemon stopped")
	return nil
}
