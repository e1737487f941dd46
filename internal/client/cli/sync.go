package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/fitsync/internal/client/scheduler"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")

	summary, err := c.syncer.SyncNow(ctx)
	if err != nil {
		if errors.Is(err, scheduler.ErrNoSession) {
			c.io.Warn("Not logged in. Run 'fitsync login' first.")
		}
		return fmt.Errorf("synchronization failed: %w", err)
	}

	if summary.Skipped {
		c.io.Warn("Synchronization is already running for %s", summary.UserID)
		return nil
	}

	c.io.Printf("%-20s %7s %7s %7s %7s\n", "ENTITY", "PUSHED", "PULLED", "FAILED", "WAITING")
	failedEntities := 0
	for _, o := range summary.Entities {
		waiting := o.Push.Deferred + o.Push.Stale + o.Pull.Deferred
		c.io.Printf("%-20s %7d %7d %7d %7d\n", o.Entity, o.Push.Pushed, o.Pull.Pulled, o.Push.Failed, waiting)
		if o.Failed() {
			failedEntities++
			if err := entityError(o.Err, o.Push.Err, o.Pull.Err); err != nil {
				c.io.Warn("  %s: %v", o.Entity, err)
			}
		}
	}
	c.io.Println()

	switch {
	case summary.NeedsReauth:
		c.io.Warn("Server rejected the session. Run 'fitsync login' to continue syncing.")
		return ErrNeedsReauth
	case summary.Err != nil:
		return fmt.Errorf("synchronization failed: %w", summary.Err)
	case failedEntities > 0:
		c.io.Warn("%d record(s) still waiting to be synchronized", summary.TotalUnsynced)
		return fmt.Errorf("%w: %d entity type(s) had errors", ErrSyncIncomplete, failedEntities)
	}

	if summary.TotalUnsynced > 0 {
		c.io.Warn("Synchronization completed, %d record(s) will be sent on the next run", summary.TotalUnsynced)
		return nil
	}
	c.io.Success("Synchronization completed in %s", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	return nil
}

func entityError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
