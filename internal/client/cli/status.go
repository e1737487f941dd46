package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/fitsync/internal/client/scheduler"
	"github.com/iudanet/fitsync/internal/models"
)

func (c *Cli) runStatus(ctx context.Context) error {
	status, err := c.syncer.GetSyncStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync status: %w", err)
	}

	c.io.Println("=== Sync Status ===")
	c.io.Println()

	if status.UserID != "" {
		c.io.Printf("User:      %s\n", status.UserID)
	}
	if status.State == scheduler.StateSynced {
		c.io.Success("State:     %s", status.State)
	} else {
		c.io.Warn("State:     %s", status.State)
	}

	switch {
	case status.LastRunAt.IsZero():
		c.io.Println("Last run:  never")
	case status.LastRunOK:
		c.io.Printf("Last run:  %s (ok)\n", status.LastRunAt.Local().Format(time.RFC3339))
	default:
		c.io.Printf("Last run:  %s (with errors)\n", status.LastRunAt.Local().Format(time.RFC3339))
	}
	c.io.Printf("Unsynced:  %d\n", status.TotalUnsynced)
	c.io.Printf("Failed:    %d\n", status.TotalFailed)

	if status.TotalUnsynced > 0 || status.TotalFailed > 0 {
		c.io.Println()
		c.io.Printf("%-20s %9s %7s\n", "ENTITY", "UNSYNCED", "FAILED")
		for _, e := range models.AllEntityTypes() {
			unsynced, failed := status.UnsyncedCountsByEntity[e], status.FailedCountsByEntity[e]
			if unsynced == 0 && failed == 0 {
				continue
			}
			c.io.Printf("%-20s %9d %7d\n", e, unsynced, failed)
		}
	}

	switch status.State {
	case scheduler.StateNeedsReauth:
		c.io.Println()
		c.io.Println("Run 'fitsync login' to authenticate.")
	case scheduler.StateFailed:
		c.io.Println()
		c.io.Println("Fix the records or run 'fitsync retry-failed' to send them again.")
	}
	return nil
}
