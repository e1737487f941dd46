package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/fitsync/internal/models"
)

// runRetryFailed сбрасывает учет постоянных ошибок. Пустое имя = все сущности.
func (c *Cli) runRetryFailed(ctx context.Context, entityName string) error {
	var entity models.EntityType
	if entityName != "" {
		parsed, err := models.ParseEntityType(entityName)
		if err != nil {
			return err
		}
		entity = parsed
	}

	n, err := c.failures.ResetFailures(ctx, entity)
	if err != nil {
		return fmt.Errorf("failed to reset failures: %w", err)
	}

	if n == 0 {
		c.io.Println("No failed records.")
		return nil
	}
	c.io.Success("Reset %d failed record(s), they will be sent on the next sync", n)
	return nil
}
