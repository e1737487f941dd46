package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/fitsync/internal/models"
)

func (c *Cli) runDelete(ctx context.Context, entityName, id string) error {
	entity, err := models.ParseEntityType(entityName)
	if err != nil {
		return err
	}

	if err := c.records.Delete(ctx, entity, id); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", entity, id, err)
	}

	c.io.Success("Deleted %s %s", entity, id)
	return nil
}
