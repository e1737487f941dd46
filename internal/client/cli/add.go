package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/fitsync/internal/models"
)

// runAdd сохраняет запись из JSON. Запись с известным id обновляется.
func (c *Cli) runAdd(ctx context.Context, entityName string, raw []byte) error {
	entity, err := models.ParseEntityType(entityName)
	if err != nil {
		return err
	}
	if !json.Valid(raw) {
		return errors.New("input is not valid JSON")
	}

	userID, err := c.sessions.UserID(ctx)
	if err != nil {
		return fmt.Errorf("not logged in: %w", err)
	}

	rec, err := c.records.Import(ctx, userID, entity, json.RawMessage(raw))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", entity, err)
	}

	c.io.Success("Saved %s %s", entity, rec.Base().ID)
	c.io.Println("The record will be sent to the server on the next sync.")
	return nil
}
