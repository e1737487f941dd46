package cli

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type loginOptions struct {
	userID    string
	token     string
	expiresIn time.Duration // expiresIn 0 = срок не ограничен
}

// runLogin сохраняет сессию, выданную сервисом авторизации. Недостающие
// значения запрашиваются у пользователя.
func (c *Cli) runLogin(ctx context.Context, opts loginOptions) error {
	userID := strings.TrimSpace(opts.userID)
	if userID == "" {
		input, err := c.io.ReadInput("User ID: ")
		if err != nil {
			return fmt.Errorf("failed to read user id: %w", err)
		}
		userID = input
	}

	token := strings.TrimSpace(opts.token)
	if token == "" {
		input, err := c.io.ReadPassword("Access token: ")
		if err != nil {
			return fmt.Errorf("failed to read access token: %w", err)
		}
		token = input
	}

	var expiresAt time.Time
	if opts.expiresIn < 0 {
		return fmt.Errorf("expires-in cannot be negative")
	}
	if opts.expiresIn > 0 {
		expiresAt = c.now().Add(opts.expiresIn)
	}

	if err := c.sessions.Login(ctx, userID, token, expiresAt); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Success("Logged in as %s", userID)
	if !expiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))
	}
	return nil
}
