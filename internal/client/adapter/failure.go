package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/models"
)

// FailurePolicy пауза и лимит попыток для записей с постоянными ошибками.
// Пауза растет как BaseDelay * 2^(attempts-1) и ограничена MaxDelay.
// После MaxAttempts запись больше не отправляется автоматически,
// пока ее не изменят локально или не сбросят учет ошибок.
type FailurePolicy struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// DefaultFailurePolicy значения по умолчанию
func DefaultFailurePolicy() FailurePolicy {
	return FailurePolicy{
		BaseDelay:   time.Minute,
		MaxDelay:    6 * time.Hour,
		MaxAttempts: 5,
	}
}

func (p FailurePolicy) withDefaults() FailurePolicy {
	def := DefaultFailurePolicy()
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	return p
}

// Delay returns the pause after the given number of consecutive failures
func (p FailurePolicy) Delay(attempts int) time.Duration {
	if attempts < 1 {
		return 0
	}
	d := p.BaseDelay
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// suppressed решает, пропускать ли dirty строку из-за прошлых ошибок.
// Если запись изменили после ошибки, учет сбрасывается.
func (a *entityAdapter[T, PT]) suppressed(ctx context.Context, row *storage.Row, now time.Time) bool {
	f, err := a.deps.Failures.GetFailure(ctx, a.entity, row.ID)
	if errors.Is(err, storage.ErrFailureNotFound) {
		return false
	}
	if err != nil {
		a.logger.Warn("Failed to read failure entry", "id", row.ID, "error", err)
		return false
	}

	if !f.RecordUpdatedAt.Equal(row.UpdatedAt) {
		if err := a.deps.Failures.ClearFailure(ctx, a.entity, row.ID); err != nil {
			a.logger.Warn("Failed to clear failure entry", "id", row.ID, "error", err)
		}
		return false
	}

	return f.Escalated || now.Before(f.NextAttemptAt)
}

// recordFailure учитывает постоянную ошибку записи
func (a *entityAdapter[T, PT]) recordFailure(ctx context.Context, rec models.Record, cause error) {
	m := rec.Base()
	now := a.deps.now()

	f, err := a.deps.Failures.GetFailure(ctx, a.entity, m.ID)
	switch {
	case errors.Is(err, storage.ErrFailureNotFound):
		f = nil
	case err != nil:
		a.logger.Warn("Failed to read failure entry", "id", m.ID, "error", err)
		return
	}

	if f == nil || !f.RecordUpdatedAt.Equal(m.UpdatedAt) {
		f = &storage.Failure{
			Entity:          a.entity,
			ID:              m.ID,
			RecordUpdatedAt: m.UpdatedAt,
		}
	}

	f.Attempts++
	f.LastError = cause.Error()
	f.LastAttemptAt = now
	f.NextAttemptAt = now.Add(a.cfg.Failure.Delay(f.Attempts))
	f.Escalated = f.Attempts >= a.cfg.Failure.MaxAttempts

	if err := a.deps.Failures.RecordFailure(ctx, f); err != nil {
		a.logger.Warn("Failed to save failure entry", "id", m.ID, "error", err)
		return
	}

	if f.Escalated {
		a.logger.Error("Record keeps failing, automatic retries stopped",
			"id", m.ID,
			"attempts", f.Attempts,
			"error", cause)
		return
	}

	a.logger.Warn("Record rejected permanently, backing off",
		"id", m.ID,
		"attempts", f.Attempts,
		"next_attempt_at", f.NextAttemptAt,
		"error", cause)
}
