package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/fitsync/internal/models"
)

// ErrInvalidRecord базовая ошибка валидации. Это постоянная ошибка:
// повторная отправка той же записи без изменений снова упадет.
var ErrInvalidRecord = errors.New("invalid record")

// UserIDPattern допустимый идентификатор пользователя от внешнего auth провайдера
var UserIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.:@]{1,128}$`)

const (
	// MaxTextLen ограничение для свободного текста (заметки, сообщения)
	MaxTextLen = 4000
	// MaxNameLen ограничение для названий
	MaxNameLen = 200
)

// FieldError описывает одно нарушенное правило.
type FieldError struct {
	Field   string
	Message string
}

// Error собирает все нарушения записи.
type Error struct {
	Entity models.EntityType
	ID     string
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("invalid %s %s: %s", e.Entity, e.ID, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return ErrInvalidRecord
}

type checker struct {
	fields []FieldError
}

func (c *checker) fail(field, format string, args ...any) {
	c.fields = append(c.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.fail(field, "is required")
	}
}

func (c *checker) maxLen(field, value string, limit int) {
	if len(value) > limit {
		c.fail(field, "must not exceed %d characters", limit)
	}
}

func (c *checker) uuidRef(field, value string, required bool) {
	if value == "" {
		if required {
			c.fail(field, "is required")
		}
		return
	}
	if _, err := uuid.Parse(value); err != nil {
		c.fail(field, "must be a UUID")
	}
}

func (c *checker) rng(field string, value, lo, hi float64) {
	if value < lo || value > hi {
		c.fail(field, "must be between %g and %g", lo, hi)
	}
}

func (c *checker) day(field, value string) {
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		c.fail(field, "must be a date in YYYY-MM-DD format")
	}
}

func (c *checker) notZero(field string, t time.Time) {
	if t.IsZero() {
		c.fail(field, "is required")
	}
}

// ValidateUserID проверяет идентификатор пользователя
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	if !UserIDPattern.MatchString(userID) {
		return fmt.Errorf("user id can only contain letters, digits and _-.:@ (max 128 characters)")
	}
	return nil
}

// ValidateRecord проверяет общие поля и поля конкретной сущности.
// Возвращает *Error, который оборачивает ErrInvalidRecord.
func ValidateRecord(rec models.Record) error {
	m := rec.Base()
	c := &checker{}

	c.uuidRef("id", m.ID, true)
	if err := ValidateUserID(m.UserID); err != nil {
		c.fail("user_id", "%s", err.Error())
	}
	c.notZero("created_at", m.CreatedAt)
	c.notZero("updated_at", m.UpdatedAt)
	if !m.CreatedAt.IsZero() && m.UpdatedAt.Before(m.CreatedAt) {
		c.fail("updated_at", "must not be before created_at")
	}

	validateFields(c, rec)

	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Entity: rec.Entity(), ID: m.ID, Fields: c.fields}
}

func validateFields(c *checker, rec models.Record) {
	switch r := rec.(type) {
	case *models.WorkoutSession:
		c.notZero("started_at", r.StartedAt)
		c.required("name", r.Name)
		c.maxLen("name", r.Name, MaxNameLen)
		c.maxLen("notes", r.Notes, MaxTextLen)
		if r.EndedAt != nil && r.EndedAt.Before(r.StartedAt) {
			c.fail("ended_at", "must not be before started_at")
		}
	case *models.WorkoutSet:
		c.uuidRef("session_id", r.SessionID, true)
		c.required("exercise", r.Exercise)
		c.maxLen("exercise", r.Exercise, MaxNameLen)
		if r.Reps < 0 {
			c.fail("reps", "must not be negative")
		}
		c.rng("weight_kg", r.WeightKg, 0, 1000)
		if r.RPE != 0 {
			c.rng("rpe", r.RPE, 1, 10)
		}
		if r.SetIndex < 0 {
			c.fail("set_index", "must not be negative")
		}
	case *models.Run:
		c.notZero("started_at", r.StartedAt)
		if r.DistanceMeters < 0 {
			c.fail("distance_meters", "must not be negative")
		}
		if r.DurationSeconds < 0 {
			c.fail("duration_seconds", "must not be negative")
		}
		if r.AvgHeartRate != 0 {
			c.rng("avg_heart_rate", float64(r.AvgHeartRate), 20, 250)
		}
	case *models.ReadinessScore:
		c.day("day", r.Day)
		c.rng("score", float64(r.Score), 0, 100)
		c.rng("sleep_hours", r.SleepHours, 0, 24)
	case *models.PRHistory:
		c.required("exercise", r.Exercise)
		c.uuidRef("set_id", r.SetID, false)
		c.notZero("achieved_at", r.AchievedAt)
		c.rng("weight_kg", r.WeightKg, 0, 1000)
		if r.Reps < 1 {
			c.fail("reps", "must be at least 1")
		}
	case *models.InjuryLog:
		c.required("body_part", r.BodyPart)
		c.notZero("reported_at", r.ReportedAt)
		c.rng("severity", float64(r.Severity), 1, 10)
		c.maxLen("notes", r.Notes, MaxTextLen)
	case *models.Badge:
		c.required("code", r.Code)
		c.required("title", r.Title)
		c.notZero("earned_at", r.EarnedAt)
	case *models.Streak:
		c.required("kind", r.Kind)
		c.day("last_active_day", r.LastActiveDay)
		if r.Current < 0 || r.Longest < r.Current {
			c.fail("longest", "must be >= current >= 0")
		}
	case *models.ChatMessage:
		if r.Role != "user" && r.Role != "coach" {
			c.fail("role", "must be user or coach")
		}
		c.required("body", r.Body)
		c.maxLen("body", r.Body, MaxTextLen)
		c.notZero("sent_at", r.SentAt)
	case *models.Program:
		c.required("name", r.Name)
		c.maxLen("name", r.Name, MaxNameLen)
		if r.Weeks < 1 || r.Weeks > 104 {
			c.fail("weeks", "must be between 1 and 104")
		}
	case *models.WorkoutTemplate:
		c.uuidRef("program_id", r.ProgramID, true)
		c.required("name", r.Name)
		if r.DayIndex < 0 {
			c.fail("day_index", "must not be negative")
		}
	case *models.ScheduledWorkout:
		c.uuidRef("program_id", r.ProgramID, true)
		c.uuidRef("template_id", r.TemplateID, true)
		c.notZero("scheduled_for", r.ScheduledFor)
	default:
		c.fail("entity", "unsupported record type %T", rec)
	}
}
