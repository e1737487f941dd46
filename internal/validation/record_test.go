package validation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fitsync/internal/models"
)

func meta() models.Meta {
	now := models.Timestamp(time.Now())
	return models.Meta{
		ID:        uuid.New().String(),
		UserID:    "user-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestValidateRecord(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		rec       models.Record
		name      string
		wantField string
		wantErr   bool
	}{
		{
			name: "valid set",
			rec: &models.WorkoutSet{
				Meta:      meta(),
				SessionID: uuid.New().String(),
				Exercise:  "bench press",
				Reps:      8,
				WeightKg:  80,
				RPE:       8,
			},
		},
		{
			name:      "set without session",
			rec:       &models.WorkoutSet{Meta: meta(), Exercise: "squat", Reps: 5},
			wantErr:   true,
			wantField: "session_id",
		},
		{
			name: "rpe out of range",
			rec: &models.WorkoutSet{
				Meta:      meta(),
				SessionID: uuid.New().String(),
				Exercise:  "squat",
				RPE:       11,
			},
			wantErr:   true,
			wantField: "rpe",
		},
		{
			name:      "program weeks zero",
			rec:       &models.Program{Meta: meta(), Name: "5/3/1"},
			wantErr:   true,
			wantField: "weeks",
		},
		{
			name: "valid scheduled workout",
			rec: &models.ScheduledWorkout{
				Meta:         meta(),
				ProgramID:    uuid.New().String(),
				TemplateID:   uuid.New().String(),
				ScheduledFor: now.Add(24 * time.Hour),
			},
		},
		{
			name:      "readiness bad day",
			rec:       &models.ReadinessScore{Meta: meta(), Day: "01/02/2026", Score: 50},
			wantErr:   true,
			wantField: "day",
		},
		{
			name:      "message bad role",
			rec:       &models.ChatMessage{Meta: meta(), Role: "bot", Body: "hi", SentAt: now},
			wantErr:   true,
			wantField: "role",
		},
		{
			name: "pr without set is allowed",
			rec: &models.PRHistory{
				Meta:       meta(),
				Exercise:   "deadlift",
				Reps:       1,
				WeightKg:   200,
				AchievedAt: now,
			},
		},
		{
			name: "non uuid id",
			rec: &models.Badge{
				Meta:     models.Meta{ID: "badge-1", UserID: "user-1", CreatedAt: now, UpdatedAt: now},
				Code:     "first_run",
				Title:    "First run",
				EarnedAt: now,
			},
			wantErr:   true,
			wantField: "id",
		},
		{
			name: "updated before created",
			rec: &models.Streak{
				Meta: models.Meta{
					ID:        uuid.New().String(),
					UserID:    "user-1",
					CreatedAt: now,
					UpdatedAt: now.Add(-time.Hour),
				},
				Kind:          "workout",
				LastActiveDay: "2026-01-02",
				Current:       1,
				Longest:       3,
			},
			wantErr:   true,
			wantField: "updated_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.rec)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRecord)

			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.rec.Entity(), verr.Entity)

			var fields []string
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		wantErr bool
	}{
		{name: "uuid", userID: uuid.New().String()},
		{name: "email like", userID: "alice@example.com"},
		{name: "empty", userID: "", wantErr: true},
		{name: "spaces", userID: "alice smith", wantErr: true},
		{name: "slash", userID: "alice/bob", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.userID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
