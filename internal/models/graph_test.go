package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(order []EntityType, e EntityType) int {
	for i, t := range order {
		if t == e {
			return i
		}
	}
	return -1
}

func TestTopoOrder_AllEntities(t *testing.T) {
	// перемешанный вход: потомки раньше родителей
	input := []EntityType{
		EntityPRHistory,
		EntityScheduledWorkouts,
		EntitySets,
		EntityMessages,
		EntityWorkoutTemplates,
		EntityWorkoutSessions,
		EntityPrograms,
	}

	order, err := TopoOrder(input, nil)
	require.NoError(t, err)
	require.Len(t, order, len(input))

	for _, e := range order {
		for _, parent := range DependsOn(e) {
			if indexOf(input, parent) < 0 {
				continue
			}
			assert.Less(t, indexOf(order, parent), indexOf(order, e), "%s must precede %s", parent, e)
		}
	}
}

func TestTopoOrder_Deterministic(t *testing.T) {
	first, err := TopoOrder(AllEntityTypes(), nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := TopoOrder(AllEntityTypes(), nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	// порядок регистрации уже топологический
	assert.Equal(t, AllEntityTypes(), first)
}

func TestTopoOrder_Errors(t *testing.T) {
	tests := []struct {
		deps    DependencyFunc
		name    string
		input   []EntityType
		wantErr error
	}{
		{
			name:  "cycle",
			input: []EntityType{EntityPrograms, EntityWorkoutTemplates},
			deps: func(e EntityType) []EntityType {
				if e == EntityPrograms {
					return []EntityType{EntityWorkoutTemplates}
				}
				return []EntityType{EntityPrograms}
			},
			wantErr: ErrDependencyCycle,
		},
		{
			name:  "self dependency",
			input: []EntityType{EntityBadges},
			deps: func(e EntityType) []EntityType {
				return []EntityType{EntityBadges}
			},
			wantErr: ErrDependencyCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TopoOrder(tt.input, tt.deps)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := TopoOrder([]EntityType{EntityBadges, EntityBadges}, nil)
	assert.Error(t, err)
}

func TestParseEntityType(t *testing.T) {
	for _, e := range AllEntityTypes() {
		got, err := ParseEntityType(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)

		rec, err := New(e)
		require.NoError(t, err)
		assert.Equal(t, e, rec.Entity())
	}

	_, err := ParseEntityType("workout_logs")
	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.Len(t, AllEntityTypes(), 12)
}

func TestRecord_JSONOmitsSynced(t *testing.T) {
	now := Timestamp(time.Now())
	set := &WorkoutSet{
		Meta: Meta{
			ID:        "set-1",
			UserID:    "user-1",
			CreatedAt: now,
			UpdatedAt: now,
			Synced:    true,
		},
		SessionID: "session-1",
		Exercise:  "squat",
		Reps:      5,
		WeightKg:  100,
	}

	data, err := json.Marshal(set)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "set-1", raw["id"])
	assert.Equal(t, "session-1", raw["session_id"])
	assert.NotContains(t, raw, "synced")
	assert.NotContains(t, raw, "Synced")

	assert.Equal(t, []ParentRef{{Entity: EntityWorkoutSessions, ID: "session-1"}}, set.Parents())
}

func TestMeta_IsNewerThan(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	older := &Meta{UpdatedAt: base}
	newer := &Meta{UpdatedAt: base.Add(time.Millisecond)}

	assert.True(t, newer.IsNewerThan(older))
	assert.False(t, older.IsNewerThan(newer))
	assert.False(t, older.IsNewerThan(&Meta{UpdatedAt: base}))
}

func TestMillis(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 891_234_567, time.FixedZone("X", 3600))
	got := FromMillis(ToMillis(ts))
	assert.Equal(t, Timestamp(ts), got)
	assert.True(t, FromMillis(0).IsZero())
	assert.Equal(t, int64(0), ToMillis(time.Time{}))
}
