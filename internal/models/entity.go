package models

import (
	"errors"
	"fmt"
)

// EntityType имя сущности, совпадает с именем таблицы локально и удалённо.
type EntityType string

const (
	EntityWorkoutSessions   EntityType = "workout_sessions"
	EntitySets              EntityType = "sets"
	EntityRuns              EntityType = "runs"
	EntityReadinessScores   EntityType = "readiness_scores"
	EntityPRHistory         EntityType = "pr_history"
	EntityInjuryLogs        EntityType = "injury_logs"
	EntityBadges            EntityType = "badges"
	EntityStreaks           EntityType = "streaks"
	EntityMessages          EntityType = "messages"
	EntityPrograms          EntityType = "programs"
	EntityWorkoutTemplates  EntityType = "workout_templates"
	EntityScheduledWorkouts EntityType = "scheduled_workouts"
)

var (
	// ErrUnknownEntity возвращается для имени таблицы, которой нет в реестре
	ErrUnknownEntity = errors.New("unknown entity type")

	// ErrDependencyCycle возвращается, если граф зависимостей содержит цикл
	ErrDependencyCycle = errors.New("entity dependency cycle")
)

// entityInfo описывает сущность: конструктор пустой записи и родителей.
type entityInfo struct {
	newRecord func() Record
	dependsOn []EntityType
}

// registryOrder порядок регистрации, используется как tie-break при сортировке.
var registryOrder = []EntityType{
	EntityPrograms,
	EntityWorkoutTemplates,
	EntityScheduledWorkouts,
	EntityWorkoutSessions,
	EntitySets,
	EntityPRHistory,
	EntityRuns,
	EntityReadinessScores,
	EntityInjuryLogs,
	EntityBadges,
	EntityStreaks,
	EntityMessages,
}

var registry = map[EntityType]entityInfo{
	EntityPrograms:          {newRecord: func() Record { return &Program{} }},
	EntityWorkoutTemplates:  {newRecord: func() Record { return &WorkoutTemplate{} }, dependsOn: []EntityType{EntityPrograms}},
	EntityScheduledWorkouts: {newRecord: func() Record { return &ScheduledWorkout{} }, dependsOn: []EntityType{EntityPrograms, EntityWorkoutTemplates}},
	EntityWorkoutSessions:   {newRecord: func() Record { return &WorkoutSession{} }},
	EntitySets:              {newRecord: func() Record { return &WorkoutSet{} }, dependsOn: []EntityType{EntityWorkoutSessions}},
	EntityPRHistory:         {newRecord: func() Record { return &PRHistory{} }, dependsOn: []EntityType{EntitySets}},
	EntityRuns:              {newRecord: func() Record { return &Run{} }},
	EntityReadinessScores:   {newRecord: func() Record { return &ReadinessScore{} }},
	EntityInjuryLogs:        {newRecord: func() Record { return &InjuryLog{} }},
	EntityBadges:            {newRecord: func() Record { return &Badge{} }},
	EntityStreaks:           {newRecord: func() Record { return &Streak{} }},
	EntityMessages:          {newRecord: func() Record { return &ChatMessage{} }},
}

// AllEntityTypes возвращает все сущности в порядке регистрации.
func AllEntityTypes() []EntityType {
	out := make([]EntityType, len(registryOrder))
	copy(out, registryOrder)
	return out
}

// ParseEntityType проверяет имя таблицы.
func ParseEntityType(name string) (EntityType, error) {
	e := EntityType(name)
	if _, ok := registry[e]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return e, nil
}

// Valid reports whether e is one of the registered entity types.
func (e EntityType) Valid() bool {
	_, ok := registry[e]
	return ok
}

func (e EntityType) String() string {
	return string(e)
}

// DependsOn возвращает родительские сущности e.
func DependsOn(e EntityType) []EntityType {
	info, ok := registry[e]
	if !ok || len(info.dependsOn) == 0 {
		return nil
	}
	out := make([]EntityType, len(info.dependsOn))
	copy(out, info.dependsOn)
	return out
}

// New создает пустую запись указанного типа (для декодирования JSON).
func New(e EntityType) (Record, error) {
	info, ok := registry[e]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, e)
	}
	return info.newRecord(), nil
}
