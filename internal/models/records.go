package models

import "time"

// WorkoutSession тренировка в зале.
type WorkoutSession struct {
	StartedAt  time.Time  `json:"started_at"`            // StartedAt начало тренировки
	EndedAt    *time.Time `json:"ended_at,omitempty"`    // EndedAt конец тренировки, nil пока идет
	Name       string     `json:"name"`                  // Name название, например "Push day"
	Notes      string     `json:"notes,omitempty"`       // Notes заметки пользователя
	TemplateID string     `json:"template_id,omitempty"` // TemplateID шаблон, по которому начата тренировка (информационно)
	Meta
}

func (*WorkoutSession) Entity() EntityType  { return EntityWorkoutSessions }
func (*WorkoutSession) Parents() []ParentRef { return nil }

// WorkoutSet отдельный подход внутри тренировки.
type WorkoutSet struct {
	SessionID string  `json:"session_id"`    // SessionID родительская тренировка
	Exercise  string  `json:"exercise"`      // Exercise нормализованное имя упражнения
	Meta
	WeightKg  float64 `json:"weight_kg"`     // WeightKg рабочий вес
	RPE       float64 `json:"rpe,omitempty"` // RPE субъективная нагрузка 1-10
	Reps      int     `json:"reps"`          // Reps количество повторений
	SetIndex  int     `json:"set_index"`     // SetIndex порядковый номер подхода в тренировке
}

func (*WorkoutSet) Entity() EntityType { return EntitySets }

func (s *WorkoutSet) Parents() []ParentRef {
	return []ParentRef{{Entity: EntityWorkoutSessions, ID: s.SessionID}}
}

// Run пробежка.
type Run struct {
	StartedAt       time.Time `json:"started_at"`
	RoutePolyline   string    `json:"route_polyline,omitempty"` // RoutePolyline закодированный трек GPS
	Meta
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds int64   `json:"duration_seconds"`
	AvgHeartRate    int     `json:"avg_heart_rate,omitempty"`
}

func (*Run) Entity() EntityType    { return EntityRuns }
func (*Run) Parents() []ParentRef { return nil }

// ReadinessScore ежедневная оценка готовности к нагрузке.
type ReadinessScore struct {
	Day       string `json:"day"` // Day дата в формате YYYY-MM-DD
	Meta
	SleepHours float64 `json:"sleep_hours"`
	HRV        float64 `json:"hrv,omitempty"`
	Score      int     `json:"score"` // Score итоговая оценка 0-100
}

func (*ReadinessScore) Entity() EntityType  { return EntityReadinessScores }
func (*ReadinessScore) Parents() []ParentRef { return nil }

// PRHistory личный рекорд. SetID может быть пустым, если рекорд внесён вручную.
type PRHistory struct {
	AchievedAt time.Time `json:"achieved_at"`
	Exercise   string    `json:"exercise"`
	SetID      string    `json:"set_id,omitempty"`
	Meta
	WeightKg     float64 `json:"weight_kg"`
	Estimated1RM float64 `json:"estimated_1rm"` // Estimated1RM оценка одноповторного максимума
	Reps         int     `json:"reps"`
}

func (*PRHistory) Entity() EntityType { return EntityPRHistory }

func (p *PRHistory) Parents() []ParentRef {
	return []ParentRef{{Entity: EntitySets, ID: p.SetID}}
}

// InjuryLog запись о травме или боли.
type InjuryLog struct {
	ReportedAt time.Time  `json:"reported_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	BodyPart   string     `json:"body_part"`
	Notes      string     `json:"notes,omitempty"`
	Meta
	Severity int `json:"severity"` // Severity 1-10
}

func (*InjuryLog) Entity() EntityType  { return EntityInjuryLogs }
func (*InjuryLog) Parents() []ParentRef { return nil }

// Badge полученная награда.
type Badge struct {
	EarnedAt time.Time `json:"earned_at"`
	Code     string    `json:"code"`
	Title    string    `json:"title"`
	Meta
}

func (*Badge) Entity() EntityType  { return EntityBadges }
func (*Badge) Parents() []ParentRef { return nil }

// Streak серия активностей подряд.
type Streak struct {
	LastActiveDay string `json:"last_active_day"` // LastActiveDay дата YYYY-MM-DD
	Kind          string `json:"kind"`            // Kind например "workout" или "run"
	Meta
	Current int `json:"current"`
	Longest int `json:"longest"`
}

func (*Streak) Entity() EntityType  { return EntityStreaks }
func (*Streak) Parents() []ParentRef { return nil }

// ChatMessage сообщение в чате с тренером.
type ChatMessage struct {
	SentAt time.Time `json:"sent_at"`
	Role   string    `json:"role"` // Role "user" или "coach"
	Body   string    `json:"body"`
	Meta
}

func (*ChatMessage) Entity() EntityType  { return EntityMessages }
func (*ChatMessage) Parents() []ParentRef { return nil }

// Program тренировочная программа.
type Program struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Meta
	Weeks int `json:"weeks"`
}

func (*Program) Entity() EntityType  { return EntityPrograms }
func (*Program) Parents() []ParentRef { return nil }

// WorkoutTemplate шаблон тренировки внутри программы.
type WorkoutTemplate struct {
	ProgramID string   `json:"program_id"`
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
	Meta
	DayIndex int `json:"day_index"`
}

func (*WorkoutTemplate) Entity() EntityType { return EntityWorkoutTemplates }

func (w *WorkoutTemplate) Parents() []ParentRef {
	return []ParentRef{{Entity: EntityPrograms, ID: w.ProgramID}}
}

// ScheduledWorkout тренировка, запланированная на конкретную дату.
type ScheduledWorkout struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	ProgramID    string    `json:"program_id"`
	TemplateID   string    `json:"template_id"`
	Meta
	Completed bool `json:"completed"`
}

func (*ScheduledWorkout) Entity() EntityType { return EntityScheduledWorkouts }

func (s *ScheduledWorkout) Parents() []ParentRef {
	return []ParentRef{
		{Entity: EntityPrograms, ID: s.ProgramID},
		{Entity: EntityWorkoutTemplates, ID: s.TemplateID},
	}
}
