package sync

import (
	"time"

	"github.com/iudanet/fitsync/internal/client/adapter"
	"github.com/iudanet/fitsync/internal/models"
)

// Summary итог одного прогона FullSync. Ошибки не возвращаются отдельно,
// все они собраны здесь.
type Summary struct {
	StartedAt  time.Time
	FinishedAt time.Time
	// Err причина прерывания прогона: нет авторизации, отмена контекста, паника
	Err      error
	UserID   string
	Entities []EntityOutcome
	// TotalUnsynced записей с synced=false после прогона
	TotalUnsynced int
	// Skipped прогон для пользователя уже идет, сетевых вызовов не было
	Skipped     bool
	NeedsReauth bool
}

// EntityOutcome результат по одной сущности
type EntityOutcome struct {
	Entity models.EntityType
	// Err ошибка вне адаптера: чтение курсора, ListDirty, паника
	Err  error
	Push adapter.PushResult
	Pull adapter.PullResult
}

// Failed true, если по сущности была любая ошибка
func (o *EntityOutcome) Failed() bool {
	return o.Err != nil || o.Push.Err != nil || o.Pull.Err != nil || o.Push.Failed > 0
}

// Pushed returns number of records acknowledged by the remote
func (s *Summary) Pushed() int {
	n := 0
	for _, o := range s.Entities {
		n += o.Push.Pushed
	}
	return n
}

// Superseded returns number of pushed records the remote already had in a newer version
func (s *Summary) Superseded() int {
	n := 0
	for _, o := range s.Entities {
		n += o.Push.Superseded
	}
	return n
}

// Pulled returns number of remote records applied locally
func (s *Summary) Pulled() int {
	n := 0
	for _, o := range s.Entities {
		n += o.Pull.Pulled
	}
	return n
}

// Failed returns number of records that were not pushed because of errors
func (s *Summary) Failed() int {
	n := 0
	for _, o := range s.Entities {
		n += o.Push.Failed
	}
	return n
}

// Errors собирает все ошибки прогона
func (s *Summary) Errors() []error {
	var errs []error
	if s.Err != nil {
		errs = append(errs, s.Err)
	}
	for _, o := range s.Entities {
		for _, err := range []error{o.Err, o.Push.Err, o.Pull.Err} {
			if err != nil {
				errs = append(errs, err)
			}
		}
		errs = append(errs, o.Push.Errors...)
	}
	return errs
}

// OK true, если прогон прошел целиком и без ошибок
func (s *Summary) OK() bool {
	if s.Skipped || s.NeedsReauth || s.Err != nil {
		return false
	}
	for i := range s.Entities {
		if s.Entities[i].Failed() {
			return false
		}
	}
	return true
}

// Duration returns how long the run took
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
