// Package scheduler запускает синхронизацию по таймеру и по запросу
// и отдает статус синхронизации для UI.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/client/sync"
	"github.com/iudanet/fitsync/internal/models"
)

// ErrNoSession нет активной сессии пользователя
var ErrNoSession = errors.New("not logged in")

// DefaultInterval период синхронизации по умолчанию
const DefaultInterval = 30 * time.Second

// Sessions источник текущего пользователя
type Sessions interface {
	UserID(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

// Config параметры планировщика
type Config struct {
	Interval time.Duration
	// RunOnStart запускает прогон сразу после Start
	RunOnStart bool
}

// Scheduler периодически вызывает FullSync, пока приложение на переднем плане
type Scheduler struct {
	sync     sync.Service
	sessions Sessions
	records  storage.RecordStorage
	failures storage.FailureStorage
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	nudge    chan struct{}
	entities []models.EntityType
	cfg      Config
	mu       gosync.Mutex

	foreground atomic.Bool
}

// New creates a scheduler. По умолчанию приложение считается на переднем плане.
func New(
	svc sync.Service,
	sessions Sessions,
	records storage.RecordStorage,
	failures storage.FailureStorage,
	cfg Config,
	logger *slog.Logger,
) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	s := &Scheduler{
		sync:     svc,
		sessions: sessions,
		records:  records,
		failures: failures,
		entities: models.AllEntityTypes(),
		logger:   logger,
		cfg:      cfg,
		nudge:    make(chan struct{}, 1),
	}
	s.foreground.Store(true)
	return s
}

// Start запускает таймер. Повторный вызов без Stop ничего не делает.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)

	if s.cfg.RunOnStart {
		s.trigger()
	}
	s.logger.Info("Sync scheduler started", "interval", s.cfg.Interval)
}

// Stop останавливает таймер и ждет завершения текущего прогона
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("Sync scheduler stopped")
}

// Running reports whether the timer is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// SetForeground переключает режим приложения. Возврат на передний план
// запускает внеочередной прогон.
func (s *Scheduler) SetForeground(foreground bool) {
	was := s.foreground.Swap(foreground)
	if foreground && !was {
		s.trigger()
	}
}

func (s *Scheduler) trigger() {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		case <-s.nudge:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.foreground.Load() {
		s.logger.Debug("App in background, skipping scheduled sync")
		return
	}

	userID, err := s.sessions.UserID(ctx)
	if err != nil {
		s.logger.Debug("No session, skipping scheduled sync", "error", err)
		return
	}

	summary := s.sync.FullSync(ctx, userID)
	if summary.NeedsReauth {
		s.logger.Warn("Scheduled sync needs re-authentication", "user_id", userID)
	}
}

// SyncNow запускает прогон немедленно через тот же single-flight
func (s *Scheduler) SyncNow(ctx context.Context) (*sync.Summary, error) {
	userID, err := s.sessions.UserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSession, err)
	}
	return s.sync.FullSync(ctx, userID), nil
}

// Logout останавливает таймер и удаляет сессию
func (s *Scheduler) Logout(ctx context.Context) error {
	s.Stop()

	if userID, err := s.sessions.UserID(ctx); err == nil {
		s.sync.Forget(userID)
	}

	if err := s.sessions.Logout(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}
