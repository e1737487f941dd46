// Package session хранит учетные данные, переданные внешним auth-провайдером,
// и выдает их клиенту удалённого хранилища. Без сессии работа запрещена.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/fitsync/internal/client/remote"
	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/validation"
)

// ErrNoCredential нет сессии или срок токена истек
var ErrNoCredential = errors.New("no credential available")

// Service управляет текущей сессией
type Service struct {
	storage storage.SessionStorage
	logger  *slog.Logger
	now     func() time.Time
}

var _ remote.CredentialSource = (*Service)(nil)

// NewService создает сервис сессии
func NewService(st storage.SessionStorage, logger *slog.Logger) *Service {
	return &Service{
		storage: st,
		logger:  logger,
		now:     time.Now,
	}
}

// Login сохраняет сессию, выданную auth-провайдером.
// expiresAt нулевой означает токен без срока действия.
func (s *Service) Login(ctx context.Context, userID, accessToken string, expiresAt time.Time) error {
	if err := validation.ValidateUserID(userID); err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	if accessToken == "" {
		return fmt.Errorf("access token cannot be empty")
	}

	session := &storage.Session{
		UserID:      userID,
		AccessToken: accessToken,
	}
	if !expiresAt.IsZero() {
		session.ExpiresAt = expiresAt.Unix()
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("Session stored", "user_id", userID)
	return nil
}

// Logout удаляет локальную сессию
func (s *Service) Logout(ctx context.Context) error {
	if err := s.storage.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Current возвращает действующую сессию или ErrNoCredential
func (s *Service) Current(ctx context.Context) (*storage.Session, error) {
	session, err := s.storage.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNoCredential
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.AccessToken == "" {
		return nil, ErrNoCredential
	}
	if session.ExpiresAt > 0 && s.now().Unix() >= session.ExpiresAt {
		return nil, fmt.Errorf("%w: token expired", ErrNoCredential)
	}

	return session, nil
}

// Credential implements remote.CredentialSource
func (s *Service) Credential(ctx context.Context) (string, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}

// UserID returns the user of the current session
func (s *Service) UserID(ctx context.Context) (string, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

// IsAuthenticated checks if a usable session exists
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := s.Current(ctx)
	if errors.Is(err, ErrNoCredential) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
