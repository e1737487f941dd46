package remote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iudanet/fitsync/pkg/api"
)

// Классы ошибок удалённого хранилища. Проверяются через errors.Is.
var (
	// ErrUnauthorized нет учетных данных или сервер их отверг: прогон синхронизации прерывается
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermanent запрос или запись некорректны, повтор без изменений бесполезен
	ErrPermanent = errors.New("permanent remote error")

	// ErrTransient сеть, таймаут, 5xx или 429: можно повторить позже
	ErrTransient = errors.New("transient remote error")
)

// StatusError ответ сервера с кодом не 2xx
type StatusError struct {
	kind       error
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// classifyStatus относит HTTP статус к одному из классов ошибок
func classifyStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500:
		return ErrTransient
	default:
		return ErrPermanent
	}
}

// RecordError ошибка отдельной записи в ответе upsert
type RecordError struct {
	kind    error
	ID      string
	Status  string
	Message string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s rejected (%s): %s", e.ID, e.Status, e.Message)
}

func (e *RecordError) Unwrap() error {
	return e.kind
}

// ResultError превращает результат записи в ошибку; nil для принятой записи,
// в том числе вытесненной более новой версией (stale).
// Неизвестный статус считается временной ошибкой.
func ResultError(r api.RecordResult) error {
	switch r.Status {
	case api.ResultOK, api.ResultStale:
		return nil
	case api.ResultValidation, api.ResultForbidden:
		return &RecordError{kind: ErrPermanent, ID: r.ID, Status: r.Status, Message: r.Message}
	default:
		return &RecordError{kind: ErrTransient, ID: r.ID, Status: r.Status, Message: r.Message}
	}
}

// IsAuth reports whether err must abort the whole sync run
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsPermanent reports whether retrying err without changes is pointless
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent)
}
