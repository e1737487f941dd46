// Package remote HTTP клиент облачного хранилища записей:
// upsert по id и выборка записей новее курсора, с повторами и классификацией ошибок.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/pkg/api"
)

//go:generate moq -out store_mock.go . Store

// Store контракт удалённого хранилища, которым пользуются адаптеры
type Store interface {
	// Upsert вставляет или обновляет записи по id. Результаты идут в порядке records.
	// Запись старее сохраненной не применяется и получает статус stale.
	Upsert(ctx context.Context, table models.EntityType, records []json.RawMessage) ([]api.RecordResult, error)

	// Query возвращает изменения пользователя с номером строго больше afterSeq,
	// по возрастанию seq
	Query(ctx context.Context, table models.EntityType, userID string, afterSeq int64, limit int) (*api.QueryResponse, error)
}

//go:generate moq -out credential_mock.go . CredentialSource

// CredentialSource выдает bearer token для текущего пользователя.
// Любая ошибка трактуется как отсутствие авторизации.
type CredentialSource interface {
	Credential(ctx context.Context) (string, error)
}

// Options настройки клиента
type Options struct {
	Timeout       time.Duration // Timeout таймаут одного HTTP запроса
	RetryBase     time.Duration // RetryBase первая пауза экспоненциального backoff
	RetryMaxDelay time.Duration // RetryMaxDelay потолок паузы
	MaxRetries    uint64        // MaxRetries число повторов после первой попытки
}

// DefaultOptions значения по умолчанию
func DefaultOptions() Options {
	return Options{
		Timeout:       30 * time.Second,
		RetryBase:     500 * time.Millisecond,
		RetryMaxDelay: 10 * time.Second,
		MaxRetries:    3,
	}
}

// Client представляет HTTP клиент удалённого хранилища
type Client struct {
	httpClient *http.Client
	creds      CredentialSource
	logger     *slog.Logger
	baseURL    string
	opts       Options
}

var _ Store = (*Client)(nil)

// NewClient создает новый клиент
func NewClient(baseURL string, creds CredentialSource, opts Options, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = DefaultOptions().RetryBase
	}
	if opts.RetryMaxDelay <= 0 {
		opts.RetryMaxDelay = DefaultOptions().RetryMaxDelay
	}

	return &Client{
		baseURL: baseURL,
		creds:   creds,
		opts:    opts,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Upsert отправляет записи в таблицу
func (c *Client) Upsert(ctx context.Context, table models.EntityType, records []json.RawMessage) ([]api.RecordResult, error) {
	if len(records) == 0 {
		return nil, nil
	}

	var resp api.UpsertResponse
	path := fmt.Sprintf("/api/v1/tables/%s/upsert", url.PathEscape(string(table)))
	if err := c.doRequest(ctx, http.MethodPost, path, api.UpsertRequest{Records: records}, &resp); err != nil {
		return nil, fmt.Errorf("upsert %s failed: %w", table, err)
	}

	return resp.Results, nil
}

// Query выбирает изменения пользователя после afterSeq
func (c *Client) Query(ctx context.Context, table models.EntityType, userID string, afterSeq int64, limit int) (*api.QueryResponse, error) {
	params := url.Values{}
	params.Set("user_id", userID)
	if afterSeq > 0 {
		params.Set("after_seq", strconv.FormatInt(afterSeq, 10))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp api.QueryResponse
	path := fmt.Sprintf("/api/v1/tables/%s/records?%s", url.PathEscape(string(table)), params.Encode())
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("query %s failed: %w", table, err)
	}

	return &resp, nil
}

func (c *Client) backoff() retry.Backoff {
	b := retry.NewExponential(c.opts.RetryBase)
	b = retry.WithJitterPercent(20, b)
	b = retry.WithCappedDuration(c.opts.RetryMaxDelay, b)
	return retry.WithMaxRetries(c.opts.MaxRetries, b)
}

// doRequest выполняет HTTP запрос с повторами для временных ошибок
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	token, err := c.creds.Credential(ctx)
	if err != nil {
		// fail closed: без токена в сеть не ходим
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	attempt := 0
	return retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		err := c.do(ctx, method, path, token, payload, result)
		if err != nil && errors.Is(err, ErrTransient) {
			c.logger.Debug("Remote call failed, will retry",
				"method", method,
				"path", path,
				"attempt", attempt,
				"error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) do(ctx context.Context, method, path, token string, payload []byte, result any) error {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", ErrTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrTransient, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(respBody)
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			msg = errResp.Error
			if errResp.Message != "" {
				msg += ": " + errResp.Message
			}
		}
		return &StatusError{kind: classifyStatus(resp.StatusCode), StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %w", ErrPermanent, err)
		}
	}

	return nil
}
