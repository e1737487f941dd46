// Package inbox принимает записи, которые внешние источники (импорт из
// health-приложений, голосовой ввод) складывают в каталог в виде JSON файлов.
package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/iudanet/fitsync/internal/client/data"
	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/validation"
)

const (
	processedDir = "processed"
	rejectedDir  = "rejected"

	// DefaultDebounce пауза после последнего события перед обработкой файлов
	DefaultDebounce = 500 * time.Millisecond
)

// ErrBadEnvelope файл не является корректным конвертом
var ErrBadEnvelope = errors.New("malformed inbox envelope")

// errMoveFailed запись импортирована, но файл не удалось убрать из каталога
var errMoveFailed = errors.New("failed to move imported file")

// Envelope формат файла во входящем каталоге
type Envelope struct {
	Entity models.EntityType `json:"entity"`
	Record json.RawMessage   `json:"record"`
}

// Importer сохраняет запись локально
type Importer interface {
	Import(ctx context.Context, userID string, entity models.EntityType, raw json.RawMessage) (models.Record, error)
}

// UserSource текущий пользователь
type UserSource interface {
	UserID(ctx context.Context) (string, error)
}

// Result итог обработки каталога
type Result struct {
	Imported int
	Rejected int
	Deferred int // Deferred файл оставлен до следующей попытки (нет сессии, ошибка хранилища)
}

// Inbox следит за каталогом и импортирует новые файлы
type Inbox struct {
	importer Importer
	users    UserSource
	logger   *slog.Logger
	dir      string
	debounce time.Duration
}

// New создает inbox и подкаталоги processed/ и rejected/
func New(dir string, importer Importer, users UserSource, debounce time.Duration, logger *slog.Logger) (*Inbox, error) {
	for _, d := range []string{dir, filepath.Join(dir, processedDir), filepath.Join(dir, rejectedDir)} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create inbox directory %s: %w", d, err)
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Inbox{
		importer: importer,
		users:    users,
		logger:   logger.With("inbox", dir),
		dir:      dir,
		debounce: debounce,
	}, nil
}

// Dir returns the watched directory
func (in *Inbox) Dir() string {
	return in.dir
}

// Run обрабатывает уже лежащие файлы и следит за новыми, пока не отменен ctx
func (in *Inbox) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(in.dir); err != nil {
		return fmt.Errorf("failed to watch inbox directory %s: %w", in.dir, err)
	}

	if _, err := in.ProcessPending(ctx); err != nil {
		in.logger.Warn("Initial inbox scan failed", "error", err)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(in.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !in.relevant(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			// файл может еще дописываться: ждем тишины
			timer.Reset(in.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			in.logger.Warn("Inbox watcher error", "error", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)

			res := in.processPaths(ctx, paths)
			in.logResult(res)
		}
	}
}

func (in *Inbox) relevant(event fsnotify.Event) bool {
	if !isEnvelopeName(event.Name) || filepath.Dir(event.Name) != filepath.Clean(in.dir) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}

func isEnvelopeName(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".json") && !strings.HasPrefix(base, ".")
}

// ProcessPending импортирует все файлы, которые сейчас лежат в каталоге
func (in *Inbox) ProcessPending(ctx context.Context) (Result, error) {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read inbox directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && isEnvelopeName(e.Name()) {
			paths = append(paths, filepath.Join(in.dir, e.Name()))
		}
	}

	res := in.processPaths(ctx, paths)
	in.logResult(res)
	return res, nil
}

func (in *Inbox) processPaths(ctx context.Context, paths []string) Result {
	var res Result
	for _, path := range paths {
		if ctx.Err() != nil {
			res.Deferred++
			continue
		}
		switch err := in.processFile(ctx, path); {
		case err == nil:
			res.Imported++
		case errors.Is(err, errMoveFailed):
			res.Deferred++
			in.logger.Warn("Inbox file left in place", "file", filepath.Base(path), "error", err)
		case errors.Is(err, os.ErrNotExist):
			// файл уже обработан или удален
		case permanent(err):
			res.Rejected++
			in.reject(path, err)
		default:
			res.Deferred++
			in.logger.Warn("Inbox file deferred", "file", filepath.Base(path), "error", err)
		}
	}
	return res
}

func (in *Inbox) processFile(ctx context.Context, path string) error {
	userID, err := in.users.UserID(ctx)
	if err != nil {
		return fmt.Errorf("no user to import for: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %w", ErrBadEnvelope, err)
	}
	if len(env.Record) == 0 {
		return fmt.Errorf("%w: record is empty", ErrBadEnvelope)
	}

	rec, err := in.importer.Import(ctx, userID, env.Entity, env.Record)
	if err != nil {
		return err
	}

	if err := os.Rename(path, filepath.Join(in.dir, processedDir, filepath.Base(path))); err != nil {
		// файл будет прочитан снова: с id внутри повтор обновит запись, а не создаст вторую
		if werr := pinRecordID(path, env, rec); werr != nil {
			in.logger.Error("Failed to write record id back to inbox file",
				"file", filepath.Base(path),
				"id", rec.Base().ID,
				"error", werr)
		}
		return fmt.Errorf("%w: %w", errMoveFailed, err)
	}
	in.logger.Info("Inbox record imported",
		"file", filepath.Base(path),
		"entity", env.Entity,
		"id", rec.Base().ID)
	return nil
}

// pinRecordID перезаписывает конверт сохраненной записью, включая выданный id
func pinRecordID(path string, env Envelope, rec models.Record) error {
	record, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	env.Record = record
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// permanent ошибки, которые не исправятся повтором того же файла
func permanent(err error) bool {
	return errors.Is(err, ErrBadEnvelope) ||
		errors.Is(err, validation.ErrInvalidRecord) ||
		errors.Is(err, models.ErrUnknownEntity) ||
		errors.Is(err, data.ErrForeignRecord) ||
		errors.Is(err, data.ErrRecordExists)
}

// reject переносит файл в rejected/ и пишет рядом причину
func (in *Inbox) reject(path string, cause error) {
	name := filepath.Base(path)
	target := filepath.Join(in.dir, rejectedDir, name)

	if err := os.Rename(path, target); err != nil {
		in.logger.Warn("Failed to move rejected file", "file", name, "error", err)
		return
	}
	if err := os.WriteFile(target+".error", []byte(cause.Error()+"\n"), 0o600); err != nil {
		in.logger.Warn("Failed to write rejection reason", "file", name, "error", err)
	}
	in.logger.Warn("Inbox file rejected", "file", name, "error", cause)
}

func (in *Inbox) logResult(res Result) {
	if res == (Result{}) {
		return
	}
	in.logger.Info("Inbox processed",
		"imported", res.Imported,
		"rejected", res.Rejected,
		"deferred", res.Deferred)
}
