package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/fitsync/internal/client/remote"
	"github.com/iudanet/fitsync/internal/client/storage"
	"github.com/iudanet/fitsync/internal/conflict"
	"github.com/iudanet/fitsync/internal/models"
	"github.com/iudanet/fitsync/internal/validation"
	"github.com/iudanet/fitsync/pkg/api"
)

// recordPtr ограничение: PT это *T и реализует models.Record
type recordPtr[T any] interface {
	*T
	models.Record
}

// entityAdapter обобщенный адаптер таблицы с записями типа T
type entityAdapter[T any, PT recordPtr[T]] struct {
	deps   Deps
	logger *slog.Logger
	entity models.EntityType
	cfg    Config
}

// New создает адаптер для типа записи T
func New[T any, PT recordPtr[T]](deps Deps, cfg Config) EntityAdapter {
	entity := PT(new(T)).Entity()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &entityAdapter[T, PT]{
		deps:   deps,
		cfg:    cfg.withDefaults(),
		entity: entity,
		logger: logger.With("entity", string(entity)),
	}
}

func (a *entityAdapter[T, PT]) Entity() models.EntityType {
	return a.entity
}

func (a *entityAdapter[T, PT]) DependsOn() []models.EntityType {
	return models.DependsOn(a.entity)
}

func (a *entityAdapter[T, PT]) newRecord() PT {
	return PT(new(T))
}

func (a *entityAdapter[T, PT]) ListDirty(ctx context.Context, userID string) ([]models.Record, error) {
	rows, err := a.deps.Records.ListDirty(ctx, a.entity, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dirty %s: %w", a.entity, err)
	}

	now := a.deps.now()
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		if a.suppressed(ctx, row, now) {
			continue
		}

		rec := a.newRecord()
		if err := row.DecodeInto(rec); err != nil {
			// битый payload не исправится повтором
			m := rec.Base()
			m.ID, m.UserID, m.UpdatedAt = row.ID, row.UserID, row.UpdatedAt
			a.recordFailure(ctx, rec, err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func (a *entityAdapter[T, PT]) Push(ctx context.Context, userID string, records []models.Record) PushResult {
	var res PushResult
	if len(records) == 0 {
		return res
	}

	failing := a.knownFailures(ctx)

	ready := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if err := validation.ValidateRecord(rec); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err)
			a.recordFailure(ctx, rec, err)
			continue
		}

		state, ref, err := a.checkParents(ctx, rec)
		if err != nil {
			res.Err = fmt.Errorf("failed to check parents: %w", err)
			return res
		}
		switch state {
		case parentPending:
			res.Deferred++
			a.logger.Debug("Parent not confirmed remotely, deferring", "id", rec.Base().ID, "parent", ref.ID)
			continue
		case parentMissing:
			// ждать бесполезно: родителя нет на устройстве, запись уходит в учет ошибок
			err := fmt.Errorf("%w: %s %s", ErrMissingParent, ref.Entity, ref.ID)
			res.Failed++
			res.Errors = append(res.Errors, err)
			a.recordFailure(ctx, rec, err)
			continue
		}

		ready = append(ready, rec)
	}

	for start := 0; start < len(ready); start += a.cfg.PushBatchSize {
		end := min(start+a.cfg.PushBatchSize, len(ready))
		if err := a.pushBatch(ctx, ready[start:end], failing, &res); err != nil {
			res.Err = err
			// оставшиеся записи уйдут в следующем прогоне
			res.Failed += len(ready) - end
			break
		}
	}

	a.logger.Info("Push completed",
		"user_id", userID,
		"pushed", res.Pushed,
		"failed", res.Failed,
		"deferred", res.Deferred,
		"stale", res.Stale,
		"superseded", res.Superseded)

	return res
}

// pushBatch отправляет одну пачку. Ошибка означает, что дальше отправлять нельзя.
func (a *entityAdapter[T, PT]) pushBatch(ctx context.Context, batch []models.Record, failing map[string]bool, res *PushResult) error {
	payloads := make([]json.RawMessage, 0, len(batch))
	sendable := make([]models.Record, 0, len(batch))
	for _, rec := range batch {
		data, err := json.Marshal(rec)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err)
			a.recordFailure(ctx, rec, err)
			continue
		}
		payloads = append(payloads, data)
		sendable = append(sendable, rec)
	}
	if len(sendable) == 0 {
		return nil
	}

	results, err := a.deps.Remote.Upsert(ctx, a.entity, payloads)
	if err != nil {
		if remote.IsPermanent(err) && !remote.IsAuth(err) {
			// сервер отверг весь запрос: учитываем ошибку для каждой записи и идем дальше
			for _, rec := range sendable {
				a.recordFailure(ctx, rec, err)
			}
			res.Failed += len(sendable)
			res.Errors = append(res.Errors, err)
			return nil
		}
		res.Failed += len(sendable)
		return err
	}

	acked := make([]models.Record, 0, len(sendable))
	superseded := 0
	for i, rec := range sendable {
		id := rec.Base().ID
		result, ok := findResult(results, i, id)
		if !ok {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("%w: no result for %s", remote.ErrTransient, id))
			continue
		}

		if rerr := remote.ResultError(result); rerr != nil {
			res.Failed++
			res.Errors = append(res.Errors, rerr)
			if remote.IsPermanent(rerr) {
				a.recordFailure(ctx, rec, rerr)
			}
			continue
		}
		if result.Stale() {
			superseded++
		}
		acked = append(acked, rec)
	}

	if len(acked) == 0 {
		return nil
	}

	// один локальный tx на пачку: помечаем только то, что сервер подтвердил
	stale := 0
	err = a.deps.Records.InTx(ctx, func(tx storage.RecordTx) error {
		stale = 0
		for _, rec := range acked {
			m := rec.Base()
			flipped, err := tx.MarkSynced(ctx, a.entity, m.ID, m.UpdatedAt)
			if err != nil {
				return err
			}
			if !flipped {
				stale++
			}
		}
		return nil
	})
	if err != nil {
		res.Failed += len(acked)
		return fmt.Errorf("failed to mark %s batch synced: %w", a.entity, err)
	}

	res.Pushed += len(acked) - superseded
	res.Superseded += superseded
	res.Stale += stale

	for _, rec := range acked {
		id := rec.Base().ID
		if !failing[id] {
			continue
		}
		if err := a.deps.Failures.ClearFailure(ctx, a.entity, id); err != nil {
			a.logger.Warn("Failed to clear failure entry", "id", id, "error", err)
		}
	}

	return nil
}

// findResult берет результат по позиции, а если id не совпал, ищет по id
func findResult(results []api.RecordResult, i int, id string) (api.RecordResult, bool) {
	if i < len(results) && (results[i].ID == id || results[i].ID == "") {
		return results[i], true
	}
	for _, r := range results {
		if r.ID == id {
			return r, true
		}
	}
	return api.RecordResult{}, false
}

func (a *entityAdapter[T, PT]) knownFailures(ctx context.Context) map[string]bool {
	failures, err := a.deps.Failures.ListFailures(ctx, a.entity)
	if err != nil {
		a.logger.Warn("Failed to list failure entries", "error", err)
		return nil
	}
	ids := make(map[string]bool, len(failures))
	for _, f := range failures {
		ids[f.ID] = true
	}
	return ids
}

type parentState int

const (
	parentConfirmed parentState = iota
	parentPending               // родитель есть локально, но сервер его еще не подтвердил
	parentMissing               // родителя нет в локальном хранилище
)

// checkParents проверяет родителей записи перед отправкой.
// Для неподтвержденного родителя возвращается его ссылка.
func (a *entityAdapter[T, PT]) checkParents(ctx context.Context, rec models.Record) (parentState, models.ParentRef, error) {
	for _, ref := range rec.Parents() {
		if ref.ID == "" {
			continue
		}
		ok, err := a.deps.Records.IsRemotePresent(ctx, ref.Entity, ref.ID)
		if err != nil {
			return parentPending, ref, err
		}
		if ok {
			continue
		}

		_, err = a.deps.Records.GetRow(ctx, ref.Entity, ref.ID)
		switch {
		case errors.Is(err, storage.ErrRecordNotFound):
			return parentMissing, ref, nil
		case err != nil:
			return parentPending, ref, err
		}
		return parentPending, ref, nil
	}
	return parentConfirmed, models.ParentRef{}, nil
}

func (a *entityAdapter[T, PT]) Pull(ctx context.Context, userID string, since int64) PullResult {
	res := PullResult{Cursor: since}
	cursor := since

	for page := 0; page < a.cfg.MaxPullPages; page++ {
		resp, err := a.deps.Remote.Query(ctx, a.entity, userID, cursor, a.cfg.PullPageSize)
		if err != nil {
			res.Err = err
			break
		}
		res.Pages++
		if len(resp.Changes) == 0 {
			break
		}

		changes := a.decodePage(userID, resp.Changes, &res)

		outcome, err := a.applyPage(ctx, changes, cursor)
		if err != nil {
			// курсор не двигаем: страница будет получена заново
			res.Err = fmt.Errorf("failed to apply %s page: %w", a.entity, err)
			break
		}
		res.Pulled += outcome.applied
		res.Discarded += outcome.discarded
		res.Deferred += outcome.deferred

		if outcome.cursor > cursor {
			if err := a.deps.Cursors.SaveCursor(ctx, userID, a.entity, outcome.cursor); err != nil {
				res.Err = fmt.Errorf("failed to save cursor: %w", err)
				break
			}
			cursor = outcome.cursor
			res.Cursor = cursor
		} else if resp.HasMore && !outcome.blocked {
			// курсор не сдвинулся, следующая страница вернет то же самое
			a.logger.Warn("Pull cursor did not advance, stopping", "cursor", cursor)
			break
		}

		if outcome.blocked || !resp.HasMore {
			break
		}
	}

	if res.Err == nil {
		a.logger.Info("Pull completed",
			"user_id", userID,
			"pulled", res.Pulled,
			"discarded", res.Discarded,
			"deferred", res.Deferred,
			"cursor", res.Cursor)
	}

	return res
}

// remoteChange изменение со страницы pull; rec == nil для пропущенной записи
type remoteChange[PT any] struct {
	rec PT
	seq int64
}

// decodePage разбирает удалённые записи; некорректные и чужие пропускаются,
// но их seq остается на странице, чтобы курсор прошел мимо них
func (a *entityAdapter[T, PT]) decodePage(userID string, changes []api.Change, res *PullResult) []remoteChange[PT] {
	out := make([]remoteChange[PT], 0, len(changes))
	for _, ch := range changes {
		rec := a.newRecord()
		if err := json.Unmarshal(ch.Record, rec); err != nil {
			res.Skipped++
			a.logger.Warn("Skipping malformed remote record", "seq", ch.Seq, "error", err)
			out = append(out, remoteChange[PT]{seq: ch.Seq})
			continue
		}
		m := rec.Base()
		if m.ID == "" || m.UserID != userID {
			res.Skipped++
			a.logger.Warn("Skipping foreign remote record", "id", m.ID, "owner", m.UserID)
			out = append(out, remoteChange[PT]{seq: ch.Seq})
			continue
		}
		m.CreatedAt = models.Timestamp(m.CreatedAt)
		m.UpdatedAt = models.Timestamp(m.UpdatedAt)
		out = append(out, remoteChange[PT]{rec: rec, seq: ch.Seq})
	}
	return out
}

type pageOutcome struct {
	cursor    int64
	applied   int
	discarded int
	deferred  int
	blocked   bool
}

// applyPage применяет страницу в одной локальной транзакции.
// Курсор страницы не проходит дальше первой отложенной записи.
func (a *entityAdapter[T, PT]) applyPage(ctx context.Context, changes []remoteChange[PT], since int64) (pageOutcome, error) {
	var out pageOutcome

	err := a.deps.Records.InTx(ctx, func(tx storage.RecordTx) error {
		out = pageOutcome{cursor: since}

		for _, ch := range changes {
			if ch.rec == nil {
				out.advance(ch.seq)
				continue
			}
			m := ch.rec.Base()

			missing, err := a.missingParent(ctx, tx, ch.rec)
			if err != nil {
				return err
			}
			if missing {
				// запись придет снова со следующим запросом от того же курсора
				out.deferred++
				out.blocked = true
				continue
			}

			local, err := tx.GetRow(ctx, a.entity, m.ID)
			if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
				return err
			}

			var localMeta *models.Meta
			if local != nil {
				localMeta = &models.Meta{UpdatedAt: local.UpdatedAt}
			}

			switch conflict.Resolve(localMeta, m) {
			case conflict.KeepLocal:
				// локальная копия новее: она должна уйти на сервер, даже если уже была synced
				out.discarded++
				if err := tx.MarkDirty(ctx, a.entity, m.ID); err != nil {
					return err
				}
			default:
				row, err := storage.RowFromRecord(ch.rec)
				if err != nil {
					return err
				}
				if err := tx.ApplyRemote(ctx, row); err != nil {
					return err
				}
				out.applied++
			}

			out.advance(ch.seq)
		}
		return nil
	})

	return out, err
}

// advance двигает курсор страницы, пока не встретилась отложенная запись
func (o *pageOutcome) advance(seq int64) {
	if !o.blocked && seq > o.cursor {
		o.cursor = seq
	}
}

func (a *entityAdapter[T, PT]) missingParent(ctx context.Context, tx storage.RecordTx, rec models.Record) (bool, error) {
	for _, ref := range rec.Parents() {
		if ref.ID == "" {
			continue
		}
		ok, err := tx.Exists(ctx, ref.Entity, ref.ID)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
	}
	return false, nil
}
