// Package conflict реализует разрешение конфликтов Last-Write-Wins
// между локальной и удалённой копией одной записи.
package conflict

import (
	"github.com/iudanet/fitsync/internal/models"
)

// Decision результат сравнения локальной и удалённой копии.
type Decision int

const (
	// TakeRemote удалённая копия заменяет локальную, запись становится synced
	TakeRemote Decision = iota
	// KeepLocal локальная копия новее, остаётся dirty и уйдёт на следующем push
	KeepLocal
)

func (d Decision) String() string {
	switch d {
	case TakeRemote:
		return "take_remote"
	case KeepLocal:
		return "keep_local"
	default:
		return "unknown"
	}
}

// Resolve решает, какая копия побеждает.
// local == nil означает, что локальной записи нет.
// Локальная побеждает только если её updated_at строго больше:
// при равенстве берём удалённую, она совпадает с тем, что мы уже отправили.
func Resolve(local, remote *models.Meta) Decision {
	if local == nil {
		return TakeRemote
	}
	if local.IsNewerThan(remote) {
		return KeepLocal
	}
	return TakeRemote
}
