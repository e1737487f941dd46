package models

import "time"

// Meta общие поля каждой записи.
// Synced существует только локально и никогда не уходит на сервер.
type Meta struct {
	CreatedAt time.Time `json:"created_at"` // CreatedAt время создания записи (UTC, миллисекунды)
	UpdatedAt time.Time `json:"updated_at"` // UpdatedAt время последнего локального изменения, ключ LWW
	ID        string    `json:"id"`         // ID клиентский UUID, не меняется за время жизни записи
	UserID    string    `json:"user_id"`    // UserID владелец записи
	Deleted   bool      `json:"deleted"`    // Deleted флаг soft delete
	Synced    bool      `json:"-"`          // Synced true после подтверждения сервером
}

// Base позволяет структурам со встроенной Meta реализовать Record.
func (m *Meta) Base() *Meta {
	return m
}

// IsNewerThan returns true if m was updated strictly after other.
func (m *Meta) IsNewerThan(other *Meta) bool {
	return m.UpdatedAt.After(other.UpdatedAt)
}

// ParentRef ссылка записи на родителя. Пустой ID означает отсутствие родителя.
type ParentRef struct {
	Entity EntityType
	ID     string
}

// Record общий интерфейс всех двенадцати сущностей.
type Record interface {
	Base() *Meta
	Entity() EntityType
	Parents() []ParentRef
}

// Timestamp приводит время к виду, в котором оно хранится: UTC, точность миллисекунда.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FromMillis converts unix milliseconds back to a UTC time.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// ToMillis converts t to unix milliseconds; zero time maps to 0.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
