package api

import "encoding/json"

// Коды результата для отдельной записи в ответе upsert
const (
	ResultOK = "ok"
	// ResultStale на сервере уже лежит более новая версия записи (по updated_at).
	// Отправленная копия принята к сведению и вытеснена, повторять ее не нужно.
	ResultStale      = "stale"
	ResultValidation = "validation" // постоянная ошибка: запись не проходит проверку
	ResultForbidden  = "forbidden"  // постоянная ошибка: запись принадлежит другому пользователю
	ResultInternal   = "internal"   // временная ошибка сервера, можно повторить
)

// UpsertRequest тело POST /api/v1/tables/{table}/upsert.
// Ключ конфликта всегда id записи.
type UpsertRequest struct {
	Records []json.RawMessage `json:"records"`
}

// RecordResult результат upsert одной записи
type RecordResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the record was stored
func (r RecordResult) OK() bool {
	return r.Status == ResultOK
}

// Stale reports whether the server kept a newer version instead
func (r RecordResult) Stale() bool {
	return r.Status == ResultStale
}

// UpsertResponse ответ upsert, результаты в порядке записей запроса
type UpsertResponse struct {
	Results []RecordResult `json:"results"`
}

// Change запись вместе с номером изменения на сервере.
// Seq растет с каждой принятой записью, по нему клиент двигает курсор pull.
type Change struct {
	Seq    int64           `json:"seq"`
	Record json.RawMessage `json:"record"`
}

// QueryResponse ответ GET /api/v1/tables/{table}/records?after_seq=.
// Изменения отсортированы по seq по возрастанию.
type QueryResponse struct {
	Changes []Change `json:"changes"`
	HasMore bool     `json:"has_more"`
}
