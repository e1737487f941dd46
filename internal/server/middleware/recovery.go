package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/fitsync/internal/server/handlers"
)

// RecoveryMiddleware перехватывает panic, логирует стек и отвечает 500 в формате api.ErrorResponse.
// http.ErrAbortHandler пробрасывается дальше: так net/http обрывает соединение.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("Panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"stack", string(debug.Stack()),
				)

				// детали паники клиенту не отдаем
				handlers.WriteError(w, logger, http.StatusInternalServerError, "")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
