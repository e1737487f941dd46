package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/fitsync/internal/server/handlers"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the number of bytes written
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// LoggingMiddleware логирует каждый запрос: метод, путь, шаблон маршрута, статус,
// длительность, размер ответа и владельца токена. Заголовки и тела не логируются.
// Пути из skipPaths (health check) пропускаются.
func LoggingMiddleware(logger *slog.Logger, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			// owner кладет AuthMiddleware ниже по цепочке, поэтому читаем его после
			var owner string
			next.ServeHTTP(wrapped, r.WithContext(withOwnerSlot(r.Context(), &owner)))

			level := slog.LevelInfo
			if wrapped.statusCode >= 500 {
				level = slog.LevelError
			} else if wrapped.statusCode >= 400 {
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_written", wrapped.written,
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				attrs = append(attrs, "route", rctx.RoutePattern())
			}
			if owner != "" {
				attrs = append(attrs, "user_id", owner)
			}

			logger.Log(r.Context(), level, "HTTP request", attrs...)
		})
	}
}

type ownerSlotKey struct{}

func withOwnerSlot(ctx context.Context, slot *string) context.Context {
	return context.WithValue(ctx, ownerSlotKey{}, slot)
}

// requestOwner переносит владельца из AuthMiddleware обратно в LoggingMiddleware
func requestOwner(r *http.Request) {
	slot, ok := r.Context().Value(ownerSlotKey{}).(*string)
	if !ok {
		return
	}
	if userID, ok := handlers.GetUserID(r.Context()); ok {
		*slot = userID
	}
}
