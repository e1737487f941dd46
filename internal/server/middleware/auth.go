package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/fitsync/internal/server/handlers"
	"github.com/iudanet/fitsync/internal/server/jwt"
)

// TokenValidator проверяет access token
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена.
// Владелец токена кладется в контекст через handlers.WithUserID.
func AuthMiddleware(logger *slog.Logger, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				handlers.WriteError(w, logger, http.StatusUnauthorized, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.Warn("Invalid Authorization header format")
				handlers.WriteError(w, logger, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				handlers.WriteError(w, logger, http.StatusUnauthorized, "invalid token")
				return
			}

			r = r.WithContext(handlers.WithUserID(r.Context(), claims.UserID()))
			requestOwner(r)

			logger.Debug("User authenticated", "user_id", claims.UserID())

			next.ServeHTTP(w, r)
		})
	}
}
