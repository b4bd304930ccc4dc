package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/smartnlp/internal/server/handlers"
)

var (
	errMissingToken = errors.New("missing token")
	errTokenFormat  = errors.New("invalid token format")
)

// TokenVerifier проверяет bearer токен и возвращает user_id
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// RequireAuth создает middleware, пропускающее только запросы с валидным JWT
func RequireAuth(logger *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := bearerToken(r)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized request", slog.String("path", r.URL.Path), slog.Any("error", err))
				writeError(logger, w, err.Error(), http.StatusUnauthorized)
				return
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				logger.WarnContext(ctx, "invalid access token", slog.Any("error", err))
				writeError(logger, w, "invalid token", http.StatusUnauthorized)
				return
			}

			logger.DebugContext(ctx, "user authenticated", slog.String("user_id", userID))
			annotateUser(ctx, userID)

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, userID, token)))
		})
	}
}

// OptionalAuth создает middleware, которое определяет пользователя, если
// передан валидный токен. Отсутствующий или невалидный токен не ошибка:
// запрос обрабатывается анонимно.
func OptionalAuth(logger *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				logger.DebugContext(r.Context(), "ignoring invalid optional token", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			annotateUser(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(handlers.WithUser(r.Context(), userID, token)))
		})
	}
}

// bearerToken извлекает токен из заголовка "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errTokenFormat
	}

	return strings.TrimSpace(parts[1]), nil
}
