package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"tareasSync/internal/auth"
	"tareasSync/internal/logger"

	"go.uber.org/zap"
)

const UserIDKey contextKey = "user_id"

type TokenVerifier interface {
	Parse(raw string) (*auth.Claims, error)
}

// Auth нет токена - 401, токен не прошёл проверку - 403.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeAuthError(w, r, http.StatusUnauthorized, "Требуется токен доступа")
				return
			}

			claims, err := verifier.Parse(token)
			if err != nil {
				logger.Warn("HTTP: Недействительный токен",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))
				writeAuthError(w, r, http.StatusForbidden, "Недействительный или просроченный токен")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// GetUserID id владельца, установленный Auth.
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}

// WithUserID кладёт id пользователя в контекст.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func writeAuthError(w http.ResponseWriter, r *http.Request, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error":      message,
		"request_id": GetRequestID(r.Context()),
	})
}
