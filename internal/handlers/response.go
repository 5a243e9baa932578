package handlers

import (
	"encoding/json"
	"net/http"

	"tareasSync/internal/logger"
	"tareasSync/internal/middleware"

	"go.uber.org/zap"
)

// Payload одно поле JSON-объекта ответа.
type Payload struct {
	Key   string
	Value any
}

func toPayload(key string, value any) Payload {
	return Payload{Key: key, Value: value}
}

func collect(payloads []Payload) map[string]any {
	body := make(map[string]any, len(payloads))
	for _, pl := range payloads {
		body[pl.Key] = pl.Value
	}
	return body
}

func responseWithJSON(w http.ResponseWriter, code int, payloads ...Payload) {
	responseWithValue(w, code, collect(payloads))
}

// responseWithValue пишет готовое значение (массив задач, задачу, SyncResult).
func responseWithValue(w http.ResponseWriter, code int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		logger.Warn("HTTP: Не удалось записать тело ответа", zap.Int("status", code), zap.Error(err))
	}
}

// responseWithError тело ошибки в том же виде, что у middleware.Auth.
func responseWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	responseWithJSON(w, code,
		toPayload("error", message),
		toPayload("request_id", middleware.GetRequestID(r.Context())),
	)
}
