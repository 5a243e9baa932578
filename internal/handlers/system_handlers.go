package handlers

import (
	"errors"
	"net/http"
	"time"

	"tareasSync/internal/logger"
	"tareasSync/internal/middleware"
	"tareasSync/internal/naming"

	"go.uber.org/zap"
)

const serviceName = "tareas-sync"

var errNoDatabase = errors.New("нет соединения с базой данных")

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.Request(zap.DebugLevel, r, middleware.GetRequestID(r.Context()), "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Warn("HTTP: Health check не пройден", zap.Error(err))
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
	)
}

// DBStatus проверка соединения: время сервера БД и версия.
func (s *TaskHandler) DBStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.TaskService.DBStatus(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка подключения к БД", err)
		responseWithJSON(w, http.StatusInternalServerError,
			toPayload("status", "error"),
			toPayload("database_type", s.TaskService.DBType()),
			toPayload("error", errNoDatabase.Error()),
			toPayload("message", "Не удалось подключиться к базе данных"),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "connected"),
		toPayload("database_type", s.TaskService.DBType()),
		toPayload("connection_time", status.Now.Format(time.RFC3339)),
		toPayload("database_version", status.Version),
		toPayload("message", "Соединение с базой данных установлено"),
	)
}

// DebugConversion показывает тело запроса в обоих соглашениях об именах.
func (s *TaskHandler) DebugConversion(w http.ResponseWriter, r *http.Request) {
	logger.Request(zap.InfoLevel, r, middleware.GetRequestID(r.Context()), "HTTP: Отладка преобразования ключей")

	body, err := decodeBody(r)
	if err != nil {
		responseWithError(w, r, http.StatusBadRequest, "неверное тело запроса")
		return
	}

	camel := naming.ToWire(body)
	responseWithJSON(w, http.StatusOK,
		toPayload("original", body),
		toPayload("camelCase", camel),
		toPayload("snakeCase", naming.ToStorage(camel)),
	)
}

// DebugSchema колонки таблицы задач и общее число записей.
func (s *TaskHandler) DebugSchema(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	report, err := s.TaskService.Schema(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "debug_schema")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("schema", report.Columns),
		toPayload("totalRecords", report.TotalRecords),
		toPayload("userId", ownerID),
	)
}
