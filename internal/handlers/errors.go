package handlers

import (
	"errors"
	"net/http"

	"tareasSync/internal/logger"
	"tareasSync/internal/middleware"
	"tareasSync/internal/models/task"
	"tareasSync/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, r *http.Request, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}
	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
		toPayload("request_id", middleware.GetRequestID(r.Context())),
	)
	return true
}

// handleServiceError бизнес-ошибка отдаётся как есть, остальное 500 без подробностей.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, r, err) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, r, http.StatusInternalServerError, "Внутренняя ошибка сервера")
}

// handleFieldError некорректная запись во входных данных.
func handleFieldError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *task.FieldError
	if errors.As(err, &fieldErr) {
		handleBusinessError(w, r, service.NewValidationError(fieldErr.Field, fieldErr.Reason))
		return
	}
	handleBusinessError(w, r, service.NewBusinessError(service.CodeValidation, err.Error()))
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeEmailTaken:
		return http.StatusBadRequest
	case service.CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
