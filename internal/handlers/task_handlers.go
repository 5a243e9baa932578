package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tareasSync/internal/logger"
	"tareasSync/internal/middleware"
	"tareasSync/internal/models/task"
	"tareasSync/internal/naming"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
	SyncService SyncService
}

func NewTaskHandler(taskService TaskService, syncService SyncService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
		SyncService: syncService,
	}
}

func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	tasks, err := s.TaskService.ListTasks(r.Context(), ownerID)
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}
	if tasks == nil {
		tasks = make([]*task.Task, 0)
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int64("owner_id", ownerID),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, tasks)
}

func (s *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	record, ok := readRecord(w, r)
	if !ok {
		return
	}

	draft, err := task.DraftFromMap(record)
	if err != nil {
		handleFieldError(w, r, err)
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), ownerID, draft)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithValue(w, http.StatusCreated, created)
}

func (s *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	record, ok := readRecord(w, r)
	if !ok {
		return
	}

	draft, err := task.DraftFromMap(record)
	if err != nil {
		handleFieldError(w, r, err)
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), ownerID, id, draft)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithValue(w, http.StatusOK, updated)
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	deleted, err := s.TaskService.DeleteTask(r.Context(), ownerID, id)
	if err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("message", "Задача удалена"),
		toPayload("tarea", deleted),
	)
}

// SyncTasks принимает массив задач клиента и возвращает {updatedTasks, conflicts}.
// Хотя бы одна некорректная запись отклоняет весь пакет с 400.
func (s *TaskHandler) SyncTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, r, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, r, http.StatusBadRequest, "неверное тело запроса")
		return
	}

	items, ok := naming.ToWire(body).([]any)
	if !ok {
		responseWithError(w, r, http.StatusBadRequest, "ожидается массив задач")
		return
	}

	records := make([]task.ClientTask, 0, len(items))
	for i, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			responseWithError(w, r, http.StatusBadRequest, fmt.Sprintf("запись %d: ожидается объект", i))
			return
		}

		clientTask, err := task.ParseClientTask(record)
		if err != nil {
			logger.Warn("HTTP: Некорректная запись синхронизации",
				zap.Int("index", i),
				zap.Error(err))
			handleFieldError(w, r, err)
			return
		}
		records = append(records, clientTask)
	}

	result, err := s.SyncService.Sync(r.Context(), ownerID, records)
	if err != nil {
		handleServiceError(w, r, err, "sync_tasks")
		return
	}

	logger.Info("HTTP_OUT: Синхронизация выполнена",
		zap.Int64("owner_id", ownerID),
		zap.Int("records", len(records)),
		zap.Int("updated", len(result.UpdatedTasks)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Duration("ms", time.Since(start)))

	responseWithValue(w, http.StatusOK, result)
}

func ownerFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok || ownerID <= 0 {
		responseWithError(w, r, http.StatusUnauthorized, "Требуется токен доступа")
		return 0, false
	}
	return ownerID, true
}

func taskIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, r, http.StatusBadRequest, "неверный id задачи")
		return 0, false
	}
	return id, true
}

// readRecord тело запроса как запись с wire-ключами, допускаются оба соглашения об именах.
func readRecord(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, r, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return nil, false
	}

	body, err := decodeBody(r)
	if err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, r, http.StatusBadRequest, "неверное тело запроса")
		return nil, false
	}

	record, ok := naming.ToWire(body).(map[string]any)
	if !ok {
		responseWithError(w, r, http.StatusBadRequest, "ожидается объект задачи")
		return nil, false
	}
	return record, true
}
