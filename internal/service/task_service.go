package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tareasSync/internal/logger"
	"tareasSync/internal/models/task"
	"tareasSync/internal/repository"

	"go.uber.org/zap"
)

type TaskService struct {
	repo   TaskRepository
	dbType string
	now    Clock
}

func NewTaskService(repo TaskRepository, dbType string, clock Clock) *TaskService {
	if clock == nil {
		clock = time.Now
	}
	return &TaskService{
		repo:   repo,
		dbType: dbType,
		now:    clock,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *TaskService) DBType() string {
	return s.dbType
}

func (s *TaskService) DBStatus(ctx context.Context) (repository.DBStatus, error) {
	status, err := s.repo.Status(ctx)
	if err != nil {
		return status, fmt.Errorf("статус БД: %w", err)
	}
	return status, nil
}

type SchemaReport struct {
	Columns      []repository.ColumnInfo
	TotalRecords int64
}

func (s *TaskService) Schema(ctx context.Context) (SchemaReport, error) {
	var report SchemaReport

	columns, err := s.repo.Schema(ctx)
	if err != nil {
		return report, fmt.Errorf("схема: %w", err)
	}
	counts, err := s.repo.Count(ctx)
	if err != nil {
		return report, fmt.Errorf("подсчёт задач: %w", err)
	}

	report.Columns = columns
	report.TotalRecords = counts.Active + counts.Deleted
	return report, nil
}

// ListTasks активные задачи владельца по возрастанию id.
func (s *TaskService) ListTasks(ctx context.Context, ownerID int64) ([]*task.Task, error) {
	tasks, err := s.repo.ListActive(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID int64, draft task.Draft) (*task.Task, error) {
	if err := requireText(draft.Name, "nombre"); err != nil {
		return nil, err
	}
	if err := requireText(draft.Description, "descripcion"); err != nil {
		return nil, err
	}

	newTask := newTaskFor(ownerID, s.now(), draft)
	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int64("task_id", newTask.ID), zap.Int64("owner_id", ownerID))
	return newTask, nil
}

// UpdateTask частичное обновление, отсутствующие поля не меняются.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, id int64, draft task.Draft) (*task.Task, error) {
	if draft.Name.Set {
		if err := requireText(draft.Name, "nombre"); err != nil {
			return nil, err
		}
	}
	if draft.Description.Set {
		if err := requireText(draft.Description, "descripcion"); err != nil {
			return nil, err
		}
	}

	var updated *task.Task
	err := s.repo.InTx(ctx, func(store repository.TaskStore) error {
		stored, err := store.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if stored.Deleted {
			return repository.ErrNotFound
		}

		stored.Apply(draft.Options()...)
		stored.UpdatedAt = nextStamp(s.now(), stored.UpdatedAt)

		if err := store.Update(ctx, stored); err != nil {
			return err
		}
		updated = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(ResourceTask, id)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	return updated, nil
}

// DeleteTask мягкое удаление, возвращает задачу после удаления.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, id int64) (*task.Task, error) {
	var deleted *task.Task
	err := s.repo.InTx(ctx, func(store repository.TaskStore) error {
		stored, err := store.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if stored.Deleted {
			return repository.ErrNotFound
		}

		now := s.now()
		deleted, err = store.SoftDelete(ctx, ownerID, id, now.UTC(), nextStamp(now, stored.UpdatedAt))
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(ResourceTask, id)
		}
		return nil, fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.Int64("task_id", id), zap.Int64("owner_id", ownerID))
	return deleted, nil
}

// newTaskFor задача с серверными значениями по умолчанию, поверх которых применяется draft.
func newTaskFor(ownerID int64, now time.Time, draft task.Draft) *task.Task {
	t := &task.Task{
		AssignedDate: now.Format(task.DateLayout),
		AssignedTime: now.Format(task.TimeLayout),
		Priority:     task.PriorityMedium,
		OwnerID:      ownerID,
		UpdatedAt:    now.UnixMilli(),
	}
	t.Apply(draft.Options()...)
	return t
}

func requireText(v task.Opt[string], field string) error {
	if !v.Set || strings.TrimSpace(v.Value) == "" {
		return NewValidationError(field, "обязательное поле")
	}
	return nil
}
