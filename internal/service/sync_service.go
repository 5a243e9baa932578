package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tareasSync/internal/logger"
	"tareasSync/internal/models/task"
	"tareasSync/internal/repository"

	"go.uber.org/zap"
)

// SyncStats итоги одного пакета синхронизации.
type SyncStats struct {
	Created   int
	Updated   int
	Deleted   int
	Conflicts int
	Skipped   int
	Unchanged int
	Duration  time.Duration
}

type SyncObserver interface {
	ObserveSync(stats SyncStats, err error)
}

type SyncService struct {
	repo          TaskRepository
	now           Clock
	reportMissing bool
	observer      SyncObserver
}

type SyncOption func(*SyncService)

// WithReportMissing вместо молчаливого пропуска idApi без совпадения
// добавляет конфликт NOT_FOUND.
func WithReportMissing(report bool) SyncOption {
	return func(s *SyncService) {
		s.reportMissing = report
	}
}

func WithObserver(observer SyncObserver) SyncOption {
	if observer == nil {
		return nil
	}
	return func(s *SyncService) {
		s.observer = observer
	}
}

func WithClock(clock Clock) SyncOption {
	if clock == nil {
		return nil
	}
	return func(s *SyncService) {
		s.now = clock
	}
}

func NewSyncService(repo TaskRepository, opts ...SyncOption) *SyncService {
	s := &SyncService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Sync применяет пакет клиента по порядку в одной транзакции.
// Ошибка любой записи откатывает весь пакет.
func (s *SyncService) Sync(ctx context.Context, ownerID int64, records []task.ClientTask) (*task.SyncResult, error) {
	start := time.Now()

	var (
		result *task.SyncResult
		stats  SyncStats
	)

	err := s.repo.InTx(ctx, func(store repository.TaskStore) error {
		result = task.NewSyncResult()
		stats = SyncStats{}

		for i := range records {
			if err := s.apply(ctx, store, ownerID, records[i], result, &stats); err != nil {
				return fmt.Errorf("запись %d: %w", i, err)
			}
		}
		return nil
	})

	stats.Duration = time.Since(start)
	if s.observer != nil {
		s.observer.ObserveSync(stats, err)
	}

	if err != nil {
		logger.Error("Service: Ошибка синхронизации, пакет откатан", err,
			zap.Int64("owner_id", ownerID),
			zap.Int("records", len(records)))
		return nil, fmt.Errorf("синхронизация: %w", err)
	}

	logger.Info("Service: Синхронизация завершена",
		zap.Int64("owner_id", ownerID),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("deleted", stats.Deleted),
		zap.Int("conflicts", stats.Conflicts),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration))

	return result, nil
}

func (s *SyncService) apply(ctx context.Context, store repository.TaskStore, ownerID int64,
	rec task.ClientTask, result *task.SyncResult, stats *SyncStats) error {

	now := s.now()

	if rec.ClientRef == nil {
		created := newTaskFor(ownerID, now, rec.Draft)
		if err := store.Create(ctx, created); err != nil {
			return err
		}
		result.UpdatedTasks = append(result.UpdatedTasks, created)
		stats.Created++
		logger.Debug("Sync: Создана задача", zap.Int64("task_id", created.ID))
		return nil
	}

	id := *rec.ClientRef
	stored, err := store.GetByID(ctx, ownerID, id)
	if errors.Is(err, repository.ErrNotFound) {
		stats.Skipped++
		logger.Warn("Sync: Задача не найдена на сервере, пропуск", zap.Int64("id_api", id))
		if s.reportMissing {
			result.Conflicts = append(result.Conflicts, task.Conflict{
				TaskID:        id,
				ClientVersion: rec.Raw,
				ConflictType:  task.ConflictNotFound,
			})
			stats.Conflicts++
		}
		return nil
	}
	if err != nil {
		return err
	}

	if rec.Deleted {
		if stored.Deleted {
			stats.Unchanged++
			return nil
		}
		if _, err := store.SoftDelete(ctx, ownerID, id, now.UTC(), nextStamp(now, stored.UpdatedAt)); err != nil {
			return err
		}
		stats.Deleted++
		logger.Debug("Sync: Задача удалена", zap.Int64("task_id", id))
		return nil
	}

	// для удалённой на сервере задачи сравнение то же, флаг deleted не снимается
	switch {
	case rec.UpdatedAt > stored.UpdatedAt:
		stored.Apply(rec.Options()...)
		stored.UpdatedAt = rec.UpdatedAt
		if err := store.Update(ctx, stored); err != nil {
			return err
		}
		result.UpdatedTasks = append(result.UpdatedTasks, stored)
		stats.Updated++
	case rec.UpdatedAt < stored.UpdatedAt:
		result.Conflicts = append(result.Conflicts, task.Conflict{
			TaskID:        id,
			ClientVersion: rec.Raw,
			ServerVersion: stored,
			ConflictType:  task.ConflictUpdate,
		})
		stats.Conflicts++
	default:
		stats.Unchanged++
	}
	return nil
}
