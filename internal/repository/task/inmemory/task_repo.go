package inmemory

import (
	"context"
	"sync"
	"time"

	"tareasSync/internal/logger"
	"tareasSync/internal/models/task"
	repo "tareasSync/internal/repository"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	nextID  int64
	// снимок внутри InTx
	tx bool
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *TaskStorage) Status(ctx context.Context) (repo.DBStatus, error) {
	return repo.DBStatus{Now: time.Now(), Version: "inmemory"}, ctx.Err()
}

// InTx работает на копии хранилища, при успехе копия подменяет данные.
// Транзакции выполняются строго по очереди.
func (s *TaskStorage) InTx(ctx context.Context, fn func(store repo.TaskStore) error) error {
	if s.tx {
		return fn(s)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	snapshot := &TaskStorage{
		storage: make(map[int64]*task.Task, len(s.storage)),
		mtx:     &sync.RWMutex{},
		ids:     append([]int64(nil), s.ids...),
		nextID:  s.nextID,
		tx:      true,
	}
	for id, t := range s.storage {
		snapshot.storage[id] = t.Clone()
	}

	if err := fn(snapshot); err != nil {
		logger.Warn("Repository: Откат транзакции")
		return err
	}

	s.storage = snapshot.storage
	s.ids = snapshot.ids
	s.nextID = snapshot.nextID
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.nextID++
	taskToCreate.ID = s.nextID

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[taskToUpdate.ID]
	if !ok || existed.OwnerID != taskToUpdate.OwnerID {
		return repo.ErrNotFound
	}

	updated := taskToUpdate.Clone()
	updated.PendingSync = false
	updated.Deleted = existed.Deleted
	updated.DeletedAt = existed.DeletedAt
	s.storage[updated.ID] = updated

	*taskToUpdate = *updated.Clone()
	return nil
}

// мягкое удаление, повторное даёт ErrNotFound
func (s *TaskStorage) SoftDelete(ctx context.Context, ownerID, id int64, deletedAt time.Time, updatedAt int64) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[id]
	if !ok || existed.OwnerID != ownerID || existed.Deleted {
		return nil, repo.ErrNotFound
	}

	existed.Deleted = true
	existed.DeletedAt = &deletedAt
	existed.UpdatedAt = updatedAt

	return existed.Clone(), nil
}

func (s *TaskStorage) GetByID(ctx context.Context, ownerID, id int64) (*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found, ok := s.storage[id]
	if !ok || found.OwnerID != ownerID {
		return nil, repo.ErrNotFound
	}
	return found.Clone(), nil
}

// активные задачи владельца в порядке создания
func (s *TaskStorage) ListActive(ctx context.Context, ownerID int64) ([]*task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.OwnerID != ownerID || t.Deleted {
			continue
		}
		res = append(res, t.Clone())
	}
	return res, nil
}

func (s *TaskStorage) Count(ctx context.Context) (repo.TaskCounts, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var counts repo.TaskCounts
	for _, t := range s.storage {
		if t.Deleted {
			counts.Deleted++
		} else {
			counts.Active++
		}
	}
	return counts, ctx.Err()
}

func (s *TaskStorage) Schema(ctx context.Context) ([]repo.ColumnInfo, error) {
	cols := task.Fields.Columns()
	res := make([]repo.ColumnInfo, 0, len(cols))
	for _, col := range cols {
		res = append(res, repo.ColumnInfo{Name: col, DataType: "inmemory", IsNullable: "YES"})
	}
	return res, ctx.Err()
}
