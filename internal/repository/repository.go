package repository

import (
	"context"
	"errors"
	"time"

	"tareasSync/internal/models/task"
)

var (
	ErrNotFound       = errors.New("запись не найдена")
	ErrDuplicateEmail = errors.New("email уже зарегистрирован")
)

// TaskStore операции над задачами одного владельца.
// Все методы фильтруют по ownerID, чужая задача неотличима от отсутствующей.
type TaskStore interface {
	// Create сохраняет задачу и заполняет ID.
	Create(ctx context.Context, t *task.Task) error
	// Update перезаписывает изменяемые поля и updated_at, deleted и deleted_at не трогает.
	Update(ctx context.Context, t *task.Task) error
	SoftDelete(ctx context.Context, ownerID, id int64, deletedAt time.Time, updatedAt int64) (*task.Task, error)
	// GetByID видит в том числе удалённые задачи.
	GetByID(ctx context.Context, ownerID, id int64) (*task.Task, error)
	ListActive(ctx context.Context, ownerID int64) ([]*task.Task, error)
}

type DBStatus struct {
	Now     time.Time
	Version string
}

type TaskCounts struct {
	Active  int64
	Deleted int64
}

type ColumnInfo struct {
	Name       string `json:"column_name"`
	DataType   string `json:"data_type"`
	IsNullable string `json:"is_nullable"`
}
