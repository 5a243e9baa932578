package service

import (
	"context"
	"time"

	"tareasSync/internal/models/user"
	"tareasSync/internal/repository"
)

type Resource string

const (
	ResourceTask Resource = "Задача"
	ResourceUser Resource = "Пользователь"
)

type TaskRepository interface {
	repository.TaskStore
	InTx(ctx context.Context, fn func(store repository.TaskStore) error) error
	HealthCheck(ctx context.Context) error
	Status(ctx context.Context) (repository.DBStatus, error)
	Count(ctx context.Context) (repository.TaskCounts, error)
	Schema(ctx context.Context) ([]repository.ColumnInfo, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// Clock источник текущего времени, в тестах подменяется.
type Clock func() time.Time

// nextStamp метка updated_at строго больше предыдущей.
func nextStamp(now time.Time, prev int64) int64 {
	ms := now.UnixMilli()
	if ms <= prev {
		return prev + 1
	}
	return ms
}
