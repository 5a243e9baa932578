package handlers

import (
	"context"

	"tareasSync/internal/models/task"
	"tareasSync/internal/models/user"
	"tareasSync/internal/repository"
	"tareasSync/internal/service"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	DBType() string
	DBStatus(ctx context.Context) (repository.DBStatus, error)
	Schema(ctx context.Context) (service.SchemaReport, error)
	ListTasks(ctx context.Context, ownerID int64) ([]*task.Task, error)
	CreateTask(ctx context.Context, ownerID int64, draft task.Draft) (*task.Task, error)
	UpdateTask(ctx context.Context, ownerID, id int64, draft task.Draft) (*task.Task, error)
	DeleteTask(ctx context.Context, ownerID, id int64) (*task.Task, error)
}

type SyncService interface {
	Sync(ctx context.Context, ownerID int64, records []task.ClientTask) (*task.SyncResult, error)
}

type UserService interface {
	Register(ctx context.Context, email, password string) (*user.User, string, error)
	Login(ctx context.Context, email, password string) (*user.User, string, error)
}
