package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tareasSync/internal/logger"
	"tareasSync/internal/models/task"
	repo "tareasSync/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = time.Millisecond * 100

// querier общее между пулом и транзакцией.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	pool *pgxpool.Pool
	db   querier
	// внутри транзакции чтения блокируют строку
	inTx bool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool, db: pool}
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// InTx выполняет fn в одной транзакции, любая ошибка откатывает все изменения.
func (s *Storage) InTx(ctx context.Context, fn func(store repo.TaskStore) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		logger.Error("Repository: Не удалось начать транзакцию", err)
		return fmt.Errorf("начало транзакции: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Error("Repository: Ошибка отката транзакции", rbErr)
			}
		}
	}()

	if err = fn(&Storage{pool: s.pool, db: tx, inTx: true}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать транзакцию", err)
		return fmt.Errorf("фиксация транзакции: %w", err)
	}
	return nil
}

var columnFormats = map[string]string{
	"fecha_asignacion": "YYYY-MM-DD",
	"hora_asignacion":  "HH24:MI:SS",
	"fecha_entrega":    "YYYY-MM-DD",
	"hora_entrega":     "HH24:MI:SS",
}

// selectList колонки tareas в порядке task.Fields, даты и время отдаются строками.
var selectList = func() string {
	cols := task.Fields.Columns()
	for i, col := range cols {
		if format, ok := columnFormats[col]; ok {
			cols[i] = fmt.Sprintf("to_char(%s, '%s') AS %s", col, format, col)
		}
	}
	return strings.Join(cols, ", ")
}()

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	var priority int32

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.AssignedDate,
		&t.AssignedTime,
		&t.DueDate,
		&t.DueTime,
		&t.Completed,
		&priority,
		&t.OwnerID,
		&t.PendingSync,
		&t.UpdatedAt,
		&t.Deleted,
		&t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Priority = task.Priority(priority)
	return t, nil
}

func warnSlow(op string, start time.Time) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.String("op", op), zap.Duration("ms", time.Since(start)))
	}
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tareas
				(nombre, descripcion, fecha_asignacion, hora_asignacion,
				 fecha_entrega, hora_entrega, finalizada, prioridad, usuario_id,
				 pending_sync, updated_at, deleted, deleted_at)
			VALUES ($1, $2, $3::text::date, $4::text::time,
				$5::text::date, $6::text::time, $7, $8, $9,
				$10, $11, $12, $13)
			RETURNING ` + selectList

	created, err := scanTask(s.db.QueryRow(ctx, query,
		taskToCreate.Name,
		taskToCreate.Description,
		taskToCreate.AssignedDate,
		taskToCreate.AssignedTime,
		taskToCreate.DueDate,
		taskToCreate.DueTime,
		taskToCreate.Completed,
		int32(taskToCreate.Priority),
		taskToCreate.OwnerID,
		taskToCreate.PendingSync,
		taskToCreate.UpdatedAt,
		taskToCreate.Deleted,
		taskToCreate.DeletedAt,
	))
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	*taskToCreate = *created
	warnSlow("create", start)
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tareas
			SET nombre = $1,
				descripcion = $2,
				fecha_asignacion = $3::text::date,
				hora_asignacion = $4::text::time,
				fecha_entrega = $5::text::date,
				hora_entrega = $6::text::time,
				finalizada = $7,
				prioridad = $8,
				updated_at = $9,
				pending_sync = false
			WHERE id = $10 AND usuario_id = $11
			RETURNING ` + selectList

	updated, err := scanTask(s.db.QueryRow(ctx, query,
		taskToUpdate.Name,
		taskToUpdate.Description,
		taskToUpdate.AssignedDate,
		taskToUpdate.AssignedTime,
		taskToUpdate.DueDate,
		taskToUpdate.DueTime,
		taskToUpdate.Completed,
		int32(taskToUpdate.Priority),
		taskToUpdate.UpdatedAt,
		taskToUpdate.ID,
		taskToUpdate.OwnerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Int64("task_id", taskToUpdate.ID))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	*taskToUpdate = *updated
	warnSlow("update", start)
	return nil
}

// SoftDelete повторное удаление уже удалённой задачи даёт ErrNotFound.
func (s *Storage) SoftDelete(ctx context.Context, ownerID, id int64, deletedAt time.Time, updatedAt int64) (*task.Task, error) {
	start := time.Now()

	query := `UPDATE tareas
			SET deleted = true,
				deleted_at = $1,
				updated_at = $2
			WHERE id = $3 AND usuario_id = $4 AND deleted = false
			RETURNING ` + selectList

	deleted, err := scanTask(s.db.QueryRow(ctx, query, deletedAt, updatedAt, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Мягкое удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("мягкое удаление: %w", err)
	}

	warnSlow("soft_delete", start)
	return deleted, nil
}

func (s *Storage) GetByID(ctx context.Context, ownerID, id int64) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectList + `
			FROM tareas
			WHERE id = $1 AND usuario_id = $2`
	if s.inTx {
		query += ` FOR UPDATE`
	}

	found, err := scanTask(s.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnSlow("get_by_id", start)
	return found, nil
}

func (s *Storage) ListActive(ctx context.Context, ownerID int64) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectList + `
			FROM tareas
			WHERE usuario_id = $1 AND deleted = false
			ORDER BY id ASC`

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnSlow("list_active", start)
	return tasks, nil
}

func (s *Storage) Count(ctx context.Context) (repo.TaskCounts, error) {
	var counts repo.TaskCounts

	query := `SELECT
				count(*) FILTER (WHERE deleted = false),
				count(*) FILTER (WHERE deleted = true)
			FROM tareas`

	if err := s.db.QueryRow(ctx, query).Scan(&counts.Active, &counts.Deleted); err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err)
		return counts, fmt.Errorf("подсчёт задач: %w", err)
	}
	return counts, nil
}

func (s *Storage) Status(ctx context.Context) (repo.DBStatus, error) {
	var status repo.DBStatus

	if err := s.db.QueryRow(ctx, `SELECT NOW(), version()`).Scan(&status.Now, &status.Version); err != nil {
		logger.Error("Repository: Не удалось получить статус БД", err)
		return status, fmt.Errorf("статус БД: %w", err)
	}
	return status, nil
}

func (s *Storage) Schema(ctx context.Context) ([]repo.ColumnInfo, error) {
	query := `SELECT column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_name = 'tareas'
			ORDER BY ordinal_position`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить схему", err)
		return nil, fmt.Errorf("схема таблицы: %w", err)
	}

	columns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repo.ColumnInfo, error) {
		var c repo.ColumnInfo
		err := row.Scan(&c.Name, &c.DataType, &c.IsNullable)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("схема таблицы: %w", err)
	}
	return columns, nil
}
