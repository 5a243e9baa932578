package inmemory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tareasSync/internal/models/task"
	"tareasSync/internal/repository"
	"tareasSync/internal/repository/task/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(owner int64, name string) *task.Task {
	return &task.Task{
		Name:         name,
		Description:  "desc",
		AssignedDate: "2024-05-01",
		AssignedTime: "10:30:00",
		Priority:     task.PriorityMedium,
		OwnerID:      owner,
		UpdatedAt:    1000,
	}
}

// TestTaskStorage_HealthCheck тестирует проверку здоровья
func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, storage.HealthCheck(ctx), context.Canceled)
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	first := newTask(1, "a")
	second := newTask(1, "b")
	require.NoError(t, storage.Create(ctx, first))
	require.NoError(t, storage.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	got, err := storage.GetByID(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)

	// хранилище держит копию
	got.Name = "changed"
	again, err := storage.GetByID(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", again.Name)
}

// TestTaskStorage_GetByID тестирует изоляцию владельцев
func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	require.NoError(t, storage.Create(ctx, newTask(1, "a")))

	_, err := storage.GetByID(ctx, 2, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = storage.GetByID(ctx, 1, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_Update тестирует обновление
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	created := newTask(1, "a")
	require.NoError(t, storage.Create(ctx, created))

	t.Run("success", func(t *testing.T) {
		upd := created.Clone()
		upd.Name = "b"
		upd.UpdatedAt = 2000
		upd.PendingSync = true
		require.NoError(t, storage.Update(ctx, upd))

		got, err := storage.GetByID(ctx, 1, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "b", got.Name)
		assert.Equal(t, int64(2000), got.UpdatedAt)
		assert.False(t, got.PendingSync)
	})

	t.Run("error - foreign owner", func(t *testing.T) {
		upd := created.Clone()
		upd.OwnerID = 2
		assert.ErrorIs(t, storage.Update(ctx, upd), repository.ErrNotFound)
	})

	t.Run("deleted task keeps tombstone", func(t *testing.T) {
		_, err := storage.SoftDelete(ctx, 1, created.ID, time.Now().UTC(), 3000)
		require.NoError(t, err)

		upd := created.Clone()
		upd.Name = "c"
		upd.UpdatedAt = 4000
		upd.Deleted = false
		upd.DeletedAt = nil
		require.NoError(t, storage.Update(ctx, upd))
		assert.True(t, upd.Deleted)

		got, err := storage.GetByID(ctx, 1, created.ID)
		require.NoError(t, err)
		assert.True(t, got.Deleted)
		assert.NotNil(t, got.DeletedAt)
		assert.Equal(t, "c", got.Name)
	})
}

// TestTaskStorage_SoftDelete тестирует мягкое удаление
func TestTaskStorage_SoftDelete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	require.NoError(t, storage.Create(ctx, newTask(1, "a")))
	require.NoError(t, storage.Create(ctx, newTask(1, "b")))

	deletedAt := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	deleted, err := storage.SoftDelete(ctx, 1, 1, deletedAt, 5000)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, deletedAt, *deleted.DeletedAt)
	assert.Equal(t, int64(5000), deleted.UpdatedAt)

	_, err = storage.SoftDelete(ctx, 1, 1, deletedAt, 6000)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	active, err := storage.ListActive(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].Name)

	// удалённая задача видна при поиске по id
	got, err := storage.GetByID(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, got.Deleted)

	counts, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.TaskCounts{Active: 1, Deleted: 1}, counts)
}

// TestTaskStorage_ListActive тестирует порядок и фильтр по владельцу
func TestTaskStorage_ListActive(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	for _, owner := range []int64{1, 2, 1, 1} {
		require.NoError(t, storage.Create(ctx, newTask(owner, "t")))
	}

	tasks, err := storage.ListActive(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int64{1, 3, 4}, []int64{tasks[0].ID, tasks[1].ID, tasks[2].ID})

	empty, err := storage.ListActive(ctx, 9)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

// TestTaskStorage_InTx тестирует фиксацию и откат
func TestTaskStorage_InTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		storage := inmemory.NewTaskStorage()
		err := storage.InTx(ctx, func(store repository.TaskStore) error {
			if err := store.Create(ctx, newTask(1, "a")); err != nil {
				return err
			}
			return store.Create(ctx, newTask(1, "b"))
		})
		require.NoError(t, err)

		tasks, err := storage.ListActive(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("rollback", func(t *testing.T) {
		storage := inmemory.NewTaskStorage()
		require.NoError(t, storage.Create(ctx, newTask(1, "keep")))

		boom := errors.New("boom")
		err := storage.InTx(ctx, func(store repository.TaskStore) error {
			if err := store.Create(ctx, newTask(1, "lost")); err != nil {
				return err
			}
			if _, err := store.SoftDelete(ctx, 1, 1, time.Now().UTC(), 9000); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		tasks, err := storage.ListActive(ctx, 1)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "keep", tasks[0].Name)

		// счётчик id тоже откатывается
		require.NoError(t, storage.Create(ctx, newTask(1, "next")))
		tasks, _ = storage.ListActive(ctx, 1)
		assert.Equal(t, int64(2), tasks[1].ID)
	})
}

// TestTaskStorage_Concurrent тестирует параллельные транзакции
func TestTaskStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = storage.InTx(ctx, func(store repository.TaskStore) error {
				return store.Create(ctx, newTask(1, "t"))
			})
		}()
	}
	wg.Wait()

	counts, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), counts.Active)
}

func TestTaskStorage_Schema(t *testing.T) {
	columns, err := inmemory.NewTaskStorage().Schema(context.Background())
	require.NoError(t, err)
	require.Len(t, columns, len(task.Fields.Columns()))
	assert.Equal(t, "id", columns[0].Name)
}
