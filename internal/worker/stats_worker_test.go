package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tareasSync/internal/models/task"
	"tareasSync/internal/repository"
	"tareasSync/internal/repository/task/inmemory"
	"tareasSync/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCounter struct{}

func (failingCounter) Count(context.Context) (repository.TaskCounts, error) {
	return repository.TaskCounts{}, errors.New("db down")
}

func TestStatsWorker_Check(t *testing.T) {
	ctx := context.Background()
	repo := inmemory.NewTaskStorage()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &task.Task{Name: "t", Description: "d", OwnerID: 1}))
	}
	_, err := repo.SoftDelete(ctx, 1, 2, time.Now().UTC(), 10)
	require.NoError(t, err)

	var got repository.TaskCounts
	w := worker.NewStatsWorker(repo, nil, func(c repository.TaskCounts) { got = c })
	w.Check(ctx)

	assert.Equal(t, repository.TaskCounts{Active: 2, Deleted: 1}, got)
}

func TestStatsWorker_CheckErrorSkipsSink(t *testing.T) {
	called := false
	w := worker.NewStatsWorker(failingCounter{}, nil, func(repository.TaskCounts) { called = true })
	w.Check(context.Background())

	assert.False(t, called)
}

func TestStatsWorker_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	interval := 10 * time.Millisecond

	var (
		mtx   sync.Mutex
		calls int
	)
	w := worker.NewStatsWorker(inmemory.NewTaskStorage(), &interval, func(repository.TaskCounts) {
		mtx.Lock()
		calls++
		mtx.Unlock()
	})

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		mtx.Lock()
		defer mtx.Unlock()
		return calls >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
