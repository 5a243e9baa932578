package worker

import (
	"context"
	"fmt"
	"time"

	"tareasSync/internal/logger"
	"tareasSync/internal/repository"

	"go.uber.org/zap"
)

type TaskCounter interface {
	Count(ctx context.Context) (repository.TaskCounts, error)
}

// StatsSink получает результат каждого замера.
type StatsSink func(counts repository.TaskCounts)

type StatsWorker struct {
	repo     TaskCounter
	interval time.Duration
	sink     StatsSink
}

func NewStatsWorker(repo TaskCounter, interval *time.Duration, sink StatsSink) *StatsWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = time.Minute
	} else {
		intervalToSet = *interval
	}

	return &StatsWorker{
		repo:     repo,
		interval: intervalToSet,
		sink:     sink,
	}
}

// Start первый замер сразу, дальше по тикеру до отмены контекста.
func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Сбор статистики останавливается")
			return
		}
	}
}

func (w *StatsWorker) Check(ctx context.Context) {
	start := time.Now()

	counts, err := w.collect(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка подсчёта задач", zap.Error(err))
		return
	}

	if w.sink != nil {
		w.sink(counts)
	}

	logger.Debug(
		"Worker: Статистика задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int64("active", counts.Active),
		zap.Int64("deleted", counts.Deleted),
	)
}

func (w *StatsWorker) collect(ctx context.Context) (repository.TaskCounts, error) {
	counts, err := w.repo.Count(ctx)
	if err != nil {
		return counts, fmt.Errorf("подсчёт задач: %w", err)
	}
	return counts, nil
}
