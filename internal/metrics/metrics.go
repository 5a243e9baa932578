package metrics

import (
	"net/http"

	"tareasSync/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Счётчик запросов по методу, маршруту и статусу
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.3, 1, 3},
		},
		[]string{"method", "route"},
	)

	InFlightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Итоги обработки записей синхронизации
	SyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tareas_sync_records_total",
			Help: "Sync records by outcome",
		},
		[]string{"outcome"},
	)

	SyncBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tareas_sync_batches_total",
			Help: "Sync batches by result",
		},
		[]string{"result"},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tareas_sync_duration_seconds",
			Help:    "Duration of a sync batch transaction in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.3, 1, 3},
		},
	)

	StoredTasks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tareas_stored_tasks",
			Help: "Stored tasks by state, sampled by the stats worker",
		},
		[]string{"state"},
	)
)

const (
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeDeleted   = "deleted"
	OutcomeConflict  = "conflict"
	OutcomeSkipped   = "skipped"
	OutcomeUnchanged = "unchanged"
)

// SyncObserver переносит итоги пакета синхронизации в метрики.
type SyncObserver struct{}

func NewSyncObserver() *SyncObserver {
	return &SyncObserver{}
}

func (o *SyncObserver) ObserveSync(stats service.SyncStats, err error) {
	SyncDuration.Observe(stats.Duration.Seconds())

	// откатанный пакет ничего не записал
	if err != nil {
		SyncBatches.WithLabelValues("error").Inc()
		return
	}
	SyncBatches.WithLabelValues("ok").Inc()

	SyncRecords.WithLabelValues(OutcomeCreated).Add(float64(stats.Created))
	SyncRecords.WithLabelValues(OutcomeUpdated).Add(float64(stats.Updated))
	SyncRecords.WithLabelValues(OutcomeDeleted).Add(float64(stats.Deleted))
	SyncRecords.WithLabelValues(OutcomeConflict).Add(float64(stats.Conflicts))
	SyncRecords.WithLabelValues(OutcomeSkipped).Add(float64(stats.Skipped))
	SyncRecords.WithLabelValues(OutcomeUnchanged).Add(float64(stats.Unchanged))
}

// SetStoredTasks обновляет гауги количества задач.
func SetStoredTasks(active, deleted int64) {
	StoredTasks.WithLabelValues("active").Set(float64(active))
	StoredTasks.WithLabelValues("deleted").Set(float64(deleted))
}

// Handler возвращает HTTP handler для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
