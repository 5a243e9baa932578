package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tareasSync/internal/auth"
	"tareasSync/internal/config"
	"tareasSync/internal/handlers"
	"tareasSync/internal/logger"
	"tareasSync/internal/metrics"
	"tareasSync/internal/migrations"
	"tareasSync/internal/repository"
	"tareasSync/internal/repository/pgdb"
	taskmem "tareasSync/internal/repository/task/inmemory"
	taskpg "tareasSync/internal/repository/task/postgres"
	usermem "tareasSync/internal/repository/user/inmemory"
	userpg "tareasSync/internal/repository/user/postgres"
	"tareasSync/internal/service"
	"tareasSync/internal/telemetry"
	"tareasSync/internal/worker"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	server      *http.Server
	router      *chi.Mux
	repository  service.TaskRepository // интерфейс!
	users       service.UserRepository
	taskService *service.TaskService
	syncService *service.SyncService
	userService *service.UserService
	tokens      *auth.TokenManager
	worker      *worker.StatsWorker
	shutdowns   []func(context.Context) error // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(context.Context) error, 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func(context.Context) error {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
		return nil
	})

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:     a.config.Tracing.Enabled,
		ServiceName: a.config.Tracing.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("инициализация трассировки: %w", err)
	}
	a.shutdowns = append(a.shutdowns, shutdownTracing)

	if err := a.initRepositories(ctx); err != nil {
		return nil, err
	}

	a.tokens = auth.NewTokenManager(a.config.Auth.JWTSecret, a.config.Auth.TokenTTL)
	hasher := auth.NewBcryptHasher(a.config.Auth.BcryptCost)

	a.taskService = service.NewTaskService(a.repository, a.config.DatabaseType(), time.Now)
	a.userService = service.NewUserService(a.users, hasher, a.tokens)

	syncOpts := []service.SyncOption{service.WithReportMissing(a.config.Sync.ReportMissing)}
	if a.config.Metrics.Enabled {
		syncOpts = append(syncOpts, service.WithObserver(metrics.NewSyncObserver()))
	}
	a.syncService = service.NewSyncService(a.repository, syncOpts...)

	var sink worker.StatsSink
	if a.config.Metrics.Enabled {
		sink = func(counts repository.TaskCounts) {
			metrics.SetStoredTasks(counts.Active, counts.Deleted)
		}
	}
	interval := a.config.Worker.StatsInterval
	a.worker = worker.NewStatsWorker(a.repository, &interval, sink)

	taskHandler := handlers.NewTaskHandler(a.taskService, a.syncService)
	authHandler := handlers.NewAuthHandler(a.userService)
	a.router = newRouter(a.config, &taskHandler, &authHandler, a.tokens)

	var handler http.Handler = a.router
	if a.config.Tracing.Enabled {
		handler = otelhttp.NewHandler(a.router, a.config.Tracing.ServiceName)
	}

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      handler,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))

	return a, nil
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		a.repository = taskmem.NewTaskStorage()
		a.users = usermem.NewUserStorage()
		return nil

	case config.RepositoryPostgres:
		if a.config.Database.Migrate {
			if err := migrations.Up(a.config.Database.URL); err != nil {
				return fmt.Errorf("миграции: %w", err)
			}
		}

		pool, err := pgdb.Open(ctx, pgdb.Options{
			URL:         a.config.Database.URL,
			MaxConns:    a.config.Database.MaxConnections,
			MinConns:    a.config.Database.MinConnections,
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}

		tasks := taskpg.New(pool)
		a.repository = tasks
		a.users = userpg.New(pool)
		a.shutdowns = append(a.shutdowns, func(context.Context) error {
			tasks.Close()
			return nil
		})
		return nil

	default:
		return fmt.Errorf("неизвестный тип репозитория %q", a.config.Repository.Type)
	}
}

// Handler корневой обработчик без трассировки, для тестов.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run запускает HTTP сервер и воркер статистики; отмена ctx запускает graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Получен сигнал остановки")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown останавливает сервер, затем остальные ресурсы в обратном порядке.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	if a.server != nil {
		if serr := a.server.Shutdown(ctx); serr != nil {
			err = multierr.Append(err, fmt.Errorf("остановка сервера: %w", serr))
		}
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.shutdowns[i](ctx))
	}
	a.shutdowns = nil

	return err
}
