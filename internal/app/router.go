package app

import (
	"net/http"

	"tareasSync/internal/config"
	"tareasSync/internal/handlers"
	"tareasSync/internal/metrics"
	"tareasSync/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func newRouter(cfg *config.Config, tasks *handlers.TaskHandler, users *handlers.AuthHandler,
	verifier middleware.TokenVerifier) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Logging)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(cfg.Server.RateLimitRPM))
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}

	r.Post("/register", users.Register) // POST /register
	r.Post("/login", users.Login)       // POST /login

	r.Get("/health", tasks.HealthCheck)
	r.Get("/db-status", tasks.DBStatus)
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(verifier))

		r.Route("/tareas", func(r chi.Router) {
			r.Get("/", tasks.ListTasks)         // GET /tareas
			r.Post("/", tasks.CreateTask)       // POST /tareas
			r.Post("/sync", tasks.SyncTasks)    // POST /tareas/sync
			r.Put("/{id}", tasks.UpdateTask)    // PUT /tareas/{id}
			r.Delete("/{id}", tasks.DeleteTask) // DELETE /tareas/{id}
		})

		if cfg.Server.DebugRoutes {
			r.Post("/debug-conversion", tasks.DebugConversion)
			r.Get("/debug-schema", tasks.DebugSchema)
		}
	})

	return r
}
