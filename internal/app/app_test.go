package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tareasSync/internal/app"
	"tareasSync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: time.Second,
			DebugRoutes:     true,
		},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
		Metrics: config.MetricsConfig{Enabled: true},
		Worker:  config.WorkerConfig{StatsInterval: time.Hour},
	}
}

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, any) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	var decoded any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func newApp(t *testing.T) http.Handler {
	t.Helper()
	a, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a.Handler()
}

func register(t *testing.T, h http.Handler, email string) *client {
	c := &client{t: t, handler: h}
	w, body := c.do("POST", "/register", map[string]any{"email": email, "password": "secreto1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c.token = body.(map[string]any)["token"].(string)
	return c
}

// TestApp_SyncFlow проходит путь клиента: регистрация, создание, синхронизация, список
func TestApp_SyncFlow(t *testing.T) {
	h := newApp(t)
	ana := register(t, h, "ana@example.com")

	w, body := ana.do("POST", "/tareas", map[string]any{
		"nombre":      "Comprar pan",
		"descripcion": "Panadería",
		"prioridad":   "alta",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := body.(map[string]any)
	assert.Equal(t, float64(3), created["prioridad"])
	stamp := int64(created["updatedAt"].(float64))

	w, body = ana.do("POST", "/tareas/sync", []any{
		map[string]any{"idApi": nil, "nombre": "Offline", "descripcion": "creada sin red", "updatedAt": stamp},
		map[string]any{"idApi": created["id"], "nombre": "Comprar pan integral", "updatedAt": stamp + 1000},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := body.(map[string]any)
	assert.Len(t, result["updatedTasks"], 2)
	assert.Empty(t, result["conflicts"])

	// повтор старой версии даёт конфликт
	w, body = ana.do("POST", "/tareas/sync", []any{
		map[string]any{"idApi": created["id"], "nombre": "viejo", "updatedAt": stamp},
	})
	require.Equal(t, http.StatusOK, w.Code)
	conflicts := body.(map[string]any)["conflicts"].([]any)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "UPDATE_CONFLICT", conflicts[0].(map[string]any)["conflictType"])

	w, body = ana.do("GET", "/tareas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := body.([]any)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Comprar pan integral", tasks[0].(map[string]any)["nombre"])

	w, _ = ana.do("DELETE", "/tareas/"+jsonID(created["id"]), nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, body = ana.do("GET", "/tareas", nil)
	assert.Len(t, body.([]any), 1)
}

func TestApp_OwnershipIsolation(t *testing.T) {
	h := newApp(t)
	ana := register(t, h, "ana@example.com")
	luis := register(t, h, "luis@example.com")

	_, body := ana.do("POST", "/tareas", map[string]any{"nombre": "a", "descripcion": "b"})
	id := jsonID(body.(map[string]any)["id"])

	w, _ := luis.do("PUT", "/tareas/"+id, map[string]any{"nombre": "robada"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = luis.do("DELETE", "/tareas/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, body = luis.do("GET", "/tareas", nil)
	assert.Empty(t, body.([]any))
}

func TestApp_AuthRequired(t *testing.T) {
	h := newApp(t)
	anon := &client{t: t, handler: h}

	w, _ := anon.do("GET", "/tareas", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	anon.token = "garbage"
	w, _ = anon.do("GET", "/tareas", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApp_PublicRoutes(t *testing.T) {
	h := newApp(t)
	anon := &client{t: t, handler: h}

	w, body := anon.do("GET", "/db-status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "InMemory", body.(map[string]any)["database_type"])

	w, _ = anon.do("GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = anon.do("GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func jsonID(v any) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}
