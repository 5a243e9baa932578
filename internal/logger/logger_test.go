package logger_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"tareasSync/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() { logger.Logger = prev })
	return logs
}

// TestLog тестирует привязку записи к запросу
func TestLog(t *testing.T) {
	logs := observe(t)

	logger.Log(zapcore.WarnLevel, "req-1", "с запросом", zap.Int("status", 404))
	logger.Log(zapcore.InfoLevel, "", "без запроса")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(404), entries[0].ContextMap()["status"])

	_, ok := entries[1].ContextMap()["request_id"]
	assert.False(t, ok)
}

// TestRequest тестирует поля HTTP-запроса
func TestRequest(t *testing.T) {
	logs := observe(t)

	r := httptest.NewRequest("GET", "/tareas?limit=5", nil)
	logger.Request(zapcore.InfoLevel, r, "req-2", "HTTP_IN", zap.String("extra", "x"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/tareas", fields["path"])
	assert.Equal(t, "limit=5", fields["query"])
	assert.Equal(t, "req-2", fields["request_id"])
	assert.Equal(t, "x", fields["extra"])
}

// TestError тестирует, что nil-ошибка не добавляет поле error
func TestError(t *testing.T) {
	logs := observe(t)

	logger.Error("сбой", errors.New("boom"))
	logger.Error("без ошибки", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	_, ok := entries[1].ContextMap()["error"]
	assert.False(t, ok)
}

func TestInit(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	require.NoError(t, logger.Init(false))
	assert.NotNil(t, logger.Logger)
	require.NoError(t, logger.Init(true))
}
