package logger

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger до вызова Init ничего не пишет.
var Logger = zap.NewNop()

const timeLayout = "2006/01/02 15:04:05"

// Init development: цветной консольный вывод, иначе JSON без stacktrace на warn.
func Init(development bool) error {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "time"
	}
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	Logger = built
	return nil
}

func Sync() {
	_ = Logger.Sync()
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Logger.Error(msg, fields...)
}

// Log запись уровня lvl с привязкой к запросу; пустой requestID не пишется.
func Log(lvl zapcore.Level, requestID, msg string, fields ...zap.Field) {
	if requestID != "" {
		fields = append([]zap.Field{zap.String("request_id", requestID)}, fields...)
	}
	Logger.Log(lvl, msg, fields...)
}

// Request Log с method, path, query и адресом клиента.
func Request(lvl zapcore.Level, r *http.Request, requestID, msg string, fields ...zap.Field) {
	all := make([]zap.Field, 0, len(fields)+4)
	all = append(all,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("query", r.URL.RawQuery),
		zap.String("client_ip", r.RemoteAddr),
	)
	all = append(all, fields...)
	Log(lvl, requestID, msg, all...)
}
