package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tareasSync/internal/app"
	"tareasSync/internal/config"
	"tareasSync/internal/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("конфигурация: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("конфигурация: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		return fmt.Errorf("инициализация: %w", err)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Сервер остановлен с ошибкой", err)
		return err
	}

	logger.Info("Сервер остановлен", zap.String("addr", cfg.GetServerAddr()))
	return nil
}
