package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MichelleArumemi/EmployeeMS/internal/app"
	"github.com/MichelleArumemi/EmployeeMS/internal/config"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunWorker(ctx, cfg); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}
