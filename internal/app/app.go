package app

import (
	"context"
	"fmt"

	"github.com/MichelleArumemi/EmployeeMS/internal/config"
	"github.com/MichelleArumemi/EmployeeMS/internal/directory"
	"github.com/MichelleArumemi/EmployeeMS/internal/leave"
	"github.com/MichelleArumemi/EmployeeMS/internal/messaging/kafka"
	"github.com/MichelleArumemi/EmployeeMS/internal/notification"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the stores and mounts every module on router. The returned
// cleanup stops background relays and closes connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := migrate(gormDB, cfg); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, cfg.Postgres.MaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	// 2. Register Modules & Routes
	stopModules, err := registerModules(router, cfg, sqlDB, gormDB, rdb)
	if err != nil {
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info("application built",
		zap.String("env", cfg.Env),
		zap.String("realtime_backend", cfg.RealtimeBackend),
	)

	return func() {
		stopModules()
		if err := rdb.Close(); err != nil {
			logger.Warn("redis close failed", zap.Error(err))
		}
		if err := sqlDB.Close(); err != nil {
			logger.Warn("postgres close failed", zap.Error(err))
		}
	}, nil
}

// migrate creates the tables this service owns. The employees table belongs to
// the directory service and is only created outside production.
func migrate(db *gorm.DB, cfg config.Config) error {
	models := []any{&leave.Leave{}, &notification.Notification{}, &kafka.OutboxRecord{}}
	if !cfg.IsProduction() {
		models = append(models, &directory.Profile{})
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
