package app

import (
	"context"
	"fmt"

	"github.com/MichelleArumemi/EmployeeMS/internal/bootstrap"
	"github.com/MichelleArumemi/EmployeeMS/internal/config"
	"github.com/MichelleArumemi/EmployeeMS/internal/messaging/kafka"
	"github.com/MichelleArumemi/EmployeeMS/internal/messaging/kafka/producer"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunWorker relays committed outbox rows to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := gormDB.AutoMigrate(&kafka.OutboxRecord{}); err != nil {
		return fmt.Errorf("auto migrate outbox: %w", err)
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(ctx, cfg.KafkaBroker, cfg.Postgres.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		producer.ProcessOutboxEvents(gctx, outboxRepo, kafkaWriter, logger, cfg.OutboxPollInterval)
		return nil
	})
	g.Go(func() error {
		return bootstrap.ServeMetrics(gctx, cfg.MetricsPort)
	})

	err = g.Wait()
	logger.Info("worker shutting down")
	return err
}
