package app

import (
	"context"
	"fmt"

	"github.com/MichelleArumemi/EmployeeMS/internal/bootstrap"
	"github.com/MichelleArumemi/EmployeeMS/internal/config"
	"github.com/MichelleArumemi/EmployeeMS/internal/directory"
	"github.com/MichelleArumemi/EmployeeMS/internal/events"
	"github.com/MichelleArumemi/EmployeeMS/internal/messaging/kafka/consumer"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const directoryCacheGroupID = "employeems-directory-cache"

// RunConsumer evicts cached directory profiles on employee lifecycle events
// until ctx is cancelled.
func RunConsumer(ctx context.Context, cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	rdb, err := connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, cfg.Postgres.MaxRetries)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// Invalidate only touches Redis, so no repository is needed here.
	directoryService := directory.NewService(nil, rdb)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.EmployeeLifecycleTopic,
		GroupID:        directoryCacheGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumer.ConsumeEmployeeLifecycle(gctx, reader, directoryService, logger)
		return nil
	})
	g.Go(func() error {
		return bootstrap.ServeMetrics(gctx, cfg.MetricsPort)
	})

	err = g.Wait()
	logger.Info("consumer shutting down")
	return err
}
