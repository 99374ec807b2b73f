package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var lifecycleMessages = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "employee_lifecycle_messages_total",
		Help: "Employee lifecycle messages by outcome",
	},
	[]string{"outcome"},
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Backoff bounds for refetching after a reader error and for retrying an eviction.
var (
	retryMinDelay = 200 * time.Millisecond
	retryMaxDelay = 30 * time.Second
)

// ProfileCache drops a cached directory profile.
type ProfileCache interface {
	Invalidate(ctx context.Context, id string) error
}

// ConsumeEmployeeLifecycle evicts cached directory profiles whenever the
// employee service reports a change. Undecodable messages are committed and
// skipped. A failed eviction is retried with backoff on the same message, and
// nothing after it is committed until it succeeds or ctx is cancelled.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	cache ProfileCache,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	fetchDelay := retryMinDelay
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Duration("retry_in", fetchDelay), zap.Error(err))
			if !wait(ctx, fetchDelay) {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			fetchDelay = nextDelay(fetchDelay)
			continue
		}
		fetchDelay = retryMinDelay

		if !processWithRetry(ctx, msg, cache, log) {
			log.Info("employee lifecycle consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
		}
	}
}

// processWithRetry reports false only when ctx ends before msg is handled.
func processWithRetry(ctx context.Context, msg kafkago.Message, cache ProfileCache, log *zap.Logger) bool {
	delay := retryMinDelay
	for {
		if err := handleEmployeeLifecycle(ctx, msg, cache, log); err == nil {
			return true
		}
		if !wait(ctx, delay) {
			return false
		}
		delay = nextDelay(delay)
	}
}

func nextDelay(d time.Duration) time.Duration {
	return min(d*2, retryMaxDelay)
}

func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func handleEmployeeLifecycle(ctx context.Context, msg kafkago.Message, cache ProfileCache, log *zap.Logger) error {
	var event events.EmployeeLifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee lifecycle event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		lifecycleMessages.WithLabelValues("malformed").Inc()
		return nil
	}

	switch event.EventType {
	case events.EmployeeCreatedEventType, events.EmployeeUpdatedEventType, events.EmployeeDeletedEventType:
	default:
		log.Debug("ignoring employee lifecycle event", zap.String("event_type", event.EventType))
		lifecycleMessages.WithLabelValues("ignored").Inc()
		return nil
	}

	if event.EmployeeID == "" {
		log.Warn("employee lifecycle event without employee id", zap.String("event_type", event.EventType))
		lifecycleMessages.WithLabelValues("malformed").Inc()
		return nil
	}

	if err := cache.Invalidate(ctx, event.EmployeeID); err != nil {
		log.Error("invalidate directory profile failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		lifecycleMessages.WithLabelValues("retry").Inc()
		return err
	}
	lifecycleMessages.WithLabelValues("invalidated").Inc()

	log.Info("directory profile invalidated",
		zap.String("employee_id", event.EmployeeID),
		zap.String("event_type", event.EventType),
	)
	return nil
}
