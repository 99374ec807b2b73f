package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisChannel carries events between API instances.
const RedisChannel = "realtime:events"

type relayMessage struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
}

// RedisPublisher fans events out through Redis so that every instance's Relay
// can deliver them to its own connections.
type RedisPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger ...*zap.Logger) *RedisPublisher {
	l := zap.L().Named("realtime.redis_publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.redis_publisher")
	}
	return &RedisPublisher{rdb: rdb, logger: l}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, event Event) error {
	event.Channel = channel
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(relayMessage{Channel: channel, Event: event})
	if err != nil {
		return err
	}

	if err := p.rdb.Publish(ctx, RedisChannel, data).Err(); err != nil {
		p.logger.Warn("realtime redis publish failed",
			zap.String("channel", channel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Reconnect backoff bounds for Relay.Serve.
var (
	relayMinBackoff = 500 * time.Millisecond
	relayMaxBackoff = 30 * time.Second
)

// Relay subscribes to RedisChannel and republishes into the local hub.
type Relay struct {
	rdb    *redis.Client
	hub    *Hub
	logger *zap.Logger

	// connect runs one subscription and calls onSubscribed once it is live.
	connect func(ctx context.Context, onSubscribed func()) error
}

func NewRelay(rdb *redis.Client, hub *Hub, logger ...*zap.Logger) *Relay {
	l := zap.L().Named("realtime.relay")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.relay")
	}
	r := &Relay{rdb: rdb, hub: hub, logger: l}
	r.connect = r.session
	return r
}

// Serve keeps the relay subscribed until ctx is cancelled, resubscribing with
// exponential backoff whenever the subscription fails or breaks.
func (r *Relay) Serve(ctx context.Context) {
	delay := relayMinBackoff
	for {
		err := r.connect(ctx, func() {
			delay = relayMinBackoff
		})
		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("realtime relay disconnected",
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		relayReconnects.Inc()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = min(delay*2, relayMaxBackoff)
	}
}

// session blocks until ctx is cancelled or the subscription breaks.
func (r *Relay) session(ctx context.Context, onSubscribed func()) error {
	pubsub := r.rdb.Subscribe(ctx, RedisChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", RedisChannel, err)
	}
	r.logger.Info("realtime relay subscribed", zap.String("redis_channel", RedisChannel))
	onSubscribed()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("redis channel %s closed", RedisChannel)
			}
			if err := r.handle(ctx, msg.Payload); err != nil {
				r.logger.Warn("realtime relay message skipped", zap.Error(err))
			}
		}
	}
}

func (r *Relay) handle(ctx context.Context, payload string) error {
	var msg relayMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return err
	}
	if msg.Channel == "" {
		return fmt.Errorf("relay message without channel")
	}
	return r.hub.Publish(ctx, msg.Channel, msg.Event)
}
