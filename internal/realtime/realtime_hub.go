package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Publisher pushes an event to whoever is subscribed to channel right now.
// Delivery is best effort: an event for a channel nobody listens on is dropped
// and is not an error.
//
//go:generate mockgen -source=realtime_hub.go -destination=mock/realtime_hub_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

// Subscriber receives encoded frames. Deliver must not block.
type Subscriber interface {
	ID() string
	Deliver(frame []byte) bool
	Close()
}

// Hub is the per-process subscription table. Its state is not persisted:
// after a restart clients rejoin their channels when they reconnect.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[string]Subscriber
	joined   map[string]map[string]struct{}
	closed   bool
	logger   *zap.Logger
}

func NewHub(logger ...*zap.Logger) *Hub {
	l := zap.L().Named("realtime.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.hub")
	}
	return &Hub{
		channels: make(map[string]map[string]Subscriber),
		joined:   make(map[string]map[string]struct{}),
		logger:   l,
	}
}

func (h *Hub) Subscribe(channel string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	members, ok := h.channels[channel]
	if !ok {
		members = make(map[string]Subscriber)
		h.channels[channel] = members
	}
	members[sub.ID()] = sub

	chans, ok := h.joined[sub.ID()]
	if !ok {
		chans = make(map[string]struct{})
		h.joined[sub.ID()] = chans
	}
	chans[channel] = struct{}{}
}

func (h *Hub) Unsubscribe(channel string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(channel, sub.ID())
}

// UnsubscribeAll removes sub from every channel it joined.
func (h *Hub) UnsubscribeAll(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for channel := range h.joined[sub.ID()] {
		h.removeLocked(channel, sub.ID())
	}
	delete(h.joined, sub.ID())
}

func (h *Hub) removeLocked(channel, id string) {
	if members, ok := h.channels[channel]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	if chans, ok := h.joined[id]; ok {
		delete(chans, channel)
		if len(chans) == 0 {
			delete(h.joined, id)
		}
	}
}

func (h *Hub) Publish(ctx context.Context, channel string, event Event) error {
	event.Channel = channel
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	frame, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]Subscriber, 0, len(h.channels[channel]))
	for _, sub := range h.channels[channel] {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	eventsPublished.WithLabelValues(string(event.Type)).Inc()

	delivered := 0
	for _, sub := range targets {
		if sub.Deliver(frame) {
			delivered++
		} else {
			framesDropped.WithLabelValues(string(event.Type)).Inc()
			h.logger.Warn("realtime frame dropped",
				zap.String("channel", channel),
				zap.String("subscriber_id", sub.ID()),
				zap.String("event_type", string(event.Type)),
			)
		}
	}

	h.logger.Debug("realtime event published",
		zap.String("channel", channel),
		zap.String("event_type", string(event.Type)),
		zap.Int("subscribers", len(targets)),
		zap.Int("delivered", delivered),
	)
	return nil
}

func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.channels[channel])
}

// Close disconnects every subscriber and refuses new subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make(map[string]Subscriber)
	for _, members := range h.channels {
		for id, sub := range members {
			subs[id] = sub
		}
	}
	h.channels = make(map[string]map[string]Subscriber)
	h.joined = make(map[string]map[string]struct{})
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
