package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_active_connections",
			Help: "Open WebSocket connections on this instance",
		},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_published_total",
			Help: "Events published into the local hub",
		},
		[]string{"event_type"},
	)

	framesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_frames_dropped_total",
			Help: "Frames dropped because a subscriber fell behind",
		},
		[]string{"event_type"},
	)

	relayReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_relay_reconnects_total",
			Help: "Times the Redis relay lost its subscription and retried",
		},
	)
)
