package producer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var outboxEventsRelayed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "outbox_events_relayed_total",
		Help: "Outbox rows written to Kafka, by topic and result",
	},
	[]string{"topic", "result"},
)
