package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chatalertbot"

var (
	alertsFired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "fired_total",
			Help:      "Total trigger rules fired",
		},
	)

	deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "deliveries_total",
			Help:      "Per-channel delivery attempts by outcome",
		},
		[]string{"channel", "outcome"},
	)
)

// recordDelivery records one channel delivery attempt.
func recordDelivery(channel, outcome string) {
	deliveries.WithLabelValues(channel, outcome).Inc()
}
