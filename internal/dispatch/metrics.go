package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightctl",
		Subsystem: "dispatch",
		Name:      "updates_sent_total",
		Help:      "Field updates accepted by the controller",
	}, []string{"field"})

	updatesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightctl",
		Subsystem: "dispatch",
		Name:      "updates_failed_total",
		Help:      "Field updates that failed to reach the controller",
	}, []string{"field"})

	// Debounced updates replaced by a newer value before they were sent.
	updatesCoalesced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lightctl",
		Subsystem: "dispatch",
		Name:      "updates_coalesced_total",
		Help:      "Debounced updates superseded before sending",
	}, []string{"field"})
)
