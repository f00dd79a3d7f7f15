package offline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OfflineActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offline_actions_total",
			Help: "Offline actions by kind and outcome (enqueued, replayed, retried, dead_lettered)",
		},
		[]string{"kind", "outcome"},
	)

	OfflineQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "offline_queue_depth",
			Help: "Number of offline actions waiting for replay",
		},
	)
)
