package delivery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_stage_transitions_total",
			Help: "Committed delivery stage transitions",
		},
		[]string{"from", "to"},
	)

	ActionResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_action_results_total",
			Help: "Driver action outcomes (ok, guard, cannot_cancel, token_mismatch, transport, other)",
		},
		[]string{"action", "result"},
	)

	LocationEscalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_location_escalations_total",
			Help: "Location degradation escalations",
		},
		[]string{"level"},
	)

	StatePersistErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_state_persist_errors_total",
			Help: "Failed attempts to persist delivery state",
		},
	)

	DroppedEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_dropped_events_total",
			Help: "Delivery events dropped because the publish buffer was full",
		},
	)
)
