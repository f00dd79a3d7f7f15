package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "events_ws_connected_clients",
			Help: "WebSocket clients subscribed to delivery events",
		},
	)

	SentEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_ws_sent_total",
			Help: "Delivery events written to WebSocket clients",
		},
		[]string{"type"},
	)
)
