package broker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_broker_deliveries_total",
			Help: "Delivery events handed to local subscribers by outcome",
		},
		[]string{"outcome"},
	)

	RedisEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_broker_redis_total",
			Help: "Delivery events passed through Redis pub/sub by direction and result",
		},
		[]string{"direction", "result"},
	)

	Subscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_broker_subscribers",
			Help: "Active local event subscribers",
		},
	)
)
