package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ProducedEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_delivery_events_produced_total",
		Help: "Delivery events sent to Kafka by type and result",
	},
	[]string{"type", "result"},
)
