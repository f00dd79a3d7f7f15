package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_retries_total",
			Help: "Total number of backend calls that needed more than one attempt",
		},
		[]string{"method", "grpc_code"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of backend requests including retries",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "grpc_code"},
	)

	BackendRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_rejections_total",
			Help: "Backend responses with success=false",
		},
		[]string{"method"},
	)
)
