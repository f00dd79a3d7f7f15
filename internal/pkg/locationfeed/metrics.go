package locationfeed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_feed_updates_total",
			Help: "Location updates published to the feed",
		},
		[]string{"result"},
	)

	FeedDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_feed_deliveries_total",
			Help: "Location updates handed to subscribers by outcome",
		},
		[]string{"profile", "outcome"},
	)
)
