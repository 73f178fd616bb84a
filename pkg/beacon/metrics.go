package beacon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsTotal counts analytics events by kind and delivery outcome.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webedge_beacon_events_total",
			Help: "Total number of analytics events by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)
