package billing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksTotal counts billing checks by check name and UI effect.
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webedge_billing_checks_total",
			Help: "Total number of billing checks by check and resulting UI effect",
		},
		[]string{"check", "effect"},
	)
)
