package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal tracks intercepted fetches by policy and how they
	// resolved: "network", "cache", "shell_fallback", "error" or "pass".
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webedge_worker_fetches_total",
		Help: "Total intercepted fetches by policy and outcome",
	}, []string{"policy", "outcome"})

	// InstallsTotal tracks install attempts by result.
	InstallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webedge_worker_installs_total",
		Help: "Total shell precache install attempts by result",
	}, []string{"result"})

	// PushesDropped tracks push payloads dropped as malformed.
	PushesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webedge_worker_pushes_dropped_total",
		Help: "Total push payloads dropped because they could not be parsed",
	})
)
