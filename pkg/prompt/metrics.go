package prompt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BannersShown tracks install banners shown by variant.
	BannersShown = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webedge_install_banners_shown_total",
		Help: "Total install banners shown by variant",
	}, []string{"variant"})

	// BannersResolved tracks how banners were resolved.
	BannersResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webedge_install_banners_resolved_total",
		Help: "Total install banners resolved by outcome",
	}, []string{"outcome"}) // "accepted", "declined", "not_now"
)
