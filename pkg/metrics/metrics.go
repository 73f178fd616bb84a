// Package metrics provides the centralized Prometheus registry reference for
// the webedge daemon. All metrics are defined in their respective packages
// (cache, worker, prompt, beacon, billing) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the daemon.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - webedge_cache_hits_total{generation} (Counter): Cache hits by generation
//   - webedge_cache_misses_total (Counter): Cache misses
//   - webedge_cache_size_bytes{generation} (Gauge): Stored entry bytes by generation
//   - webedge_cache_errors_total{operation} (Counter): Cache operation errors
//   - webedge_cache_generations_dropped_total (Counter): Generations purged on activate
//
// Worker Metrics (pkg/worker):
//   - webedge_worker_fetches_total{policy, outcome} (Counter): Fetch handling by
//     route policy and outcome (network, cache, shell_fallback, error, pass)
//   - webedge_worker_installs_total{result} (Counter): Install attempts by result
//   - webedge_worker_pushes_dropped_total (Counter): Push payloads dropped as malformed
//
// Install Prompt Metrics (pkg/prompt):
//   - webedge_install_banners_shown_total{variant} (Counter): Banners shown by variant
//   - webedge_install_banners_resolved_total{outcome} (Counter): Prompt resolutions
//
// Beacon Metrics (pkg/beacon):
//   - webedge_beacon_events_total{kind, outcome} (Counter): Analytics events by
//     kind (pageview, ping, error) and delivery outcome (sent, error)
//
// Billing Metrics (pkg/billing):
//   - webedge_billing_checks_total{check, effect} (Counter): Billing checks by
//     resulting UI effect
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(webedge_cache_hits_total[5m])) /
//   (sum(rate(webedge_cache_hits_total[5m])) + sum(rate(webedge_cache_misses_total[5m])))
//
//   # Offline Fallback Rate
//   rate(webedge_worker_fetches_total{outcome="shell_fallback"}[5m])
//
//   # Beacon Delivery Failure Rate
//   rate(webedge_beacon_events_total{outcome="error"}[5m]) /
//   rate(webedge_beacon_events_total[5m])
//
//   # Install Funnel
//   rate(webedge_install_banners_resolved_total{outcome="accepted"}[1h]) /
//   rate(webedge_install_banners_shown_total[1h])
