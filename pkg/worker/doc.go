// Package worker implements the offline shell worker lifecycle: install,
// activate and per-request fetch handling.
//
// The worker precaches a fixed manifest of shell assets at install time,
// purges superseded cache generations at activation, and serves
// intercepted requests according to the policy picked by the routes
// classifier: network-first for page navigations, cache-first for static
// assets, pass-through for everything else.
//
// Lifecycle transitions (Installing → Waiting → Activating → Active) are
// driven by the host, not by the worker's own clock: the composition root
// calls Install and Activate in order and never begins activation before
// install's asynchronous work completed successfully.
package worker
