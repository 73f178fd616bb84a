package worker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cloudface-ai/webedge/pkg/cache"
	"github.com/cloudface-ai/webedge/pkg/routes"
)

// State is the worker lifecycle state.
type State int

const (
	// StateInstalling is the initial state while the shell is precached.
	StateInstalling State = iota

	// StateWaiting means install succeeded and the worker is eligible to
	// replace any previously active worker immediately.
	StateWaiting

	// StateActivating means superseded generations are being purged.
	StateActivating

	// StateActive means the worker governs intercepted requests.
	StateActive
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	default:
		return "installing"
	}
}

// DefaultShellManifest lists the shell assets precached at install time.
// Every entry must fetch successfully or the install step fails as a whole.
var DefaultShellManifest = []string{
	"/",
	"/static/manifest.json",
	"/favicon.ico",
	"/static/favicon-16x16.png",
	"/static/favicon-32x32.png",
	"/static/images/cloudface-logo.png",
	"/static/images/apple-touch-icon.png",
	"/static/css/pwa-install.css",
	"/static/js/pwa-install.js",
	"/static/icons/icon-192x192.png",
	"/static/icons/icon-512x512.png",
}

// Clients abstracts the open pages governed by the worker.
type Clients interface {
	// Claim makes the worker govern all open pages immediately rather
	// than only after their next reload.
	Claim(ctx context.Context) error

	// Focus brings an open page for url to the foreground. Returns false
	// if no such page is open.
	Focus(ctx context.Context, url string) (bool, error)

	// OpenWindow opens a new page at url.
	OpenWindow(ctx context.Context, url string) error
}

// Config holds the worker configuration.
type Config struct {
	// Origin is the document origin, e.g. "https://cloudface.ai".
	Origin string

	// Shell overrides DefaultShellManifest when non-nil.
	Shell []string

	// Denylist overrides routes.DefaultDenylist when non-nil.
	Denylist []string

	// HTTPClient is the outbound client. Defaults to a 30s-timeout client.
	HTTPClient *http.Client

	// Clients is optional; without it activation skips the claim step.
	Clients Clients

	// Notifier is optional; without it push payloads are dropped.
	Notifier Notifier
}

// Worker is the offline shell worker.
type Worker struct {
	store      cache.Store
	origin     *url.URL
	classifier *routes.Classifier
	client     *http.Client
	shell      []string
	clients    Clients
	notifier   Notifier
	logger     zerolog.Logger

	mu    sync.RWMutex
	state State
}

// New creates a worker in the Installing state.
func New(store cache.Store, cfg Config) (*Worker, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}

	origin, err := url.Parse(cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("origin must be an absolute URL, got %q", cfg.Origin)
	}

	shell := cfg.Shell
	if shell == nil {
		shell = DefaultShellManifest
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Worker{
		store:      store,
		origin:     origin,
		classifier: routes.NewClassifier(origin, cfg.Denylist),
		client:     client,
		shell:      shell,
		clients:    cfg.Clients,
		notifier:   cfg.Notifier,
		logger:     log.With().Str("component", "worker").Logger(),
		state:      StateInstalling,
	}, nil
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Install precaches the shell manifest into the static generation. Failure
// of any single fetch fails the whole step and the worker never activates;
// the hosting pages keep working without offline support. On success the
// worker moves to Waiting and is immediately eligible for activation.
func (w *Worker) Install(ctx context.Context) error {
	start := time.Now()

	for _, path := range w.shell {
		if err := w.precache(ctx, path); err != nil {
			InstallsTotal.WithLabelValues("failure").Inc()
			w.logger.Error().Err(err).Str("path", path).Msg("Shell precache failed, install rejected")
			return fmt.Errorf("precache %s: %w", path, err)
		}
	}

	w.setState(StateWaiting)
	InstallsTotal.WithLabelValues("success").Inc()
	w.logger.Info().
		Int("assets", len(w.shell)).
		Dur("duration", time.Since(start)).
		Str("generation", cache.StaticGeneration()).
		Msg("Shell precached, worker waiting")
	return nil
}

// precache fetches one shell asset and stores it in the static generation.
func (w *Worker) precache(ctx context.Context, path string) error {
	assetURL := w.origin.JoinPath(path).String()
	if path == "/" {
		assetURL = w.origin.String() + "/"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	entry, err := cache.ResponseToEntry(resp, assetURL)
	if err != nil {
		return err
	}
	return w.store.Put(ctx, cache.StaticGeneration(), entry)
}

// Activate purges every generation that is neither the current static nor
// the current runtime generation, then claims all open pages so the new
// worker governs requests immediately rather than only after reload.
func (w *Worker) Activate(ctx context.Context) error {
	w.setState(StateActivating)

	names, err := w.store.Generations(ctx)
	if err != nil {
		return fmt.Errorf("list generations: %w", err)
	}

	for _, name := range names {
		if cache.IsCurrent(name) {
			continue
		}
		if err := w.store.DropGeneration(ctx, name); err != nil {
			return fmt.Errorf("drop generation %s: %w", name, err)
		}
		w.logger.Info().Str("generation", name).Msg("Purged superseded cache generation")
	}

	if w.clients != nil {
		if err := w.clients.Claim(ctx); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to claim open pages")
		}
	}

	w.setState(StateActive)
	w.logger.Info().Msg("Worker active")
	return nil
}

// RootURL returns the absolute URL of the root document.
func (w *Worker) RootURL() string {
	return w.origin.String() + "/"
}

// Origin returns the document origin the worker governs.
func (w *Worker) Origin() *url.URL {
	return w.origin
}
