// Package beacon emits lightweight analytics events to the origin.
//
// Delivery is strictly best-effort: one HTTP attempt per event, errors
// swallowed, no retry queue and no buffering across page loads. Losing an
// event on transport failure is accepted by design of the analytics
// endpoints; what must never happen is an analytics failure surfacing to
// the hosting page.
package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Kind discriminates the analytics event union.
type Kind string

const (
	// KindPageView reports a page load.
	KindPageView Kind = "pageview"

	// KindPing reports time spent since the previous flush.
	KindPing Kind = "ping"

	// KindError reports an uncaught script error.
	KindError Kind = "error"
)

// endpointPath maps an event kind to its collection endpoint.
func endpointPath(kind Kind) string {
	return "/api/analytics/" + string(kind)
}

// PageViewEvent is the payload for KindPageView.
type PageViewEvent struct {
	PageURL   string `json:"page_url"`
	PageTitle string `json:"page_title"`
	SessionID string `json:"session_id,omitempty"`
}

// PingEvent is the payload for KindPing.
type PingEvent struct {
	PageURL   string `json:"page_url"`
	Seconds   int    `json:"seconds"`
	SessionID string `json:"session_id,omitempty"`
}

// ErrorEvent is the payload for KindError.
type ErrorEvent struct {
	PageURL   string `json:"page_url"`
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"`
	Line      int    `json:"line,omitempty"`
	Col       int    `json:"col,omitempty"`
	Stack     string `json:"stack,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// DefaultHeartbeat is the periodic ping interval.
const DefaultHeartbeat = 30 * time.Second

// unloadTimeout bounds the final flush so it completes despite teardown.
const unloadTimeout = 2 * time.Second

// Beacon sends analytics events for one page session.
type Beacon struct {
	origin    string
	pageURL   string
	pageTitle string
	sessionID string
	heartbeat time.Duration
	client    *http.Client
	unload    *http.Client
	logger    zerolog.Logger

	mu        sync.Mutex
	lastFlush time.Time
}

// Option customizes a Beacon.
type Option func(*Beacon)

// WithHTTPClient overrides the transport client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(b *Beacon) {
		b.client = client
		b.unload = client
	}
}

// WithHeartbeat overrides the periodic ping interval.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Beacon) { b.heartbeat = d }
}

// New creates a beacon for one page session. origin is the endpoint base
// URL; pageURL and pageTitle describe the tracked page.
func New(origin, pageURL, pageTitle string, opts ...Option) *Beacon {
	b := &Beacon{
		origin:    origin,
		pageURL:   pageURL,
		pageTitle: pageTitle,
		sessionID: uuid.NewString(),
		heartbeat: DefaultHeartbeat,
		client:    &http.Client{Timeout: 10 * time.Second},
		unload:    &http.Client{Timeout: unloadTimeout},
		logger:    log.With().Str("component", "beacon").Logger(),
		lastFlush: time.Now(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SessionID returns the session identifier stamped on every event.
func (b *Beacon) SessionID() string {
	return b.sessionID
}

// Send transmits one event, at most once. Transport and server errors are
// swallowed; the only observable effect of a failure is a metric and a
// debug log line.
func (b *Beacon) Send(ctx context.Context, kind Kind, payload any) {
	b.send(ctx, b.client, kind, payload)
}

func (b *Beacon) send(ctx context.Context, client *http.Client, kind Kind, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		EventsTotal.WithLabelValues(string(kind), "error").Inc()
		b.logger.Debug().Err(err).Str("kind", string(kind)).Msg("Failed to marshal event")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.origin+endpointPath(kind), bytes.NewReader(body))
	if err != nil {
		EventsTotal.WithLabelValues(string(kind), "error").Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		EventsTotal.WithLabelValues(string(kind), "error").Inc()
		b.logger.Debug().Err(err).Str("kind", string(kind)).Msg("Event send failed")
		return
	}
	resp.Body.Close()

	EventsTotal.WithLabelValues(string(kind), "sent").Inc()
}

// PageView emits the load-time pageview event.
func (b *Beacon) PageView(ctx context.Context) {
	b.Send(ctx, KindPageView, PageViewEvent{
		PageURL:   b.pageURL,
		PageTitle: b.pageTitle,
		SessionID: b.sessionID,
	})
}

// ReportError emits an error event for an uncaught script error or an
// unhandled rejection.
func (b *Beacon) ReportError(ctx context.Context, event ErrorEvent) {
	if event.PageURL == "" {
		event.PageURL = b.pageURL
	}
	event.SessionID = b.sessionID
	b.Send(ctx, KindError, event)
}

// Run emits the pageview, then pings every heartbeat interval until ctx is
// done (page unload), finishing with one unload-safe flush.
func (b *Beacon) Run(ctx context.Context) {
	b.PageView(ctx)

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.Flush()
			return
		case <-ticker.C:
			b.Ping(ctx)
		}
	}
}

// Ping emits a heartbeat carrying the seconds elapsed since the previous
// flush and resets the flush clock.
func (b *Beacon) Ping(ctx context.Context) {
	b.Send(ctx, KindPing, PingEvent{
		PageURL:   b.pageURL,
		Seconds:   b.resetFlushClock(),
		SessionID: b.sessionID,
	})
}

// Flush emits the final ping on the unload-safe transport. It runs on its
// own short-deadline context so it can complete while the page context is
// already canceled.
func (b *Beacon) Flush() {
	ctx, cancel := context.WithTimeout(context.Background(), unloadTimeout)
	defer cancel()

	b.send(ctx, b.unload, KindPing, PingEvent{
		PageURL:   b.pageURL,
		Seconds:   b.resetFlushClock(),
		SessionID: b.sessionID,
	})
}

func (b *Beacon) resetFlushClock() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	seconds := int(time.Since(b.lastFlush).Seconds())
	b.lastFlush = time.Now()
	return seconds
}
