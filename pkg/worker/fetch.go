package worker

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudface-ai/webedge/pkg/cache"
	"github.com/cloudface-ai/webedge/pkg/routes"
)

// DescribeRequest builds a platform-neutral request descriptor from an
// incoming HTTP request, reading the fetch metadata headers browsers send.
func DescribeRequest(r *http.Request) routes.Request {
	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = "https"
		if r.TLS == nil {
			u.Scheme = "http"
		}
	}
	return routes.Request{
		Method:      r.Method,
		URL:         &u,
		Navigation:  r.Header.Get("Sec-Fetch-Mode") == "navigate",
		Destination: r.Header.Get("Sec-Fetch-Dest"),
	}
}

// HandleFetch serves one intercepted request. The returned bool reports
// whether the worker intercepted it at all: for PolicyIgnore requests it
// is false and the caller must let the request proceed to the network
// untouched. A non-nil error is only returned for intercepted requests
// whose every fallback failed.
func (w *Worker) HandleFetch(ctx context.Context, req routes.Request) (*http.Response, bool, error) {
	policy := w.classifier.Classify(req)

	switch policy {
	case routes.PolicyNavigation:
		resp, err := w.handleNavigation(ctx, req.URL.String())
		return resp, true, err
	case routes.PolicyStaticAsset:
		resp, err := w.handleStaticAsset(ctx, req.URL.String())
		return resp, true, err
	default:
		FetchesTotal.WithLabelValues(policy.String(), "pass").Inc()
		return nil, false, nil
	}
}

// handleNavigation is network-first: prefer the live response and refresh
// the runtime cache from it; under network failure fall back to the exact
// cached URL and finally to the cached root document, so a navigation
// never dead-ends offline as long as the shell was cached.
func (w *Worker) handleNavigation(ctx context.Context, url string) (*http.Response, error) {
	resp, err := w.fetch(ctx, url)
	if err == nil {
		w.cacheRuntime(ctx, resp, url)
		FetchesTotal.WithLabelValues("navigation", "network").Inc()
		return resp, nil
	}

	w.logger.Debug().Err(err).Str("url", url).Msg("Navigation fetch failed, trying cache")

	if entry := w.lookup(ctx, url); entry != nil {
		FetchesTotal.WithLabelValues("navigation", "cache").Inc()
		return cache.EntryToResponse(entry), nil
	}

	if entry := w.lookup(ctx, w.RootURL()); entry != nil {
		FetchesTotal.WithLabelValues("navigation", "shell_fallback").Inc()
		w.logger.Info().Str("url", url).Msg("Serving cached shell for offline navigation")
		return cache.EntryToResponse(entry), nil
	}

	FetchesTotal.WithLabelValues("navigation", "error").Inc()
	return nil, fmt.Errorf("navigation offline with no cached shell: %w", err)
}

// handleStaticAsset is cache-first: a cached match is served without a
// network round-trip; on a miss the asset is fetched and, when cacheable,
// stored in the runtime generation before being returned.
func (w *Worker) handleStaticAsset(ctx context.Context, url string) (*http.Response, error) {
	if entry := w.lookup(ctx, url); entry != nil {
		FetchesTotal.WithLabelValues("static_asset", "cache").Inc()
		return cache.EntryToResponse(entry), nil
	}

	resp, err := w.fetch(ctx, url)
	if err != nil {
		FetchesTotal.WithLabelValues("static_asset", "error").Inc()
		return nil, fmt.Errorf("asset fetch: %w", err)
	}

	w.cacheRuntime(ctx, resp, url)
	FetchesTotal.WithLabelValues("static_asset", "network").Inc()
	return resp, nil
}

// lookup searches the runtime generation first, then the precached static
// generation. Returns nil when neither holds the URL.
func (w *Worker) lookup(ctx context.Context, url string) *cache.Entry {
	for _, generation := range []string{cache.RuntimeGeneration(), cache.StaticGeneration()} {
		entry, err := w.store.Get(ctx, generation, url)
		if err == nil {
			return entry
		}
		if err != cache.ErrCacheMiss {
			w.logger.Warn().Err(err).Str("url", url).Msg("Cache lookup error")
		}
	}
	return nil
}

// cacheRuntime clones a response into the runtime generation when it
// qualifies. Non-200 and cross-origin responses are returned to the caller
// but never stored.
func (w *Worker) cacheRuntime(ctx context.Context, resp *http.Response, url string) {
	if !cache.Cacheable(resp, w.origin) {
		return
	}
	entry, err := cache.ResponseToEntry(resp, url)
	if err != nil {
		w.logger.Warn().Err(err).Str("url", url).Msg("Failed to snapshot response")
		return
	}
	if err := w.store.Put(ctx, cache.RuntimeGeneration(), entry); err != nil {
		w.logger.Warn().Err(err).Str("url", url).Msg("Failed to cache response")
	}
}

func (w *Worker) fetch(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return w.client.Do(req)
}
