package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ResponseToEntry converts an HTTP response into a cache snapshot keyed by
// requestURL. The response body is read fully and restored for the caller.
func ResponseToEntry(resp *http.Response, requestURL string) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	// Restore body for caller
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &Entry{
		URL:        requestURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		StoredAt:   time.Now(),
	}, nil
}

// EntryToResponse converts a cache snapshot back into an HTTP response.
func EntryToResponse(entry *Entry) *http.Response {
	if entry == nil {
		return nil
	}
	return &http.Response{
		StatusCode:    entry.StatusCode,
		Status:        http.StatusText(entry.StatusCode),
		Header:        entry.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
	}
}

// Cacheable reports whether a response may be stored: only plain 200
// responses from the configured origin qualify. Redirects, errors and
// cross-origin responses are returned to the caller but never cached.
func Cacheable(resp *http.Response, origin *url.URL) bool {
	if resp == nil || origin == nil {
		return false
	}
	if resp.StatusCode != http.StatusOK {
		return false
	}
	if resp.Request == nil || resp.Request.URL == nil {
		return false
	}
	return SameOrigin(resp.Request.URL, origin)
}

// SameOrigin reports whether two URLs share scheme and host.
func SameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Scheme == b.Scheme && a.Host == b.Host
}
