package cache

import (
	"net/http"
	"time"
)

// Entry represents a cached snapshot of an origin response.
type Entry struct {
	// URL is the absolute request URL the snapshot is keyed by.
	URL string `json:"url"`

	// StatusCode is the HTTP status code of the cached response.
	StatusCode int `json:"status_code"`

	// Header holds the response headers.
	Header http.Header `json:"header"`

	// Body is the response body.
	Body []byte `json:"body"`

	// StoredAt is when the snapshot was written.
	StoredAt time.Time `json:"stored_at"`
}

// Size returns the body size in bytes.
func (e *Entry) Size() int {
	return len(e.Body)
}
