// Package routes classifies intercepted requests into caching policies.
//
// Classification is pure and side-effect-free: it is the single source of
// truth the worker fetch handler consults per request, and it can be tested
// exhaustively with constructed inputs.
package routes

import (
	"net/http"
	"net/url"
	"strings"
)

// Policy is the caching policy class assigned to a request.
type Policy int

const (
	// PolicyIgnore means the request passes through untouched.
	PolicyIgnore Policy = iota

	// PolicyNavigation applies the network-first strategy for page loads.
	PolicyNavigation

	// PolicyStaticAsset applies the cache-first strategy for styles,
	// scripts, images and fonts.
	PolicyStaticAsset
)

// String returns the policy name for logging and metric labels.
func (p Policy) String() string {
	switch p {
	case PolicyNavigation:
		return "navigation"
	case PolicyStaticAsset:
		return "static_asset"
	default:
		return "ignore"
	}
}

// Request describes an intercepted request in platform-neutral terms.
type Request struct {
	// Method is the HTTP verb.
	Method string

	// URL is the absolute request URL.
	URL *url.URL

	// Navigation marks a top-level page load.
	Navigation bool

	// Destination is the resource type hint: "style", "script", "image",
	// "font" or empty when unknown.
	Destination string
}

// DefaultDenylist holds the path prefixes the worker must never intercept:
// the API, auth and admin namespaces plus the per-resource photo, search
// and processing endpoints served by the origin.
var DefaultDenylist = []string{
	"/api/",
	"/auth/",
	"/admin/",
	"/photo/",
	"/search",
	"/process",
	"/progress",
}

// StaticPrefix is the path prefix of the origin's static asset tree.
const StaticPrefix = "/static/"

// Classifier maps requests to caching policies for a single origin.
type Classifier struct {
	origin   *url.URL
	denylist []string
}

// NewClassifier creates a classifier for the given document origin.
// A nil denylist selects DefaultDenylist.
func NewClassifier(origin *url.URL, denylist []string) *Classifier {
	if denylist == nil {
		denylist = DefaultDenylist
	}
	return &Classifier{
		origin:   origin,
		denylist: denylist,
	}
}

// Classify returns the caching policy for a request.
func (c *Classifier) Classify(req Request) Policy {
	if req.Method != http.MethodGet || req.URL == nil {
		return PolicyIgnore
	}
	if req.URL.Scheme != c.origin.Scheme || req.URL.Host != c.origin.Host {
		return PolicyIgnore
	}
	for _, prefix := range c.denylist {
		if strings.HasPrefix(req.URL.Path, prefix) {
			return PolicyIgnore
		}
	}

	if req.Navigation {
		return PolicyNavigation
	}

	switch req.Destination {
	case "style", "script", "image", "font":
		return PolicyStaticAsset
	}
	if strings.HasPrefix(req.URL.Path, StaticPrefix) {
		return PolicyStaticAsset
	}

	return PolicyIgnore
}
