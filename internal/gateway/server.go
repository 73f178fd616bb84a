// Package gateway exposes the caching edge over HTTP. Requests the worker
// intercepts are answered from its fetch pipeline (network-first navigations,
// cache-first assets, offline shell fallback); everything else is reverse
// proxied to the origin untouched, exactly as if no worker were installed.
package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cloudface-ai/webedge/internal/uistate"
	"github.com/cloudface-ai/webedge/pkg/worker"
)

// Server is the HTTP face of the daemon.
type Server struct {
	echo   *echo.Echo
	worker *worker.Worker
	origin *url.URL
	proxy  *httputil.ReverseProxy
	state  *uistate.State
	logger zerolog.Logger
}

// New builds the server. w may be nil when install failed; every request is
// then proxied straight to the origin.
func New(origin *url.URL, w *worker.Worker, state *uistate.State) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		worker: w,
		origin: origin,
		proxy:  httputil.NewSingleHostReverseProxy(origin),
		state:  state,
		logger: log.With().Str("component", "gateway").Logger(),
	}

	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/ui/state", s.handleUIState)
	e.Any("/*", s.handleFetch)

	return s
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree (for tests).
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleUIState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.state.Snapshot())
}

// handleFetch routes one request through the worker. Interception operates
// on the origin-rewritten URL so classification sees the address the page
// would have requested.
func (s *Server) handleFetch(c echo.Context) error {
	r := c.Request()

	if s.worker == nil {
		s.proxy.ServeHTTP(c.Response(), r)
		return nil
	}

	desc := worker.DescribeRequest(r)
	desc.URL.Scheme = s.origin.Scheme
	desc.URL.Host = s.origin.Host

	resp, intercepted, err := s.worker.HandleFetch(r.Context(), desc)
	if !intercepted {
		s.proxy.ServeHTTP(c.Response(), r)
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("url", desc.URL.String()).Msg("Fetch failed with no fallback")
		return c.String(http.StatusBadGateway, "offline")
	}
	defer resp.Body.Close()

	header := c.Response().Header()
	for key, values := range resp.Header {
		for _, value := range values {
			header.Add(key, value)
		}
	}
	c.Response().WriteHeader(resp.StatusCode)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}
