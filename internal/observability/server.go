// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package observability assembles the Prometheus registry for property,
// collection and rule metrics and serves it, with health checks, over HTTP.
package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessChecker reports whether the served collection is ready. A nil
// checker always reports ready.
type ReadinessChecker func() bool

// Server exposes /metrics, the two health endpoints and any handlers mounted
// with Handle before Start.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	mux        *http.ServeMux
	isReady    ReadinessChecker
	running    atomic.Bool
}

// NewServer builds a server for reg listening on addr ("host:port"; port 0
// picks a free one).
func NewServer(addr string, reg *prometheus.Registry, readinessChecker ReadinessChecker) *Server {
	s := &Server{
		addr:     addr,
		registry: reg,
		mux:      http.NewServeMux(),
		isReady:  readinessChecker,
	}
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	s.mux.HandleFunc("GET /healthz/liveness", s.handleLiveness)
	s.mux.HandleFunc("GET /healthz/readiness", s.handleReadiness)
	return s
}

// Handle mounts an extra handler. Call before Start.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

// Start binds the listener and serves in the background. Serve failures
// arrive on the returned channel, which is closed once serving ends.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.With("addr", s.addr).Errorf("propctl http server already started")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrapf(err, "listen")
	}
	srv := &http.Server{Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	s.listener, s.httpServer = ln, srv

	errs := make(chan error, 1)
	go serve(srv, ln, errs)

	slog.Info("serving metrics and health", "listen", ln.Addr().String())
	return errs, nil
}

// serve owns errs. srv and ln are passed in so a later Start cannot swap them
// underneath it.
func serve(srv *http.Server, ln net.Listener, errs chan<- error) {
	defer close(errs)
	err := srv.Serve(ln)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}
	slog.Error("http serve failed", "listen", ln.Addr().String(), "error", err)
	errs <- err
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
// Stopping a server that is not running is a no-op. A failed shutdown leaves
// the server marked running so Stop can be retried.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.running.Store(true)
		return oops.With("addr", s.Addr()).Wrapf(err, "shut down http server")
	}
	slog.Info("metrics and health stopped", "listen", s.Addr())
	return nil
}

// Addr is the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, http.StatusOK, "ok")
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if s.isReady != nil && !s.isReady() {
		writeHealth(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeHealth(w, http.StatusOK, "ok")
}

func writeHealth(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body+"\n")
}
