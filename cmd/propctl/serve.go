// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/observability"
	"github.com/holomush/propcore/internal/script"
	"github.com/holomush/propcore/pkg/errutil"
)

// maxScriptBytes bounds POST /script bodies.
const maxScriptBytes = 1 << 20

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve a collection over HTTP",
		Long: `Build the collection defined in FILE and serve it over HTTP:

  GET  /values             current property values (optional ?select=GLOB)
  POST /script             apply the statements in the request body
  GET  /metrics            Prometheus metrics
  GET  /healthz/liveness   liveness check
  GET  /healthz/readiness  readiness check`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			c, err := loadCollection(cfg, logger, args[0])
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					errutil.LogError(logger, "close collection", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cmd, addr, newService(c, logger), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9100", "listen address")
	return cmd
}

func serve(ctx context.Context, cmd *cobra.Command, addr string, svc *service, logger *slog.Logger) error {
	server := observability.NewServer(addr, observability.NewRegistry(true), func() bool { return true })
	server.Handle("GET /values", http.HandlerFunc(svc.handleValues))
	server.Handle("POST /script", http.HandlerFunc(svc.handleScript))

	errCh, err := server.Start()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", server.Addr())
	logger.Info("collection server started", "addr", server.Addr())

	select {
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	case err, ok := <-errCh:
		if ok && err != nil {
			errutil.LogError(logger, "server error", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping server", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// service serializes HTTP access to one collection. Collections are not
// safe for concurrent use.
type service struct {
	mu     sync.Mutex
	c      *collection.Collection
	logger *slog.Logger
}

func newService(c *collection.Collection, logger *slog.Logger) *service {
	return &service{c: c, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *service) handleValues(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("select")
	if pattern == "" {
		pattern = "*"
	}

	s.mu.Lock()
	props, err := s.c.Match(pattern)
	var states []propertyState
	if err == nil {
		states = stateOf(props)
	}
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.write(w, http.StatusOK, map[string]any{"properties": states})
}

func (s *service) handleScript(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxScriptBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	err = script.Run(s.c, "request", string(body))
	states := stateOf(s.c.Properties())
	s.mu.Unlock()

	if err != nil {
		errutil.LogError(s.logger, "script rejected", err)
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.write(w, http.StatusOK, map[string]any{"properties": states})
}

func (s *service) writeError(w http.ResponseWriter, status int, err error) {
	s.write(w, status, errorResponse{Error: err.Error(), Code: errutil.Code(err)})
}

func (s *service) write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := writeJSON(w, v); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}
