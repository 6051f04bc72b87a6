// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthHandler is the liveness probe shared by the three services.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"healthy": true})
}

// Server runs one service endpoint plus its sibling metrics scrape
// endpoint and handles graceful shutdown for both.
type Server struct {
	log     log.Logger
	srv     *http.Server
	metrics *http.Server
}

// NewServer builds the pair of HTTP servers for a service.
func NewServer(addr string, handler http.Handler, metricsAddr string, gatherer prometheus.Gatherer, logger log.Logger) *Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &Server{
		log: logger,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		metrics: &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Serve blocks until ctx is cancelled or a listener fails, then shuts
// both servers down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		s.log.Info("serving", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()
	go func() {
		s.log.Info("serving metrics", "addr", s.metrics.Addr)
		errCh <- s.metrics.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.srv.Shutdown(shutdownCtx)
	if merr := s.metrics.Shutdown(shutdownCtx); err == nil {
		err = merr
	}
	return err
}
