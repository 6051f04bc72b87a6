// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// The gsee-runtime daemon serves the GSEE secure execution service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/gix/api"
	"github.com/luxfi/gix/config"
	"github.com/luxfi/gix/runtime"
)

func main() {
	cfg := config.DefaultRuntimeConfig()
	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Service listen address")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Metrics listen address")
	requiredResidency := flag.String("required-residency", "", "Require this residency tag on every job")
	flag.Parse()

	logger := log.New("gsee-runtime")
	if err := cfg.Verify(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	policy := runtime.DefaultPolicy()
	policy.Residency.RequiredResidency = *requiredResidency

	registry := prometheus.NewRegistry()
	r, err := runtime.New(policy, logger, registry)
	if err != nil {
		logger.Error("initializing runtime", "err", err)
		os.Exit(1)
	}

	logger.Info("GSEE runtime starting", "listen", cfg.ListenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(cfg.ListenAddr, api.NewExecutionService(r).Handler(), cfg.MetricsAddr, registry, logger)
	if err := srv.Serve(ctx); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
	logger.Info("GSEE runtime stopped")
}
