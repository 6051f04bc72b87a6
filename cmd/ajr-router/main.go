// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// The ajr-router daemon serves the AJR anonymized job routing service.
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
	"github.com/luxfi/gix/router"
)

func main() {
	cfg := config.DefaultRouterConfig()
	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Service listen address")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Metrics listen address")
	flashCapacity := flag.Uint("flash-capacity", uint(cfg.FlashCapacity), "Flash lane capacity")
	deepCapacity := flag.Uint("deep-capacity", uint(cfg.DeepCapacity), "Deep lane capacity")
	flag.Parse()
	cfg.FlashCapacity = uint32(*flashCapacity)
	cfg.DeepCapacity = uint32(*deepCapacity)

	logger := log.New("ajr-router")
	if err := cfg.Verify(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	r, err := router.New(cfg.FlashCapacity, cfg.DeepCapacity, logger, registry)
	if err != nil {
		logger.Error("initializing router", "err", err)
		os.Exit(1)
	}

	logger.Info("AJR router starting",
		"listen", cfg.ListenAddr,
		"flashCapacity", cfg.FlashCapacity,
		"deepCapacity", cfg.DeepCapacity,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(cfg.ListenAddr, api.NewRouterService(r).Handler(), cfg.MetricsAddr, registry, logger)
	if err := srv.Serve(ctx); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
	logger.Info("AJR router stopped")
}
