// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// The gcam-node daemon serves the GCAM global compute auction service
// on top of a persistent provider store.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/luxfi/database/leveldb"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/gix/api"
	"github.com/luxfi/gix/auction"
	"github.com/luxfi/gix/config"
)

func main() {
	cfg := config.DefaultAuctionConfig()
	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Service listen address")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Metrics listen address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Database directory")
	flag.Parse()

	logger := log.New("gcam-node")
	if err := cfg.Verify(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("creating data directory", "err", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	logger.Info("opening database", "path", cfg.DBPath)
	db, err := leveldb.New(cfg.DBPath, nil, logger, registry)
	if err != nil {
		logger.Error("opening database", "err", err)
		os.Exit(1)
	}

	engine, err := auction.New(db, logger, registry)
	if err != nil {
		logger.Error("initializing auction engine", "err", err)
		_ = db.Close()
		os.Exit(1)
	}

	logger.Info("GCAM node starting", "listen", cfg.ListenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(cfg.ListenAddr, api.NewAuctionService(engine).Handler(), cfg.MetricsAddr, registry, logger)
	serveErr := srv.Serve(ctx)

	// Flush before close so shutdown never loses a committed auction.
	logger.Info("shutdown signal received, flushing database")
	if err := engine.Flush(); err != nil {
		logger.Error("flushing engine", "err", err)
	}
	if err := db.Close(); err != nil {
		logger.Error("closing database", "err", err)
	}
	if serveErr != nil {
		logger.Error("server error", "err", serveErr)
		os.Exit(1)
	}
	logger.Info("GCAM node stopped")
}
