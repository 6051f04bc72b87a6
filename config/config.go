// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the daemon configurations and their defaults.
package config

import (
	"errors"

	"github.com/luxfi/gix/router"
)

// Default listen addresses for the three services and their metrics
// scrape endpoints.
const (
	DefaultRouterAddr        = "0.0.0.0:50051"
	DefaultRouterMetricsAddr = "0.0.0.0:9001"

	DefaultAuctionAddr        = "0.0.0.0:50052"
	DefaultAuctionMetricsAddr = "0.0.0.0:9002"

	DefaultRuntimeAddr        = "0.0.0.0:50053"
	DefaultRuntimeMetricsAddr = "0.0.0.0:9003"

	// DefaultAuctionDBPath is where the auction daemon keeps its store.
	DefaultAuctionDBPath = "./data/gcam_db"

	// DefaultEnvelopeTTL is the client-emitted envelope lifetime in
	// seconds.
	DefaultEnvelopeTTL uint64 = 300
)

var (
	ErrEmptyListenAddr  = errors.New("listen address must not be empty")
	ErrEmptyDBPath      = errors.New("database path must not be empty")
	ErrZeroLaneCapacity = errors.New("lane capacity must be >= 1")
)

// RouterConfig configures the AJR router daemon.
type RouterConfig struct {
	ListenAddr    string
	MetricsAddr   string
	FlashCapacity uint32
	DeepCapacity  uint32
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		ListenAddr:    DefaultRouterAddr,
		MetricsAddr:   DefaultRouterMetricsAddr,
		FlashCapacity: router.DefaultFlashCapacity,
		DeepCapacity:  router.DefaultDeepCapacity,
	}
}

// Verify checks the configuration for internal consistency.
func (c RouterConfig) Verify() error {
	switch {
	case c.ListenAddr == "":
		return ErrEmptyListenAddr
	case c.FlashCapacity == 0 || c.DeepCapacity == 0:
		return ErrZeroLaneCapacity
	default:
		return nil
	}
}

// AuctionConfig configures the GCAM auction daemon.
type AuctionConfig struct {
	ListenAddr  string
	MetricsAddr string
	DBPath      string
}

// DefaultAuctionConfig returns the default auction configuration.
func DefaultAuctionConfig() AuctionConfig {
	return AuctionConfig{
		ListenAddr:  DefaultAuctionAddr,
		MetricsAddr: DefaultAuctionMetricsAddr,
		DBPath:      DefaultAuctionDBPath,
	}
}

// Verify checks the configuration for internal consistency.
func (c AuctionConfig) Verify() error {
	switch {
	case c.ListenAddr == "":
		return ErrEmptyListenAddr
	case c.DBPath == "":
		return ErrEmptyDBPath
	default:
		return nil
	}
}

// RuntimeConfig configures the GSEE runtime daemon.
type RuntimeConfig struct {
	ListenAddr  string
	MetricsAddr string
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		ListenAddr:  DefaultRuntimeAddr,
		MetricsAddr: DefaultRuntimeMetricsAddr,
	}
}

// Verify checks the configuration for internal consistency.
func (c RuntimeConfig) Verify() error {
	if c.ListenAddr == "" {
		return ErrEmptyListenAddr
	}
	return nil
}
