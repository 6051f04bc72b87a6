// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouterConfigVerify(t *testing.T) {
	tests := []struct {
		name          string
		config        RouterConfig
		expectedError error
	}{
		{
			name:          "default",
			config:        DefaultRouterConfig(),
			expectedError: nil,
		},
		{
			name: "empty listen addr",
			config: RouterConfig{
				FlashCapacity: 100,
				DeepCapacity:  50,
			},
			expectedError: ErrEmptyListenAddr,
		},
		{
			name: "zero flash capacity",
			config: RouterConfig{
				ListenAddr:   DefaultRouterAddr,
				DeepCapacity: 50,
			},
			expectedError: ErrZeroLaneCapacity,
		},
		{
			name: "zero deep capacity",
			config: RouterConfig{
				ListenAddr:    DefaultRouterAddr,
				FlashCapacity: 100,
			},
			expectedError: ErrZeroLaneCapacity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.config.Verify(), tt.expectedError)
		})
	}
}

func TestAuctionConfigVerify(t *testing.T) {
	require := require.New(t)

	require.NoError(DefaultAuctionConfig().Verify())

	config := DefaultAuctionConfig()
	config.DBPath = ""
	require.ErrorIs(config.Verify(), ErrEmptyDBPath)

	config = DefaultAuctionConfig()
	config.ListenAddr = ""
	require.ErrorIs(config.Verify(), ErrEmptyListenAddr)
}

func TestRuntimeConfigVerify(t *testing.T) {
	require := require.New(t)

	require.NoError(DefaultRuntimeConfig().Verify())

	config := DefaultRuntimeConfig()
	config.ListenAddr = ""
	require.ErrorIs(config.Verify(), ErrEmptyListenAddr)
}
