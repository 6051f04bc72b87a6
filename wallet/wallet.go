// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wallet persists signing keypairs as owner-only JSON files.
package wallet

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxfi/gix/crypto"
)

// fileFormat is the on-disk wallet layout. Keys are hex-encoded.
type fileFormat struct {
	PublicKey string `json:"public_key"`
	SecretKey string `json:"secret_key"`
}

// DefaultPath returns ~/.gix/wallet.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wallet.json"
	}
	return filepath.Join(home, ".gix", "wallet.json")
}

// Save writes the keypair to path with owner-only permissions,
// creating parent directories as needed.
func Save(keypair *crypto.KeyPair, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating wallet directory: %w", err)
	}
	data, err := json.MarshalIndent(fileFormat{
		PublicKey: hex.EncodeToString(keypair.PublicBytes()),
		SecretKey: hex.EncodeToString(keypair.PrivateBytes()),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding wallet: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing wallet file: %w", err)
	}
	return nil
}

// Load reads a keypair back from path.
func Load(path string) (*crypto.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wallet file: %w", err)
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding wallet: %w", err)
	}
	public, err := hex.DecodeString(f.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}
	secret, err := hex.DecodeString(f.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("decoding secret key: %w", err)
	}
	return crypto.KeyPairFromBytes(public, secret)
}
