// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// Signature and key sizes of the Dilithium3 scheme.
const (
	PublicKeySize  = mode3.PublicKeySize
	PrivateKeySize = mode3.PrivateKeySize
	SignatureSize  = mode3.SignatureSize
)

// ErrBadSignature is returned when a signature fails verification.
var ErrBadSignature = errors.New("signature verification failed")

// KeyPair holds a Dilithium3 keypair.
type KeyPair struct {
	Public  *mode3.PublicKey
	Private *mode3.PrivateKey
}

// GenerateKeyPair creates a new random keypair.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := mode3.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating dilithium keypair: %w", err)
	}
	return &KeyPair{Public: pub, Private: priv}, nil
}

// KeyPairFromBytes reconstructs a keypair from packed key bytes.
func KeyPairFromBytes(public, private []byte) (*KeyPair, error) {
	pub := new(mode3.PublicKey)
	if err := pub.UnmarshalBinary(public); err != nil {
		return nil, fmt.Errorf("unpacking public key: %w", err)
	}
	priv := new(mode3.PrivateKey)
	if err := priv.UnmarshalBinary(private); err != nil {
		return nil, fmt.Errorf("unpacking private key: %w", err)
	}
	return &KeyPair{Public: pub, Private: priv}, nil
}

// PublicBytes returns the packed public key.
func (k *KeyPair) PublicBytes() []byte {
	b, _ := k.Public.MarshalBinary()
	return b
}

// PrivateBytes returns the packed private key.
func (k *KeyPair) PrivateBytes() []byte {
	b, _ := k.Private.MarshalBinary()
	return b
}

// Sign produces a detached signature over msg.
func (k *KeyPair) Sign(msg []byte) []byte {
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(k.Private, msg, sig)
	return sig
}

// Verify checks a detached signature over msg against the packed
// public key.
func Verify(public, msg, sig []byte) error {
	pub := new(mode3.PublicKey)
	if err := pub.UnmarshalBinary(public); err != nil {
		return fmt.Errorf("unpacking public key: %w", err)
	}
	if !mode3.Verify(pub, msg, sig) {
		return ErrBadSignature
	}
	return nil
}
