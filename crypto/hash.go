// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package crypto wraps the hash and signature primitives used by the
// GIX core. The primitives themselves are external collaborators; this
// package pins their byte-level contracts (32-byte digests, detached
// lattice signatures) so the rest of the tree never imports them
// directly.
package crypto

import (
	"github.com/zeebo/blake3"
)

// HashLen is the digest length in bytes.
const HashLen = 32

// Hash computes the BLAKE3 digest of the input.
func Hash(input []byte) [HashLen]byte {
	return blake3.Sum256(input)
}

// HashKeyed computes the keyed BLAKE3 digest of the input.
func HashKeyed(key *[HashLen]byte, input []byte) ([HashLen]byte, error) {
	h, err := blake3.NewKeyed(key[:])
	if err != nil {
		return [HashLen]byte{}, err
	}
	h.Write(input)
	var out [HashLen]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// DeriveKey derives a 32-byte key from the input material. The context
// string is a human-readable, application-specific identifier.
func DeriveKey(context string, input []byte) [HashLen]byte {
	var out [HashLen]byte
	blake3.DeriveKey(context, input, out[:])
	return out
}
