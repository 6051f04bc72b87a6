// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auction

import (
	"slices"

	"github.com/luxfi/gix/gxf"
)

// Price is an amount in micro-token units.
type Price = uint64

// ComputeProvider is one SLP in the persistent provider pool.
//
// Invariant: Utilization <= Capacity at all times.
type ComputeProvider struct {
	SLPID               gxf.SLPID            `cbor:"slp_id"`
	SupportedPrecisions []gxf.PrecisionLevel `cbor:"supported_precisions"`
	BasePrice           Price                `cbor:"base_price"`
	Capacity            uint32               `cbor:"capacity"`
	Utilization         uint32               `cbor:"utilization"`
	Region              string               `cbor:"region"`
}

// CanHandle reports whether the provider supports the job's precision
// and has spare capacity.
func (p *ComputeProvider) CanHandle(job *gxf.Job) bool {
	return slices.Contains(p.SupportedPrecisions, job.Precision) &&
		p.Utilization < p.Capacity
}

// Precision surcharge multipliers, expressed in tenths so pricing
// stays in exact integer arithmetic (floating point truncates 22480 x
// 1.15 to 25851 instead of the true floor 25852).
func precisionMultiplierTenths(p gxf.PrecisionLevel) uint64 {
	switch p {
	case gxf.INT8:
		return 10
	case gxf.E5M2:
		return 12
	case gxf.FP8:
		return 15
	case gxf.BF16:
		return 20
	default:
		return 10
	}
}

// PriceFor prices the job on this provider at its current utilization:
//
//	price0 = base_price + 10*seq_len
//	price1 = floor(price0 * precision multiplier)
//	price  = floor(price1 * (1 + 0.5*utilization/capacity))
func (p *ComputeProvider) PriceFor(job *gxf.Job) Price {
	price := p.BasePrice + 10*uint64(job.KVCacheSeqLen)
	price = price * precisionMultiplierTenths(job.Precision) / 10
	// 1 + 0.5*u/c == (2c + u) / 2c
	price = price * (2*uint64(p.Capacity) + uint64(p.Utilization)) / (2 * uint64(p.Capacity))
	return price
}
