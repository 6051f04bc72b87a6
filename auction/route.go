// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auction

import "github.com/luxfi/gix/gxf"

// Route is one candidate delivery path in the persistent route table.
type Route struct {
	ID        string     `cbor:"id"`
	LaneID    gxf.LaneID `cbor:"lane_id"`
	Path      []string   `cbor:"path"`
	LatencyMS uint64     `cbor:"latency_ms"`
	Cost      Price      `cbor:"cost"`
}

// Score is the dimensionless route preference; lower is better.
func (r *Route) Score() float64 {
	return float64(r.LatencyMS)/1000.0 + float64(r.Cost)/1_000_000.0
}
