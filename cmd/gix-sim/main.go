// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// The gix-sim tool drives the full localnet pipeline: it submits
// random jobs through the router, the auction, and the runtime and
// reports aggregate outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/gix/api"
	"github.com/luxfi/gix/config"
	"github.com/luxfi/gix/crypto"
	"github.com/luxfi/gix/gxf"
)

func main() {
	routerAddr := flag.String("router", "http://127.0.0.1:50051", "AJR router address")
	auctionAddr := flag.String("auction", "http://127.0.0.1:50052", "GCAM node address")
	runtimeAddr := flag.String("runtime", "http://127.0.0.1:50053", "GSEE runtime address")
	ticks := flag.Int("ticks", 10, "Number of jobs to submit")
	interval := flag.Duration("interval", time.Second, "Delay between jobs")
	seed := flag.Int64("seed", 0, "Random seed (0 for time-based)")
	flag.Parse()

	logger := log.New("gix-sim")

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	logger.Info("starting localnet simulation", "ticks", *ticks, "seed", *seed)

	routerClient := api.NewClient(*routerAddr)
	auctionClient := api.NewClient(*auctionAddr)
	runtimeClient := api.NewClient(*runtimeAddr)

	ctx := context.Background()
	var routed, matched, executed, failed int

	for tick := 0; tick < *ticks; tick++ {
		job := randomJob(rng)
		priority := uint8(rng.Intn(256))

		envelope, err := gxf.FromJob(job, priority)
		if err != nil {
			logger.Error("building envelope", "err", err)
			failed++
			continue
		}
		envelope.Meta.ExpiresAt = envelope.Meta.CreatedAt + config.DefaultEnvelopeTTL

		laneID, err := routerClient.RouteEnvelope(ctx, envelope)
		if err != nil {
			logger.Warn("routing failed", "tick", tick, "err", err)
			failed++
			continue
		}
		routed++

		match, err := auctionClient.RunAuction(ctx, job, priority)
		if err != nil {
			logger.Warn("auction failed", "tick", tick, "err", err)
			failed++
			continue
		}
		matched++

		result, err := runtimeClient.ExecuteJob(ctx, envelope)
		if err != nil {
			logger.Warn("execution failed", "tick", tick, "err", err)
			failed++
			continue
		}
		executed++

		logger.Info("job completed",
			"tick", tick,
			"jobID", job.JobID,
			"lane", laneID,
			"slp", match.SLPID,
			"price", match.Price,
			"durationMS", result.DurationMS,
		)

		time.Sleep(*interval)
	}

	fmt.Println()
	fmt.Println("=== Simulation Summary ===")
	fmt.Println("Jobs submitted:", *ticks)
	fmt.Println("Routed:        ", routed)
	fmt.Println("Matched:       ", matched)
	fmt.Println("Executed:      ", executed)
	fmt.Println("Failed:        ", failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// randomJob builds a job with a hash-derived id and randomized
// precision, sequence length, and parameters.
func randomJob(rng *rand.Rand) *gxf.Job {
	seed := make([]byte, 16)
	rng.Read(seed)
	digest := crypto.Hash(seed)

	var id gxf.JobID
	copy(id[:], digest[:gxf.JobIDLen])

	precisions := gxf.Precisions()
	precision := precisions[rng.Intn(len(precisions))]
	seqLen := uint32(512 + rng.Intn(3584))

	job := gxf.NewJob(id, precision, seqLen)
	if rng.Intn(2) == 0 {
		job.Parameters[gxf.ParamBatchSize] = strconv.Itoa(1 + rng.Intn(31))
	}
	if rng.Intn(2) == 0 {
		job.Parameters[gxf.ParamRegion] = []string{"US", "EU"}[rng.Intn(2)]
	}
	return job
}
