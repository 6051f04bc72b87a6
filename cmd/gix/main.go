// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// The gix CLI manages wallets and submits jobs to the auction.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/luxfi/gix/api"
	"github.com/luxfi/gix/config"
	"github.com/luxfi/gix/crypto"
	"github.com/luxfi/gix/gxf"
	"github.com/luxfi/gix/wallet"
)

const defaultNodeAddr = "http://127.0.0.1:50052"

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: gix <command> [flags]

Commands:
  keygen   Generate a new wallet keypair
  submit   Submit a job YAML to the auction
  status   Query auction statistics
  wallet   Display wallet information`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "keygen":
		err = cmdKeygen(os.Args[2:])
	case "submit":
		err = cmdSubmit(os.Args[2:])
	case "status":
		err = cmdStatus(os.Args[2:])
	case "wallet":
		err = cmdWallet(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func cmdKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	output := fs.String("o", wallet.DefaultPath(), "Output path for wallet file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Println("Generating new Dilithium3 keypair...")
	keypair, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	if err := wallet.Save(keypair, *output); err != nil {
		return err
	}

	fmt.Println("Keypair generated successfully")
	fmt.Println("Wallet saved to:", *output)
	fmt.Println("Public key (hex):", hex.EncodeToString(keypair.PublicBytes()))
	return nil
}

// jobSpec is the job description loaded from YAML.
type jobSpec struct {
	Model         string `yaml:"model"`
	Precision     string `yaml:"precision"`
	KVCacheSeqLen uint32 `yaml:"kv_cache_seq_len"`
	TokenCount    uint32 `yaml:"token_count"`
	BatchSize     uint32 `yaml:"batch_size"`
}

func loadJobSpec(path string) (*jobSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	spec := &jobSpec{
		TokenCount: 128,
		BatchSize:  1,
	}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parsing job file: %w", err)
	}
	if spec.Model == "" || spec.Precision == "" || spec.KVCacheSeqLen == 0 {
		return nil, fmt.Errorf("job file must set model, precision, and kv_cache_seq_len")
	}
	return spec, nil
}

func cmdSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	walletPath := fs.String("w", wallet.DefaultPath(), "Wallet file path")
	nodeAddr := fs.String("n", defaultNodeAddr, "GCAM node address")
	priority := fs.Uint("p", 128, "Job priority (0-255)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: gix submit <job.yaml>")
	}
	if *priority > 255 {
		return fmt.Errorf("priority must be 0-255")
	}

	fmt.Printf("Loading job from %s...\n", fs.Arg(0))
	spec, err := loadJobSpec(fs.Arg(0))
	if err != nil {
		return err
	}

	precision := gxf.PrecisionLevel(strings.ToUpper(spec.Precision))
	if !precision.Valid() {
		return fmt.Errorf("unknown precision level %q", spec.Precision)
	}

	fmt.Println("Loading wallet...")
	keypair, err := wallet.Load(*walletPath)
	if err != nil {
		return err
	}

	job := gxf.NewJob(gxf.NewJobID(), precision, spec.KVCacheSeqLen)
	job.Parameters["model"] = spec.Model
	job.Parameters["token_count"] = strconv.FormatUint(uint64(spec.TokenCount), 10)
	job.Parameters[gxf.ParamBatchSize] = strconv.FormatUint(uint64(spec.BatchSize), 10)

	envelope, err := gxf.FromJob(job, uint8(*priority))
	if err != nil {
		return err
	}
	envelope.Meta.ExpiresAt = envelope.Meta.CreatedAt + config.DefaultEnvelopeTTL

	fmt.Println("Signing envelope...")
	envelope.Signature = keypair.Sign(envelope.Payload)

	fmt.Printf("Connecting to %s...\n", *nodeAddr)
	client := api.NewClient(*nodeAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Submitting job to auction...")
	resp, err := client.RunAuction(ctx, job, uint8(*priority))
	if err != nil {
		return fmt.Errorf("auction failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Job submitted successfully")
	fmt.Println()
	fmt.Println("Auction Results:")
	fmt.Println("  Job ID:  ", resp.JobID)
	fmt.Println("  SLP ID:  ", resp.SLPID)
	fmt.Println("  Lane ID: ", resp.LaneID)
	fmt.Printf("  Price:    %d uGIX\n", resp.Price)
	fmt.Println("  Route:   ", strings.Join(resp.Route, " -> "))
	return nil
}

func cmdStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	nodeAddr := fs.String("n", defaultNodeAddr, "GCAM node address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Printf("Connecting to %s...\n", *nodeAddr)
	client := api.NewClient(*nodeAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := client.AuctionStats(ctx)
	if err != nil {
		return fmt.Errorf("fetching stats: %w", err)
	}

	fmt.Println()
	fmt.Println("=== GCAM Auction Statistics ===")
	fmt.Println()
	fmt.Println("Total Auctions: ", stats.TotalAuctions)
	fmt.Println("Total Matches:  ", stats.TotalMatches)
	fmt.Printf("Total Volume:    %d uGIX\n", stats.TotalVolume)

	if len(stats.MatchesByPrecision) > 0 {
		fmt.Println()
		fmt.Println("Matches by Precision:")
		for precision, count := range stats.MatchesByPrecision {
			fmt.Printf("  %-10s %d\n", precision, count)
		}
	}
	if len(stats.MatchesByLane) > 0 {
		fmt.Println()
		fmt.Println("Matches by Lane:")
		for lane, count := range stats.MatchesByLane {
			fmt.Printf("  %-10s %d\n", gxf.LaneID(lane), count)
		}
	}
	return nil
}

func cmdWallet(args []string) error {
	fs := flag.NewFlagSet("wallet", flag.ExitOnError)
	walletPath := fs.String("f", wallet.DefaultPath(), "Wallet file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	keypair, err := wallet.Load(*walletPath)
	if err != nil {
		return err
	}
	fmt.Println("Wallet:    ", *walletPath)
	fmt.Println("Public key:", hex.EncodeToString(keypair.PublicBytes()))
	return nil
}
