// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/luxfi/gix/gxf"
)

// Client is a typed HTTP client for one GIX service endpoint.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the service at base, e.g.
// "http://127.0.0.1:50052".
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) post(ctx context.Context, path string, req, resp interface{}) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()
	return json.NewDecoder(httpResp.Body).Decode(resp)
}

func (c *Client) get(ctx context.Context, path string, resp interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", httpResp.Status)
	}
	return json.NewDecoder(httpResp.Body).Decode(resp)
}

// RouteEnvelope submits an envelope to the router and returns the
// chosen lane.
func (c *Client) RouteEnvelope(ctx context.Context, envelope *gxf.Envelope) (gxf.LaneID, error) {
	wire, err := envelope.Bytes()
	if err != nil {
		return 0, err
	}
	var resp RouteEnvelopeResponse
	if err := c.post(ctx, "/v1/route_envelope", RouteEnvelopeRequest{Envelope: wire}, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, errors.New(resp.Error)
	}
	return gxf.LaneID(resp.LaneID), nil
}

// RouterStats fetches the router's counters.
func (c *Client) RouterStats(ctx context.Context) (*RouterStatsResponse, error) {
	resp := &RouterStatsResponse{}
	if err := c.get(ctx, "/v1/router_stats", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RunAuction submits a job to the auction engine.
func (c *Client) RunAuction(ctx context.Context, job *gxf.Job, priority uint8) (*RunAuctionResponse, error) {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	resp := &RunAuctionResponse{}
	if err := c.post(ctx, "/v1/run_auction", RunAuctionRequest{Job: jobBytes, Priority: priority}, resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.New(resp.Error)
	}
	return resp, nil
}

// AuctionStats fetches the auction engine's counters.
func (c *Client) AuctionStats(ctx context.Context) (*AuctionStatsResponse, error) {
	resp := &AuctionStatsResponse{}
	if err := c.get(ctx, "/v1/auction_stats", resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ExecuteJob submits an envelope to the execution runtime.
func (c *Client) ExecuteJob(ctx context.Context, envelope *gxf.Envelope) (*ExecuteJobResponse, error) {
	wire, err := envelope.Bytes()
	if err != nil {
		return nil, err
	}
	resp := &ExecuteJobResponse{}
	if err := c.post(ctx, "/v1/execute_job", ExecuteJobRequest{Envelope: wire}, resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.New(resp.Error)
	}
	return resp, nil
}

// RuntimeStats fetches the runtime's counters.
func (c *Client) RuntimeStats(ctx context.Context) (*RuntimeStatsResponse, error) {
	resp := &RuntimeStatsResponse{}
	if err := c.get(ctx, "/v1/runtime_stats", resp); err != nil {
		return nil, err
	}
	return resp, nil
}
