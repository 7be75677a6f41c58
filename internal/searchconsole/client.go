// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

// Package searchconsole fetches search-performance data (queries and
// pages) from the Google Search Console API.
//
// Results are requested with dataState "final" so the multi-day ingestion
// lag of fresh search data never produces partial rows. CTR arrives as a
// fraction and is converted to a percentage exactly once, in the service
// transforms.
package searchconsole

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultBaseURL = "https://searchconsole.googleapis.com/webmasters/v3"

	requestTimeout = 10 * time.Second

	maxErrorBodySize = 64 * 1024 // 64KB
)

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// QueryRequest is the body of a searchAnalytics.query call.
type QueryRequest struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Dimensions []string `json:"dimensions"`
	RowLimit   int      `json:"rowLimit,omitempty"`
	DataState  string   `json:"dataState,omitempty"`
}

// QueryRow is one row of a search-performance response. Keys holds the
// dimension values in request order; ctr is a fraction in [0,1].
type QueryRow struct {
	Keys        []string `json:"keys"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

// Key returns the i-th dimension value, "" when missing.
func (r QueryRow) Key(i int) string {
	if i < 0 || i >= len(r.Keys) {
		return ""
	}
	return r.Keys[i]
}

// QueryResponse is a searchAnalytics.query response. Rows is nil when the
// window holds no data.
type QueryResponse struct {
	Rows []QueryRow `json:"rows"`
}

// QueryRunner is the query-execution contract consumed by Service.
type QueryRunner interface {
	Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error)
}

// Client handles communication with the Search Console API for one site.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	baseURL        string
	siteURL        string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Tests point this at a local
// httptest server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a Search Console client for one verified site.
// httpClient must carry service-account authentication with the
// webmasters.readonly scope.
func NewClient(siteURL string, httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = requestTimeout
	}

	c := &Client{
		baseURL:        defaultBaseURL,
		siteURL:        siteURL,
		client:         httpClient,
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query executes a search-performance query. HTTP 429 responses are
// retried with exponential backoff (1s, 2s, 4s, 8s, 16s), honoring
// Retry-After when present.
func (c *Client) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/sites/%s/searchAnalytics/query", c.baseURL, url.PathEscape(c.siteURL))

	resp, err := c.doRequestWithRateLimit(ctx, reqURL, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to make query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("query request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var out QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &out, nil
}

func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string, payload []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}
