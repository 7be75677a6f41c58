// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

/*
client.go - GA4 Data API Client

This file provides the HTTP communication layer for the Google Analytics
Data API (v1beta). Two endpoints are used:

  - properties/{id}:runReport         historical report queries
  - properties/{id}:runRealtimeReport active users over the last 30 minutes

Resilience Mechanisms:
  - Rate Limiting: Exponential backoff (1s, 2s, 4s, 8s, 16s) on HTTP 429,
    honoring Retry-After when present
  - Retries: Max 5 attempts for rate-limited requests
  - Timeout: 10 seconds per request
  - Context: All methods accept context for cancellation

Authentication is handled by the injected *http.Client, built via
internal/googleauth with the analytics.readonly scope.

Related Files:
  - breaker.go: circuit breaker wrapper around this client
  - service.go: per-dimension metric fetchers built on top of the client
*/
package ga

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gatherlens/internal/models"
)

const (
	defaultBaseURL = "https://analyticsdata.googleapis.com/v1beta"

	// requestTimeout bounds every upstream call so one slow report cannot
	// stall an aggregation request.
	requestTimeout = 10 * time.Second

	// maxErrorBodySize limits how much of an error response body is read
	// for diagnostics.
	maxErrorBodySize = 64 * 1024 // 64KB
)

// readBodyForError reads the response body for error reporting (max 64KB).
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

// Dimension names a report dimension.
type Dimension struct {
	Name string `json:"name"`
}

// Metric names a report metric.
type Metric struct {
	Name string `json:"name"`
}

// DimensionOrderBy sorts report rows by a dimension value.
type DimensionOrderBy struct {
	DimensionName string `json:"dimensionName"`
}

// MetricOrderBy sorts report rows by a metric value.
type MetricOrderBy struct {
	MetricName string `json:"metricName"`
}

// OrderBy is one sort clause of a report query. Exactly one of Dimension
// or Metric is set.
type OrderBy struct {
	Dimension *DimensionOrderBy `json:"dimension,omitempty"`
	Metric    *MetricOrderBy    `json:"metric,omitempty"`
	Desc      bool              `json:"desc,omitempty"`
}

// RunReportRequest is the body of a runReport call. The API serializes
// limit as a string-encoded int64.
type RunReportRequest struct {
	DateRanges []models.DateRange `json:"dateRanges"`
	Dimensions []Dimension        `json:"dimensions,omitempty"`
	Metrics    []Metric           `json:"metrics"`
	OrderBys   []OrderBy          `json:"orderBys,omitempty"`
	Limit      int64              `json:"limit,omitempty,string"`
}

// RunRealtimeReportRequest is the body of a runRealtimeReport call.
type RunRealtimeReportRequest struct {
	Metrics []Metric `json:"metrics"`
}

// ReportValue is a single dimension or metric cell. All values arrive as
// strings regardless of type.
type ReportValue struct {
	Value string `json:"value"`
}

// ReportRow is one row of a report response.
type ReportRow struct {
	DimensionValues []ReportValue `json:"dimensionValues"`
	MetricValues    []ReportValue `json:"metricValues"`
}

// DimensionOr returns the i-th dimension value, or fallback when the cell
// is missing or empty.
func (r ReportRow) DimensionOr(i int, fallback string) string {
	if i < 0 || i >= len(r.DimensionValues) || r.DimensionValues[i].Value == "" {
		return fallback
	}
	return r.DimensionValues[i].Value
}

// MetricInt parses the i-th metric value as an integer, 0 on missing or
// unparseable cells.
func (r ReportRow) MetricInt(i int) int {
	if i < 0 || i >= len(r.MetricValues) {
		return 0
	}
	n, err := strconv.Atoi(r.MetricValues[i].Value)
	if err != nil {
		// Integer metrics can arrive as "12.0" from some API surfaces.
		f, ferr := strconv.ParseFloat(r.MetricValues[i].Value, 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return n
}

// MetricFloat parses the i-th metric value as a float, 0 on missing or
// unparseable cells.
func (r ReportRow) MetricFloat(i int) float64 {
	if i < 0 || i >= len(r.MetricValues) {
		return 0
	}
	f, err := strconv.ParseFloat(r.MetricValues[i].Value, 64)
	if err != nil {
		return 0
	}
	return f
}

// RunReportResponse is the subset of the report response GatherLens
// consumes. Rows is nil when the window holds no data.
type RunReportResponse struct {
	Rows     []ReportRow `json:"rows"`
	RowCount int         `json:"rowCount"`
}

// ReportRunner is the report-execution contract consumed by Service. It is
// implemented by Client, wrapped by CircuitBreakerClient, and substituted
// by fakes in tests.
type ReportRunner interface {
	RunReport(ctx context.Context, req *RunReportRequest) (*RunReportResponse, error)
	RunRealtimeReport(ctx context.Context, req *RunRealtimeReportRequest) (*RunReportResponse, error)
}

// Client handles communication with the GA4 Data API.
//
// Thread Safety: Safe for concurrent use. Each request creates its own
// HTTP request.
type Client struct {
	baseURL        string
	propertyID     string
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

// NewClient creates a GA4 Data API client for one property. httpClient
// must carry service-account authentication (see internal/googleauth); a
// nil httpClient gets a plain client, useful only in tests.
func NewClient(propertyID string, httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = requestTimeout
	}

	c := &Client{
		baseURL:        defaultBaseURL,
		propertyID:     propertyID,
		client:         httpClient,
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequestWithRateLimit performs a POST with automatic rate limit
// handling. Implements exponential backoff for HTTP 429 responses,
// honoring the Retry-After header when present. The context is used for
// cancellation during backoff waits.
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

		// Exponential backoff: 1s, 2s, 4s, 8s, 16s
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

// makeRequest handles the common report call boilerplate: marshal the
// request body, POST to the property endpoint, check HTTP status, and
// decode the JSON response.
func (c *Client) makeRequest(ctx context.Context, endpoint string, reqBody, result interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
	}

	reqURL := fmt.Sprintf("%s/properties/%s:%s", c.baseURL, c.propertyID, endpoint)

	resp, err := c.doRequestWithRateLimit(ctx, reqURL, payload)
	if err != nil {
		return fmt.Errorf("failed to make %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	return nil
}

// RunReport executes a historical report query against the property.
func (c *Client) RunReport(ctx context.Context, req *RunReportRequest) (*RunReportResponse, error) {
	var out RunReportResponse
	if err := c.makeRequest(ctx, "runReport", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunRealtimeReport executes a realtime report query against the property.
func (c *Client) RunRealtimeReport(ctx context.Context, req *RunRealtimeReportRequest) (*RunReportResponse, error) {
	var out RunReportResponse
	if err := c.makeRequest(ctx, "runRealtimeReport", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
