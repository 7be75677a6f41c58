// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

/*
client.go - Airtable REST Client

This file provides the HTTP layer for the secondary analytics store, an
Airtable base with one table per metric family (summary, pages, sources,
devices, keywords).

Airtable API constraints handled here:
  - Batch limit: create, update, and delete accept at most 10 records per
    call; larger sets are chunked and sent sequentially
  - Rate limit: 5 requests per second per base, enforced client-side with
    a token bucket so bursts of chunked writes never trip HTTP 429
  - Filtering: reads use filterByFormula on the {date} field

A circuit breaker wraps every request so a broken base degrades reads to
the live analytics path instead of stalling aggregation requests.

Related Files:
  - store.go: typed row parsing, validation, and the Latest* and Save* helpers
*/
package airtable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/gatherlens/internal/logging"
	"github.com/tomtom215/gatherlens/internal/metrics"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"

	requestTimeout = 10 * time.Second

	// batchSize is Airtable's maximum record count per write call.
	batchSize = 10

	// requestsPerSecond is Airtable's documented per-base rate limit.
	requestsPerSecond = 5

	maxErrorBodySize = 64 * 1024 // 64KB
)

// ErrNotConfigured is returned when the API key or base ID is missing.
var ErrNotConfigured = errors.New("airtable: API key or base ID not configured")

// Table names one of the metric tables in the analytics base.
type Table string

// The five metric tables of the analytics base.
const (
	TableSummary  Table = "summary"
	TablePages    Table = "pages"
	TableSources  Table = "sources"
	TableDevices  Table = "devices"
	TableKeywords Table = "keywords"
)

// Tables maps logical table names to the Airtable table IDs of one
// deployment.
type Tables struct {
	Summary  string
	Pages    string
	Sources  string
	Devices  string
	Keywords string
}

// id resolves a logical table name to its configured table ID.
func (t Tables) id(table Table) (string, error) {
	var id string
	switch table {
	case TableSummary:
		id = t.Summary
	case TablePages:
		id = t.Pages
	case TableSources:
		id = t.Sources
	case TableDevices:
		id = t.Devices
	case TableKeywords:
		id = t.Keywords
	default:
		return "", fmt.Errorf("airtable: unknown table %q", table)
	}
	if id == "" {
		return "", fmt.Errorf("airtable: table %q has no configured ID", table)
	}
	return id, nil
}

// Record is one Airtable record: an opaque ID plus a loosely-typed field
// map. ID is empty on records being created.
type Record struct {
	ID     string                 `json:"id,omitempty"`
	Fields map[string]interface{} `json:"fields"`
}

type recordsResponse struct {
	Records []Record `json:"records"`
}

// UpsertResult reports what a date-keyed upsert did.
type UpsertResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// Add merges another result into this one.
func (u *UpsertResult) Add(other UpsertResult) {
	u.Created += other.Created
	u.Updated += other.Updated
	u.Deleted += other.Deleted
}

// Client handles communication with one Airtable base.
//
// Thread Safety: Safe for concurrent use. The rate limiter serializes
// request admission across goroutines.
type Client struct {
	baseURL string
	apiKey  string
	baseID  string
	tables  Tables
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[*recordsResponse]
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

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimit overrides the client-side request rate. Tests raise it so
// chunked-write tests finish instantly.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a client for one Airtable base.
func NewClient(apiKey, baseID string, tables Tables, opts ...ClientOption) *Client {
	cbName := "airtable-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		baseID:  baseID,
		tables:  tables,
		client:  &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cb = gobreaker.NewCircuitBreaker[*recordsResponse](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return c
}

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

// request performs one API call against a table: rate-limit admission,
// circuit breaker, bearer auth, JSON decode.
func (c *Client) request(ctx context.Context, method, operation string, table Table, params url.Values, body interface{}) (*recordsResponse, error) {
	if c.apiKey == "" || c.baseID == "" {
		return nil, ErrNotConfigured
	}

	tableID, err := c.tables.id(table)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	start := time.Now()

	result, err := c.cb.Execute(func() (*recordsResponse, error) {
		return c.doRequest(ctx, method, tableID, params, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordUpstreamRequest("airtable", operation, "rejected", time.Since(start))
			logging.Warn().Err(err).Str("operation", operation).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.RecordUpstreamRequest("airtable", operation, "failure", time.Since(start))
		}
		return nil, err
	}

	metrics.RecordUpstreamRequest("airtable", operation, "success", time.Since(start))
	return result, nil
}

func (c *Client) doRequest(ctx context.Context, method, tableID string, params url.Values, body interface{}) (*recordsResponse, error) {
	reqURL := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, tableID)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := readBodyForError(resp.Body)
		return nil, fmt.Errorf("airtable request failed with status %d: %s", resp.StatusCode, string(errBody))
	}

	var out recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode airtable response: %w", err)
	}
	return &out, nil
}

// GetRecordsByDate lists the records of one table whose {date} field
// equals date exactly.
func (c *Client) GetRecordsByDate(ctx context.Context, table Table, date string) ([]Record, error) {
	params := url.Values{}
	params.Set("filterByFormula", fmt.Sprintf("{date}='%s'", date))

	resp, err := c.request(ctx, http.MethodGet, "list", table, params, nil)
	if err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// GetRecordsByDateRange lists the records of one table whose {date} field
// falls inside [startDate, endDate], newest first.
func (c *Client) GetRecordsByDateRange(ctx context.Context, table Table, startDate, endDate string) ([]Record, error) {
	params := url.Values{}
	params.Set("filterByFormula", fmt.Sprintf("AND({date}>='%s', {date}<='%s')", startDate, endDate))
	params.Set("sort[0][field]", "date")
	params.Set("sort[0][direction]", "desc")

	resp, err := c.request(ctx, http.MethodGet, "list", table, params, nil)
	if err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// CreateRecords inserts field maps into one table, chunked into batches
// of 10 and sent sequentially. Returns the created records.
func (c *Client) CreateRecords(ctx context.Context, table Table, fields []map[string]interface{}) ([]Record, error) {
	var created []Record

	for start := 0; start < len(fields); start += batchSize {
		end := start + batchSize
		if end > len(fields) {
			end = len(fields)
		}

		batch := make([]Record, 0, end-start)
		for _, f := range fields[start:end] {
			batch = append(batch, Record{Fields: f})
		}

		resp, err := c.request(ctx, http.MethodPost, "create", table, nil, map[string]interface{}{
			"records": batch,
		})
		if err != nil {
			return created, err
		}
		created = append(created, resp.Records...)
	}

	return created, nil
}

// UpdateRecords patches existing records by ID, chunked into batches of
// 10 and sent sequentially.
func (c *Client) UpdateRecords(ctx context.Context, table Table, records []Record) ([]Record, error) {
	var updated []Record

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		resp, err := c.request(ctx, http.MethodPatch, "update", table, nil, map[string]interface{}{
			"records": records[start:end],
		})
		if err != nil {
			return updated, err
		}
		updated = append(updated, resp.Records...)
	}

	return updated, nil
}

// DeleteRecordsByDate removes every record of one table whose {date}
// field equals date. Returns the number of records deleted.
func (c *Client) DeleteRecordsByDate(ctx context.Context, table Table, date string) (int, error) {
	existing, err := c.GetRecordsByDate(ctx, table, date)
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(existing))
	for _, r := range existing {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}

	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		for _, id := range ids[start:end] {
			params.Add("records[]", id)
		}

		if _, err := c.request(ctx, http.MethodDelete, "delete", table, params, nil); err != nil {
			return 0, err
		}
	}

	return len(ids), nil
}

// UpsertByDate replaces the records stored for one date: delete whatever
// exists for the date, then create the new set. Delete-then-create is
// used instead of a merge because the per-entity tables hold several rows
// per date and Airtable upserts cannot key on a non-unique field.
func (c *Client) UpsertByDate(ctx context.Context, table Table, date string, fields []map[string]interface{}) (UpsertResult, error) {
	deleted, err := c.DeleteRecordsByDate(ctx, table, date)
	if err != nil {
		return UpsertResult{}, err
	}

	if len(fields) > 0 {
		if _, err := c.CreateRecords(ctx, table, fields); err != nil {
			return UpsertResult{Deleted: deleted}, err
		}
	}

	return UpsertResult{Created: len(fields), Deleted: deleted}, nil
}

func breakerStateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
