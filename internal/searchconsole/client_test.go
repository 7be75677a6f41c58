// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package searchconsole

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestClientQueryEscapesSiteURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(QueryResponse{
			Rows: []QueryRow{{Keys: []string{"venue hire"}, Clicks: 3}},
		})
	}))
	defer srv.Close()

	c := NewClient("https://example.com/", srv.Client(), WithBaseURL(srv.URL))

	resp, err := c.Query(context.Background(), &QueryRequest{
		StartDate:  "2026-08-01",
		EndDate:    "2026-08-29",
		Dimensions: []string{"query"},
		RowLimit:   50,
		DataState:  "final",
	})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}

	// The site URL is a full URL and must be path-escaped inside the path.
	want := "/sites/https:%2F%2Fexample.com%2F/searchAnalytics/query"
	if gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
	if resp.Rows[0].Key(0) != "venue hire" {
		t.Errorf("unexpected row: %+v", resp.Rows[0])
	}
}

func TestClientQueryRetriesOn429(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(QueryResponse{})
	}))
	defer srv.Close()

	c := NewClient("https://example.com/", srv.Client(), WithBaseURL(srv.URL))
	c.retryBaseDelay = time.Millisecond

	if _, err := c.Query(context.Background(), &QueryRequest{}); err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestClientQueryErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("https://example.com/", srv.Client(), WithBaseURL(srv.URL))

	if _, err := c.Query(context.Background(), &QueryRequest{}); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
