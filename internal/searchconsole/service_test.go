// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package searchconsole

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/gatherlens/internal/cache"
)

type fakeQueryRunner struct {
	calls   int
	lastReq *QueryRequest
	resp    *QueryResponse
	err     error
}

func (f *fakeQueryRunner) Query(_ context.Context, req *QueryRequest) (*QueryResponse, error) {
	f.calls++
	f.lastReq = req
	return f.resp, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestKeywordsTransformsRows(t *testing.T) {
	runner := &fakeQueryRunner{
		resp: &QueryResponse{
			Rows: []QueryRow{
				{Keys: []string{"wedding venue"}, Clicks: 42, Impressions: 900, CTR: 0.0467, Position: 3.2},
			},
		},
	}
	svc := NewService("https://example.com/", runner, cache.New(5*time.Minute),
		WithClock(fixedClock(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))))

	got, err := svc.Keywords(context.Background(), 30, 0, "", "")
	if err != nil {
		t.Fatalf("Keywords() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	kw := got[0]
	if kw.Query != "wedding venue" || kw.Clicks != 42 || kw.Impressions != 900 {
		t.Errorf("unexpected keyword: %+v", kw)
	}
	// ctr arrives as a fraction and must be a percentage here
	if kw.CTR < 4.66 || kw.CTR > 4.68 {
		t.Errorf("CTR = %v, want ~4.67", kw.CTR)
	}
	if kw.Position != 3.2 {
		t.Errorf("Position = %v, want 3.2", kw.Position)
	}

	req := runner.lastReq
	if req.DataState != "final" {
		t.Errorf("DataState = %q, want final", req.DataState)
	}
	if req.RowLimit != 50 {
		t.Errorf("RowLimit = %d, want default 50", req.RowLimit)
	}
	if req.StartDate != "2026-07-30" || req.EndDate != "2026-08-29" {
		t.Errorf("window = %s..%s, want 2026-07-30..2026-08-29", req.StartDate, req.EndDate)
	}
	if len(req.Dimensions) != 1 || req.Dimensions[0] != "query" {
		t.Errorf("dimensions = %v", req.Dimensions)
	}
}

func TestKeywordsAbsoluteDatesWin(t *testing.T) {
	runner := &fakeQueryRunner{resp: &QueryResponse{}}
	svc := NewService("https://example.com/", runner, cache.New(5*time.Minute))

	if _, err := svc.Keywords(context.Background(), 7, 5, "2026-08-01", "2026-08-07"); err != nil {
		t.Fatalf("Keywords() error: %v", err)
	}
	if runner.lastReq.StartDate != "2026-08-01" || runner.lastReq.EndDate != "2026-08-07" {
		t.Errorf("window = %s..%s, want absolute dates", runner.lastReq.StartDate, runner.lastReq.EndDate)
	}
	if runner.lastReq.RowLimit != 5 {
		t.Errorf("RowLimit = %d, want 5", runner.lastReq.RowLimit)
	}
}

func TestKeywordsCached(t *testing.T) {
	runner := &fakeQueryRunner{resp: &QueryResponse{Rows: []QueryRow{{Keys: []string{"q"}}}}}
	svc := NewService("https://example.com/", runner, cache.New(5*time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := svc.Keywords(context.Background(), 30, 10, "", ""); err != nil {
			t.Fatalf("Keywords() error: %v", err)
		}
	}
	if runner.calls != 1 {
		t.Errorf("calls = %d, want 1", runner.calls)
	}
}

func TestKeywordsNotConfigured(t *testing.T) {
	svc := NewService("", &fakeQueryRunner{}, cache.New(5*time.Minute))

	_, err := svc.Keywords(context.Background(), 30, 10, "", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}

func TestPagesQueriesPageDimension(t *testing.T) {
	runner := &fakeQueryRunner{
		resp: &QueryResponse{
			Rows: []QueryRow{
				{Keys: []string{"https://example.com/events"}, Clicks: 10, Impressions: 100, CTR: 0.1, Position: 5},
			},
		},
	}
	svc := NewService("https://example.com/", runner, cache.New(5*time.Minute))

	got, err := svc.Pages(context.Background(), 30, 0)
	if err != nil {
		t.Fatalf("Pages() error: %v", err)
	}
	if runner.lastReq.Dimensions[0] != "page" {
		t.Errorf("dimension = %q, want page", runner.lastReq.Dimensions[0])
	}
	if runner.lastReq.RowLimit != 20 {
		t.Errorf("RowLimit = %d, want default 20", runner.lastReq.RowLimit)
	}
	if got[0].Page != "https://example.com/events" || got[0].CTR != 10 {
		t.Errorf("unexpected page row: %+v", got[0])
	}
}

func TestUpstreamErrorPropagates(t *testing.T) {
	runner := &fakeQueryRunner{err: errors.New("boom")}
	svc := NewService("https://example.com/", runner, cache.New(5*time.Minute))

	if _, err := svc.Keywords(context.Background(), 30, 10, "", ""); err == nil {
		t.Fatal("expected upstream error to propagate")
	}
}
