// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package sync

import (
	"context"
	"errors"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/tomtom215/gatherlens/internal/airtable"
	"github.com/tomtom215/gatherlens/internal/models"
)

type fakeAnalytics struct {
	mu    gosync.Mutex
	calls map[string][]string // slot -> start dates seen
	errs  map[string]error
}

func newFakeAnalytics() *fakeAnalytics {
	return &fakeAnalytics{calls: make(map[string][]string), errs: make(map[string]error)}
}

func (f *fakeAnalytics) record(slot, startDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[slot] = append(f.calls[slot], startDate)
	return f.errs[slot]
}

func (f *fakeAnalytics) dates(slot string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls[slot]...)
}

func (f *fakeAnalytics) Summary(ctx context.Context, days int, startDate, endDate string) (*models.Summary, error) {
	if err := f.record("summary", startDate); err != nil {
		return nil, err
	}
	return &models.Summary{TotalUsers: 40, Sessions: 55}, nil
}

func (f *fakeAnalytics) TopPages(ctx context.Context, days, limit int, startDate, endDate string) ([]models.PageStat, error) {
	if err := f.record("pages", startDate); err != nil {
		return nil, err
	}
	return []models.PageStat{{Path: "/", Title: "Home", Views: 30}, {Path: "/events", Title: "Events", Views: 12}}, nil
}

func (f *fakeAnalytics) SourceMedium(ctx context.Context, days int, startDate, endDate string) ([]models.SourceMedium, error) {
	if err := f.record("sources", startDate); err != nil {
		return nil, err
	}
	return []models.SourceMedium{{Source: "google", Medium: "organic", Users: 25}}, nil
}

func (f *fakeAnalytics) Devices(ctx context.Context, days int, startDate, endDate string) ([]models.DeviceStat, error) {
	if err := f.record("devices", startDate); err != nil {
		return nil, err
	}
	return []models.DeviceStat{{Device: "mobile", Users: 28}, {Device: "desktop", Users: 12}}, nil
}

type fakeSearch struct {
	mu    gosync.Mutex
	dates []string
	err   error
}

func (f *fakeSearch) Keywords(ctx context.Context, days, limit int, startDate, endDate string) ([]models.SearchKeyword, error) {
	f.mu.Lock()
	f.dates = append(f.dates, startDate)
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return []models.SearchKeyword{{Query: "wedding venue", Clicks: 8, Impressions: 120}}, nil
}

type savedBatch struct {
	date  string
	count int
}

type fakeSnapshotStore struct {
	mu    gosync.Mutex
	saves map[string][]savedBatch // table -> batches
	errs  map[string]error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{saves: make(map[string][]savedBatch), errs: make(map[string]error)}
}

func (f *fakeSnapshotStore) save(table, date string, count int) (airtable.UpsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[table]; err != nil {
		return airtable.UpsertResult{}, err
	}
	f.saves[table] = append(f.saves[table], savedBatch{date: date, count: count})
	return airtable.UpsertResult{Created: count}, nil
}

func (f *fakeSnapshotStore) batches(table string) []savedBatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]savedBatch(nil), f.saves[table]...)
}

func (f *fakeSnapshotStore) SaveSummary(ctx context.Context, date string, data models.Summary) (airtable.UpsertResult, error) {
	return f.save("summary", date, 1)
}

func (f *fakeSnapshotStore) SavePages(ctx context.Context, date string, pages []models.PageStat) (airtable.UpsertResult, error) {
	return f.save("pages", date, len(pages))
}

func (f *fakeSnapshotStore) SaveSources(ctx context.Context, date string, sources []models.SourceMedium) (airtable.UpsertResult, error) {
	return f.save("sources", date, len(sources))
}

func (f *fakeSnapshotStore) SaveDevices(ctx context.Context, date string, devices []models.DeviceStat) (airtable.UpsertResult, error) {
	return f.save("devices", date, len(devices))
}

func (f *fakeSnapshotStore) SaveKeywords(ctx context.Context, date string, keywords []models.SearchKeyword) (airtable.UpsertResult, error) {
	return f.save("keywords", date, len(keywords))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func TestTriggerSyncSnapshotsYesterday(t *testing.T) {
	analytics := newFakeAnalytics()
	search := &fakeSearch{}
	store := newFakeSnapshotStore()
	m := NewManager(analytics, search, store, Config{Enabled: true}, WithClock(fixedClock(testNow)))

	if err := m.TriggerSync(); err != nil {
		t.Fatalf("TriggerSync() error = %v", err)
	}

	const wantDate = "2026-08-28"
	for _, slot := range []string{"summary", "pages", "sources", "devices"} {
		dates := analytics.dates(slot)
		if len(dates) != 1 || dates[0] != wantDate {
			t.Errorf("%s fetch dates = %v, want [%s]", slot, dates, wantDate)
		}
	}
	if len(search.dates) != 1 || search.dates[0] != wantDate {
		t.Errorf("keywords fetch dates = %v, want [%s]", search.dates, wantDate)
	}

	for table, wantCount := range map[string]int{"summary": 1, "pages": 2, "sources": 1, "devices": 2, "keywords": 1} {
		batches := store.batches(table)
		if len(batches) != 1 {
			t.Fatalf("%s saves = %d, want 1", table, len(batches))
		}
		if batches[0].date != wantDate {
			t.Errorf("%s save date = %s, want %s", table, batches[0].date, wantDate)
		}
		if batches[0].count != wantCount {
			t.Errorf("%s save count = %d, want %d", table, batches[0].count, wantCount)
		}
	}

	if got := m.LastSyncTime(); !got.Equal(testNow) {
		t.Errorf("LastSyncTime() = %v, want %v", got, testNow)
	}
}

func TestTriggerSyncSkipsKeywordsWithoutSearchSource(t *testing.T) {
	analytics := newFakeAnalytics()
	store := newFakeSnapshotStore()
	m := NewManager(analytics, nil, store, Config{Enabled: true}, WithClock(fixedClock(testNow)))

	if err := m.TriggerSync(); err != nil {
		t.Fatalf("TriggerSync() error = %v", err)
	}

	if batches := store.batches("keywords"); len(batches) != 0 {
		t.Errorf("keywords saves = %d, want 0", len(batches))
	}
	if batches := store.batches("summary"); len(batches) != 1 {
		t.Errorf("summary saves = %d, want 1", len(batches))
	}
}

func TestTriggerSyncContinuesAfterFetchFailure(t *testing.T) {
	analytics := newFakeAnalytics()
	analytics.errs["pages"] = errors.New("quota exceeded")
	search := &fakeSearch{}
	store := newFakeSnapshotStore()
	m := NewManager(analytics, search, store, Config{Enabled: true}, WithClock(fixedClock(testNow)))

	err := m.TriggerSync()
	if err == nil {
		t.Fatal("TriggerSync() error = nil, want pages failure")
	}
	if !strings.Contains(err.Error(), "pages") {
		t.Errorf("error = %v, want mention of pages", err)
	}

	if batches := store.batches("pages"); len(batches) != 0 {
		t.Errorf("pages saves = %d, want 0", len(batches))
	}
	for _, table := range []string{"summary", "sources", "devices", "keywords"} {
		if batches := store.batches(table); len(batches) != 1 {
			t.Errorf("%s saves = %d, want 1", table, len(batches))
		}
	}

	if got := m.LastSyncTime(); !got.IsZero() {
		t.Errorf("LastSyncTime() = %v, want zero after failed run", got)
	}
}

func TestTriggerSyncReportsSaveFailure(t *testing.T) {
	analytics := newFakeAnalytics()
	search := &fakeSearch{}
	store := newFakeSnapshotStore()
	store.errs["devices"] = errors.New("airtable unavailable")
	m := NewManager(analytics, search, store, Config{Enabled: true}, WithClock(fixedClock(testNow)))

	err := m.TriggerSync()
	if err == nil {
		t.Fatal("TriggerSync() error = nil, want devices failure")
	}
	if !strings.Contains(err.Error(), "devices") {
		t.Errorf("error = %v, want mention of devices", err)
	}
	if batches := store.batches("summary"); len(batches) != 1 {
		t.Errorf("summary saves = %d, want 1", len(batches))
	}
}

func TestTriggerSyncSerializesConcurrentRuns(t *testing.T) {
	analytics := newFakeAnalytics()
	store := newFakeSnapshotStore()
	m := NewManager(analytics, nil, store, Config{Enabled: true}, WithClock(fixedClock(testNow)))

	var wg gosync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.TriggerSync(); err != nil {
				t.Errorf("TriggerSync() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if batches := store.batches("summary"); len(batches) != 2 {
		t.Errorf("summary saves = %d, want 2", len(batches))
	}
}

func TestServeDisabledBlocksUntilCanceled(t *testing.T) {
	analytics := newFakeAnalytics()
	store := newFakeSnapshotStore()
	m := NewManager(analytics, nil, store, Config{Enabled: false}, WithClock(fixedClock(testNow)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	if batches := store.batches("summary"); len(batches) != 0 {
		t.Errorf("summary saves = %d, want 0 when disabled", len(batches))
	}
}

func TestServeRunsInitialSync(t *testing.T) {
	analytics := newFakeAnalytics()
	store := newFakeSnapshotStore()
	m := NewManager(analytics, nil, store, Config{Enabled: true, Interval: time.Hour}, WithClock(fixedClock(testNow)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(store.batches("summary")) == 0 {
		select {
		case <-deadline:
			t.Fatal("initial sync never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestManagerString(t *testing.T) {
	m := NewManager(newFakeAnalytics(), nil, newFakeSnapshotStore(), Config{})
	if got := m.String(); got != "sync-manager" {
		t.Errorf("String() = %q, want sync-manager", got)
	}
}
