// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package api

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/gatherlens/internal/models"
)

// fakeLive is a canned LiveAnalytics implementation that counts calls per
// slot and can fail selected slots.
type fakeLive struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error

	// summaryErrs fails summary fetches for one window only, keyed by
	// start date.
	summaryErrs map[string]error

	summary       *models.Summary
	daily         []models.DailyStat
	pages         []models.PageStat
	sources       []models.TrafficSource
	sourceMedium  []models.SourceMedium
	channels      []models.ChannelGroup
	landing       []models.LandingPage
	devices       []models.DeviceStat
	cities        []models.CityStat
	browsers      []models.BrowserStat
	countries     []models.CountryStat
	osList        []models.OSStat
	userTypes     []models.UserTypeStat
	hourly        []models.HourlyStat
	dayOfWeek     []models.DayOfWeekStat
	referrers     []models.ReferrerStat
	realtimeUsers int
}

func newFakeLive() *fakeLive {
	return &fakeLive{
		calls:       make(map[string]int),
		errs:        make(map[string]error),
		summaryErrs: make(map[string]error),
	}
}

func (f *fakeLive) record(slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[slot]++
	return f.errs[slot]
}

func (f *fakeLive) callCount(slot string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[slot]
}

func (f *fakeLive) Summary(_ context.Context, _ int, startDate, _ string) (*models.Summary, error) {
	if err := f.record("summary"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	windowErr := f.summaryErrs[startDate]
	f.mu.Unlock()
	if windowErr != nil {
		return nil, windowErr
	}
	return f.summary, nil
}

func (f *fakeLive) Daily(_ context.Context, _ int, _, _ string) ([]models.DailyStat, error) {
	if err := f.record("daily"); err != nil {
		return nil, err
	}
	return f.daily, nil
}

func (f *fakeLive) TopPages(_ context.Context, _, _ int, _, _ string) ([]models.PageStat, error) {
	if err := f.record("pages"); err != nil {
		return nil, err
	}
	return f.pages, nil
}

func (f *fakeLive) TrafficSources(_ context.Context, _ int, _, _ string) ([]models.TrafficSource, error) {
	if err := f.record("sources"); err != nil {
		return nil, err
	}
	return f.sources, nil
}

func (f *fakeLive) SourceMedium(_ context.Context, _ int, _, _ string) ([]models.SourceMedium, error) {
	if err := f.record("sourceMedium"); err != nil {
		return nil, err
	}
	return f.sourceMedium, nil
}

func (f *fakeLive) ChannelGroups(_ context.Context, _ int, _, _ string) ([]models.ChannelGroup, error) {
	if err := f.record("channels"); err != nil {
		return nil, err
	}
	return f.channels, nil
}

func (f *fakeLive) LandingPages(_ context.Context, _, _ int, _, _ string) ([]models.LandingPage, error) {
	if err := f.record("landing"); err != nil {
		return nil, err
	}
	return f.landing, nil
}

func (f *fakeLive) Devices(_ context.Context, _ int, _, _ string) ([]models.DeviceStat, error) {
	if err := f.record("devices"); err != nil {
		return nil, err
	}
	return f.devices, nil
}

func (f *fakeLive) Cities(_ context.Context, _, _ int, _, _ string) ([]models.CityStat, error) {
	if err := f.record("cities"); err != nil {
		return nil, err
	}
	return f.cities, nil
}

func (f *fakeLive) Browsers(_ context.Context, _, _ int, _, _ string) ([]models.BrowserStat, error) {
	if err := f.record("browsers"); err != nil {
		return nil, err
	}
	return f.browsers, nil
}

func (f *fakeLive) Countries(_ context.Context, _, _ int, _, _ string) ([]models.CountryStat, error) {
	if err := f.record("countries"); err != nil {
		return nil, err
	}
	return f.countries, nil
}

func (f *fakeLive) OperatingSystems(_ context.Context, _ int, _, _ string) ([]models.OSStat, error) {
	if err := f.record("os"); err != nil {
		return nil, err
	}
	return f.osList, nil
}

func (f *fakeLive) UserTypes(_ context.Context, _ int, _, _ string) ([]models.UserTypeStat, error) {
	if err := f.record("userTypes"); err != nil {
		return nil, err
	}
	return f.userTypes, nil
}

func (f *fakeLive) Hourly(_ context.Context, _ int, _, _ string) ([]models.HourlyStat, error) {
	if err := f.record("hourly"); err != nil {
		return nil, err
	}
	return f.hourly, nil
}

func (f *fakeLive) DayOfWeek(_ context.Context, _ int, _, _ string) ([]models.DayOfWeekStat, error) {
	if err := f.record("dayOfWeek"); err != nil {
		return nil, err
	}
	return f.dayOfWeek, nil
}

func (f *fakeLive) Referrers(_ context.Context, _, _ int, _, _ string) ([]models.ReferrerStat, error) {
	if err := f.record("referrers"); err != nil {
		return nil, err
	}
	return f.referrers, nil
}

func (f *fakeLive) RealtimeUsers(_ context.Context) (int, error) {
	if err := f.record("realtime"); err != nil {
		return 0, err
	}
	return f.realtimeUsers, nil
}

// fakeSearch records every Keywords call so window computations can be
// asserted.
type fakeSearch struct {
	mu            sync.Mutex
	keywordCalls  []keywordCall
	pageCalls     int
	keywords      []models.SearchKeyword
	pages         []models.SearchPage
	keywordsError error
}

type keywordCall struct {
	days      int
	limit     int
	startDate string
	endDate   string
}

func (f *fakeSearch) Keywords(_ context.Context, days, limit int, startDate, endDate string) ([]models.SearchKeyword, error) {
	f.mu.Lock()
	f.keywordCalls = append(f.keywordCalls, keywordCall{days, limit, startDate, endDate})
	f.mu.Unlock()
	if f.keywordsError != nil {
		return nil, f.keywordsError
	}
	return f.keywords, nil
}

func (f *fakeSearch) Pages(_ context.Context, _, _ int) ([]models.SearchPage, error) {
	f.mu.Lock()
	f.pageCalls++
	f.mu.Unlock()
	return f.pages, nil
}

// fakeStore is a canned SecondaryStore that counts reads and can fail.
type fakeStore struct {
	mu        sync.Mutex
	calls     map[string]int
	err       error
	summaries []models.SummaryRow
	pages     []models.PageRow
	sources   []models.SourceRow
	devices   []models.DeviceRow
	keywords  []models.KeywordRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: make(map[string]int)}
}

func (f *fakeStore) record(table string) {
	f.mu.Lock()
	f.calls[table]++
	f.mu.Unlock()
}

func (f *fakeStore) callCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[table]
}

func (f *fakeStore) LatestSummaries(_ context.Context, _ int) ([]models.SummaryRow, error) {
	f.record("summary")
	return f.summaries, f.err
}

func (f *fakeStore) LatestPages(_ context.Context, _ int) ([]models.PageRow, error) {
	f.record("pages")
	return f.pages, f.err
}

func (f *fakeStore) LatestSources(_ context.Context, _ int) ([]models.SourceRow, error) {
	f.record("sources")
	return f.sources, f.err
}

func (f *fakeStore) LatestDevices(_ context.Context, _ int) ([]models.DeviceRow, error) {
	f.record("devices")
	return f.devices, f.err
}

func (f *fakeStore) LatestKeywords(_ context.Context, _ int) ([]models.KeywordRow, error) {
	f.record("keywords")
	return f.keywords, f.err
}

type fakeSync struct {
	triggered int
	err       error
	last      time.Time
}

func (f *fakeSync) TriggerSync() error {
	f.triggered++
	return f.err
}

func (f *fakeSync) LastSyncTime() time.Time { return f.last }

// newTestHandler builds a handler over fresh fakes with a fixed clock.
func newTestHandler(live *fakeLive, search *fakeSearch, store *fakeStore) *Handler {
	return NewHandler(HandlerConfig{
		Live:   live,
		Search: search,
		Store:  store,
		Capabilities: Capabilities{
			Analytics: true,
			Search:    true,
			Secondary: true,
		},
		Now: func() time.Time {
			return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
		},
	})
}
