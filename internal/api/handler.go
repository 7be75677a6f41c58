// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package api

import (
	"context"
	"time"

	"github.com/tomtom215/gatherlens/internal/logging"
	"github.com/tomtom215/gatherlens/internal/models"
)

// LiveAnalytics is the full set of live metric fetchers the aggregation
// handler dispatches to. Satisfied by ga.Service.
type LiveAnalytics interface {
	Summary(ctx context.Context, days int, startDate, endDate string) (*models.Summary, error)
	Daily(ctx context.Context, days int, startDate, endDate string) ([]models.DailyStat, error)
	TopPages(ctx context.Context, days, limit int, startDate, endDate string) ([]models.PageStat, error)
	TrafficSources(ctx context.Context, days int, startDate, endDate string) ([]models.TrafficSource, error)
	SourceMedium(ctx context.Context, days int, startDate, endDate string) ([]models.SourceMedium, error)
	ChannelGroups(ctx context.Context, days int, startDate, endDate string) ([]models.ChannelGroup, error)
	LandingPages(ctx context.Context, days, limit int, startDate, endDate string) ([]models.LandingPage, error)
	Devices(ctx context.Context, days int, startDate, endDate string) ([]models.DeviceStat, error)
	Cities(ctx context.Context, days, limit int, startDate, endDate string) ([]models.CityStat, error)
	Browsers(ctx context.Context, days, limit int, startDate, endDate string) ([]models.BrowserStat, error)
	Countries(ctx context.Context, days, limit int, startDate, endDate string) ([]models.CountryStat, error)
	OperatingSystems(ctx context.Context, days int, startDate, endDate string) ([]models.OSStat, error)
	UserTypes(ctx context.Context, days int, startDate, endDate string) ([]models.UserTypeStat, error)
	Hourly(ctx context.Context, days int, startDate, endDate string) ([]models.HourlyStat, error)
	DayOfWeek(ctx context.Context, days int, startDate, endDate string) ([]models.DayOfWeekStat, error)
	Referrers(ctx context.Context, days, limit int, startDate, endDate string) ([]models.ReferrerStat, error)
	RealtimeUsers(ctx context.Context) (int, error)
}

// SearchAnalytics is the search-performance fetcher pair. Satisfied by
// searchconsole.Service.
type SearchAnalytics interface {
	Keywords(ctx context.Context, days, limit int, startDate, endDate string) ([]models.SearchKeyword, error)
	Pages(ctx context.Context, days, limit int) ([]models.SearchPage, error)
}

// SecondaryStore is the read side of the snapshot store. Satisfied by
// airtable.Store.
type SecondaryStore interface {
	LatestSummaries(ctx context.Context, days int) ([]models.SummaryRow, error)
	LatestPages(ctx context.Context, days int) ([]models.PageRow, error)
	LatestSources(ctx context.Context, days int) ([]models.SourceRow, error)
	LatestDevices(ctx context.Context, days int) ([]models.DeviceRow, error)
	LatestKeywords(ctx context.Context, days int) ([]models.KeywordRow, error)
}

// SyncRunner triggers a manual snapshot run. Satisfied by sync.Manager.
type SyncRunner interface {
	TriggerSync() error
	LastSyncTime() time.Time
}

// Capabilities reports which upstream providers are configured. Used by the
// health endpoint only; the fetchers themselves return ErrNotConfigured and
// the handler degrades per slot.
type Capabilities struct {
	Analytics bool
	Search    bool
	Secondary bool
}

// HandlerConfig wires the aggregation handler's dependencies.
type HandlerConfig struct {
	Live         LiveAnalytics
	Search       SearchAnalytics
	Store        SecondaryStore
	Sync         SyncRunner
	Capabilities Capabilities
	Version      string

	// Now overrides the clock for period-window computation in tests.
	Now func() time.Time
}

// Handler serves the aggregation and operational endpoints.
type Handler struct {
	live      LiveAnalytics
	search    SearchAnalytics
	store     SecondaryStore
	sync      SyncRunner
	caps      Capabilities
	version   string
	now       func() time.Time
	startTime time.Time
}

// NewHandler creates the aggregation handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	return &Handler{
		live:      cfg.Live,
		search:    cfg.Search,
		store:     cfg.Store,
		sync:      cfg.Sync,
		caps:      cfg.Capabilities,
		version:   cfg.Version,
		now:       cfg.Now,
		startTime: time.Now(),
	}
}

// logFetchError records a failed slot fetch. The slot renders empty; the
// aggregation response itself still succeeds.
func logFetchError(slot string, err error) {
	if err == nil {
		return
	}
	logging.Warn().Err(err).Str("slot", slot).Msg("Analytics fetch failed, serving empty")
}
