// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/gatherlens/internal/airtable"
	"github.com/tomtom215/gatherlens/internal/logging"
	"github.com/tomtom215/gatherlens/internal/metrics"
	"github.com/tomtom215/gatherlens/internal/models"
)

const (
	// DefaultInterval is used when no sync interval is configured.
	DefaultInterval = 24 * time.Hour

	// runTimeout bounds a single snapshot run end to end.
	runTimeout = 5 * time.Minute

	// pageLimit and keywordLimit cap how many rows a daily snapshot writes
	// per table. Airtable batches are chunked downstream, so these mostly
	// bound upstream report sizes.
	pageLimit    = 50
	keywordLimit = 50
)

// AnalyticsSource provides the GA reports a daily snapshot needs.
// Satisfied by *ga.Service.
type AnalyticsSource interface {
	Summary(ctx context.Context, days int, startDate, endDate string) (*models.Summary, error)
	TopPages(ctx context.Context, days, limit int, startDate, endDate string) ([]models.PageStat, error)
	SourceMedium(ctx context.Context, days int, startDate, endDate string) ([]models.SourceMedium, error)
	Devices(ctx context.Context, days int, startDate, endDate string) ([]models.DeviceStat, error)
}

// SearchSource provides the Search Console keyword report.
// Satisfied by *searchconsole.Service.
type SearchSource interface {
	Keywords(ctx context.Context, days, limit int, startDate, endDate string) ([]models.SearchKeyword, error)
}

// SnapshotStore persists one day's snapshot per table.
// Satisfied by *airtable.Store.
type SnapshotStore interface {
	SaveSummary(ctx context.Context, date string, data models.Summary) (airtable.UpsertResult, error)
	SavePages(ctx context.Context, date string, pages []models.PageStat) (airtable.UpsertResult, error)
	SaveSources(ctx context.Context, date string, sources []models.SourceMedium) (airtable.UpsertResult, error)
	SaveDevices(ctx context.Context, date string, devices []models.DeviceStat) (airtable.UpsertResult, error)
	SaveKeywords(ctx context.Context, date string, keywords []models.SearchKeyword) (airtable.UpsertResult, error)
}

// Config controls the snapshot schedule.
type Config struct {
	Enabled  bool
	Interval time.Duration
}

// Manager orchestrates daily snapshot synchronization into the secondary store.
//
// Thread Safety:
//   - syncMu serializes snapshot execution (manual trigger vs. ticker)
//   - mu protects lastSync
type Manager struct {
	analytics AnalyticsSource
	search    SearchSource
	store     SnapshotStore
	cfg       Config
	now       func() time.Time

	lastSync time.Time
	mu       sync.RWMutex
	syncMu   sync.Mutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the manager's clock, used by tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a sync manager. The search source may be nil, in which
// case keyword snapshots are skipped.
func NewManager(analytics AnalyticsSource, search SearchSource, store SnapshotStore, cfg Config, opts ...ManagerOption) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	m := &Manager{
		analytics: analytics,
		search:    search,
		store:     store,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	logging.Info().
		Bool("enabled", cfg.Enabled).
		Dur("interval", cfg.Interval).
		Msg("Sync manager config loaded")

	return m
}

// Serve implements suture.Service. It runs one snapshot shortly after start,
// then ticks on the configured interval until the context is canceled.
func (m *Manager) Serve(ctx context.Context) error {
	if !m.cfg.Enabled {
		logging.Info().Msg("Snapshot sync disabled (SYNC_ENABLED=false)")
		<-ctx.Done()
		return ctx.Err()
	}

	logging.Info().Dur("interval", m.cfg.Interval).Msg("Starting snapshot sync loop")

	if err := m.TriggerSync(); err != nil {
		logging.Warn().Err(err).Msg("Initial snapshot sync failed (will retry on interval)")
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Snapshot sync loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := m.TriggerSync(); err != nil {
				logging.Warn().Err(err).Msg("Scheduled snapshot sync failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (m *Manager) String() string {
	return "sync-manager"
}

// LastSyncTime returns the timestamp of the last successful snapshot run.
func (m *Manager) LastSyncTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

// TriggerSync runs one snapshot synchronously. Concurrent calls are
// serialized; the second caller waits and runs its own snapshot.
func (m *Manager) TriggerSync() error {
	m.syncMu.Lock()
	defer m.syncMu.Unlock()

	return m.syncData()
}

// syncData snapshots yesterday's data into every configured table. Failures
// in one table do not stop the others; the run fails if any table failed.
func (m *Manager) syncData() error {
	start := m.now()
	date := start.AddDate(0, 0, -1).Format("2006-01-02")

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	logging.Info().Str("date", date).Msg("Starting snapshot sync")

	var errs []error
	total := 0

	if n, err := m.syncSummary(ctx, date); err != nil {
		errs = append(errs, fmt.Errorf("summary: %w", err))
	} else {
		total += n
	}
	if n, err := m.syncPages(ctx, date); err != nil {
		errs = append(errs, fmt.Errorf("pages: %w", err))
	} else {
		total += n
	}
	if n, err := m.syncSources(ctx, date); err != nil {
		errs = append(errs, fmt.Errorf("sources: %w", err))
	} else {
		total += n
	}
	if n, err := m.syncDevices(ctx, date); err != nil {
		errs = append(errs, fmt.Errorf("devices: %w", err))
	} else {
		total += n
	}
	if m.search != nil {
		if n, err := m.syncKeywords(ctx, date); err != nil {
			errs = append(errs, fmt.Errorf("keywords: %w", err))
		} else {
			total += n
		}
	}

	duration := m.now().Sub(start)
	metrics.SyncDuration.Observe(duration.Seconds())

	if len(errs) > 0 {
		metrics.SyncRuns.WithLabelValues("failure").Inc()
		logging.Error().
			Str("date", date).
			Int("tables_failed", len(errs)).
			Dur("duration", duration).
			Msg("Snapshot sync failed")
		return errors.Join(errs...)
	}

	m.mu.Lock()
	m.lastSync = m.now()
	m.mu.Unlock()

	metrics.SyncRuns.WithLabelValues("success").Inc()
	metrics.SyncLastSuccess.SetToCurrentTime()

	logging.Info().
		Str("date", date).
		Int("records", total).
		Dur("duration", duration).
		Msg("Snapshot sync completed")

	return nil
}

func recordWrites(table string, result airtable.UpsertResult) int {
	n := result.Created + result.Updated
	metrics.SyncRecords.WithLabelValues(table).Add(float64(n))
	return n
}

func (m *Manager) syncSummary(ctx context.Context, date string) (int, error) {
	summary, err := m.analytics.Summary(ctx, 0, date, date)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	result, err := m.store.SaveSummary(ctx, date, *summary)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return recordWrites("summary", result), nil
}

func (m *Manager) syncPages(ctx context.Context, date string) (int, error) {
	pages, err := m.analytics.TopPages(ctx, 0, pageLimit, date, date)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	result, err := m.store.SavePages(ctx, date, pages)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return recordWrites("pages", result), nil
}

func (m *Manager) syncSources(ctx context.Context, date string) (int, error) {
	sources, err := m.analytics.SourceMedium(ctx, 0, date, date)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	result, err := m.store.SaveSources(ctx, date, sources)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return recordWrites("sources", result), nil
}

func (m *Manager) syncDevices(ctx context.Context, date string) (int, error) {
	devices, err := m.analytics.Devices(ctx, 0, date, date)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	result, err := m.store.SaveDevices(ctx, date, devices)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return recordWrites("devices", result), nil
}

func (m *Manager) syncKeywords(ctx context.Context, date string) (int, error) {
	keywords, err := m.search.Keywords(ctx, 0, keywordLimit, date, date)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	result, err := m.store.SaveKeywords(ctx, date, keywords)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return recordWrites("keywords", result), nil
}
