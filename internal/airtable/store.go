// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package airtable

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/tomtom215/gatherlens/internal/logging"
	"github.com/tomtom215/gatherlens/internal/models"
)

// RecordAPI is the subset of the client the typed store consumes. Tests
// substitute recording fakes.
type RecordAPI interface {
	GetRecordsByDateRange(ctx context.Context, table Table, startDate, endDate string) ([]Record, error)
	UpsertByDate(ctx context.Context, table Table, date string, fields []map[string]interface{}) (UpsertResult, error)
}

// Store is the typed layer over the raw record client. Reads parse the
// loosely-typed Airtable field maps into validated row structs; rows that
// fail parsing or validation are logged and skipped so one malformed
// record never poisons an aggregate. Writes replace the rows stored for a
// date and stamp each row with a syncedAt timestamp.
type Store struct {
	api      RecordAPI
	validate *validator.Validate
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source used for relative windows and
// syncedAt stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates the typed store over api.
func NewStore(api RecordAPI, opts ...StoreOption) *Store {
	s := &Store{
		api:      api,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// window computes the [today-days, today] range. days<=0 defaults to 30.
func (s *Store) window(days int) (string, string) {
	if days <= 0 {
		days = 30
	}
	end := s.now()
	start := end.AddDate(0, 0, -days)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}

// parseRows converts raw records into validated typed rows, skipping and
// logging any record that does not parse or validate.
func parseRows[T any](v *validator.Validate, table Table, records []Record) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		data, err := json.Marshal(rec.Fields)
		if err != nil {
			logging.Warn().Err(err).Str("table", string(table)).Str("record_id", rec.ID).Msg("Skipping unserializable secondary-store record")
			continue
		}

		var row T
		if err := json.Unmarshal(data, &row); err != nil {
			logging.Warn().Err(err).Str("table", string(table)).Str("record_id", rec.ID).Msg("Skipping malformed secondary-store record")
			continue
		}

		if err := v.Struct(row); err != nil {
			logging.Warn().Err(err).Str("table", string(table)).Str("record_id", rec.ID).Msg("Skipping invalid secondary-store record")
			continue
		}

		out = append(out, row)
	}
	return out
}

// LatestSummaries reads the stored summary rows for the last days days,
// newest first.
func (s *Store) LatestSummaries(ctx context.Context, days int) ([]models.SummaryRow, error) {
	start, end := s.window(days)
	records, err := s.api.GetRecordsByDateRange(ctx, TableSummary, start, end)
	if err != nil {
		return nil, err
	}
	return parseRows[models.SummaryRow](s.validate, TableSummary, records), nil
}

// LatestPages reads the stored page rows for the last days days.
func (s *Store) LatestPages(ctx context.Context, days int) ([]models.PageRow, error) {
	start, end := s.window(days)
	records, err := s.api.GetRecordsByDateRange(ctx, TablePages, start, end)
	if err != nil {
		return nil, err
	}
	return parseRows[models.PageRow](s.validate, TablePages, records), nil
}

// LatestSources reads the stored traffic-source rows for the last days
// days.
func (s *Store) LatestSources(ctx context.Context, days int) ([]models.SourceRow, error) {
	start, end := s.window(days)
	records, err := s.api.GetRecordsByDateRange(ctx, TableSources, start, end)
	if err != nil {
		return nil, err
	}
	return parseRows[models.SourceRow](s.validate, TableSources, records), nil
}

// LatestDevices reads the stored device rows for the last days days.
func (s *Store) LatestDevices(ctx context.Context, days int) ([]models.DeviceRow, error) {
	start, end := s.window(days)
	records, err := s.api.GetRecordsByDateRange(ctx, TableDevices, start, end)
	if err != nil {
		return nil, err
	}
	return parseRows[models.DeviceRow](s.validate, TableDevices, records), nil
}

// LatestKeywords reads the stored search-keyword rows for the last days
// days.
func (s *Store) LatestKeywords(ctx context.Context, days int) ([]models.KeywordRow, error) {
	start, end := s.window(days)
	records, err := s.api.GetRecordsByDateRange(ctx, TableKeywords, start, end)
	if err != nil {
		return nil, err
	}
	return parseRows[models.KeywordRow](s.validate, TableKeywords, records), nil
}

// fieldsOf flattens a row struct into the field map the record API
// expects, stamped with syncedAt.
func (s *Store) fieldsOf(row interface{}) map[string]interface{} {
	data, err := json.Marshal(row)
	if err != nil {
		// Row structs always marshal; reaching this is a programming error.
		logging.Error().Err(err).Msg("Failed to serialize secondary-store row")
		return nil
	}

	fields := make(map[string]interface{})
	if err := json.Unmarshal(data, &fields); err != nil {
		logging.Error().Err(err).Msg("Failed to flatten secondary-store row")
		return nil
	}

	fields["syncedAt"] = s.now().UTC().Format(time.RFC3339)
	return fields
}

// SaveSummary replaces the stored summary row for one date.
func (s *Store) SaveSummary(ctx context.Context, date string, data models.Summary) (UpsertResult, error) {
	row := models.SummaryRow{
		Date:               date,
		TotalUsers:         data.TotalUsers,
		NewUsers:           data.NewUsers,
		Sessions:           data.Sessions,
		PageViews:          data.PageViews,
		AvgSessionDuration: data.AvgSessionDuration,
		BounceRate:         data.BounceRate,
	}
	return s.api.UpsertByDate(ctx, TableSummary, date, []map[string]interface{}{s.fieldsOf(row)})
}

// SavePages replaces the stored page rows for one date.
func (s *Store) SavePages(ctx context.Context, date string, pages []models.PageStat) (UpsertResult, error) {
	fields := make([]map[string]interface{}, 0, len(pages))
	for _, p := range pages {
		fields = append(fields, s.fieldsOf(models.PageRow{
			Date:  date,
			Path:  p.Path,
			Title: p.Title,
			Views: p.Views,
		}))
	}
	return s.api.UpsertByDate(ctx, TablePages, date, fields)
}

// SaveSources replaces the stored traffic-source rows for one date. The
// bounce rate of the live source/medium data is not persisted; the
// sources table only carries counts.
func (s *Store) SaveSources(ctx context.Context, date string, sources []models.SourceMedium) (UpsertResult, error) {
	fields := make([]map[string]interface{}, 0, len(sources))
	for _, src := range sources {
		fields = append(fields, s.fieldsOf(models.SourceRow{
			Date:     date,
			Source:   src.Source,
			Medium:   src.Medium,
			Users:    src.Users,
			Sessions: src.Sessions,
		}))
	}
	return s.api.UpsertByDate(ctx, TableSources, date, fields)
}

// SaveDevices replaces the stored device rows for one date.
func (s *Store) SaveDevices(ctx context.Context, date string, devices []models.DeviceStat) (UpsertResult, error) {
	fields := make([]map[string]interface{}, 0, len(devices))
	for _, d := range devices {
		fields = append(fields, s.fieldsOf(models.DeviceRow{
			Date:      date,
			Device:    d.Device,
			Users:     d.Users,
			Sessions:  d.Sessions,
			PageViews: d.PageViews,
		}))
	}
	return s.api.UpsertByDate(ctx, TableDevices, date, fields)
}

// SaveKeywords replaces the stored search-keyword rows for one date.
func (s *Store) SaveKeywords(ctx context.Context, date string, keywords []models.SearchKeyword) (UpsertResult, error) {
	fields := make([]map[string]interface{}, 0, len(keywords))
	for _, kw := range keywords {
		fields = append(fields, s.fieldsOf(models.KeywordRow{
			Date:        date,
			Query:       kw.Query,
			Clicks:      kw.Clicks,
			Impressions: kw.Impressions,
			CTR:         kw.CTR,
			Position:    kw.Position,
		}))
	}
	return s.api.UpsertByDate(ctx, TableKeywords, date, fields)
}
