// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package ga

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/gatherlens/internal/cache"
	"github.com/tomtom215/gatherlens/internal/models"
)

// ErrNotConfigured is returned by every fetcher when no GA4 property ID is
// configured. The API layer logs it and renders an empty result.
var ErrNotConfigured = errors.New("ga: property ID not configured")

// realtimeTTL is the cache lifetime of the active-user count. Realtime
// data goes stale in seconds, not minutes.
const realtimeTTL = 30 * time.Second

// Service exposes the per-dimension metric fetchers. Every fetcher follows
// the same flow: configuration check, cache lookup, report query, row
// transform, cache store.
//
// Fetchers return their zero value together with an error when the
// upstream call fails; an empty window with a successful call returns the
// zero value and a nil error. Fraction metrics (bounceRate) are converted
// to percentages exactly once, here.
//
// Thread Safety: Safe for concurrent use.
type Service struct {
	propertyID string
	client     ReportRunner
	cache      cache.Store
}

// NewService creates the fetcher service for one GA4 property.
func NewService(propertyID string, client ReportRunner, store cache.Store) *Service {
	return &Service{
		propertyID: propertyID,
		client:     client,
		cache:      store,
	}
}

func metricList(names ...string) []Metric {
	out := make([]Metric, len(names))
	for i, n := range names {
		out[i] = Metric{Name: n}
	}
	return out
}

func dimensionList(names ...string) []Dimension {
	out := make([]Dimension, len(names))
	for i, n := range names {
		out[i] = Dimension{Name: n}
	}
	return out
}

func orderByMetricDesc(name string) []OrderBy {
	return []OrderBy{{Metric: &MetricOrderBy{MetricName: name}, Desc: true}}
}

func orderByDimensionAsc(name string) []OrderBy {
	return []OrderBy{{Dimension: &DimensionOrderBy{DimensionName: name}}}
}

// Summary fetches the site-wide totals for the window. Returns nil with a
// nil error when the window holds no data.
func (s *Service) Summary(ctx context.Context, days int, startDate, endDate string) (*models.Summary, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("summary", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.(*models.Summary); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Metrics: metricList(
			"totalUsers", "newUsers", "sessions",
			"screenPageViews", "averageSessionDuration", "bounceRate",
		),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Rows) == 0 {
		return nil, nil
	}

	row := resp.Rows[0]
	result := &models.Summary{
		TotalUsers:         row.MetricInt(0),
		NewUsers:           row.MetricInt(1),
		Sessions:           row.MetricInt(2),
		PageViews:          row.MetricInt(3),
		AvgSessionDuration: row.MetricFloat(4),
		BounceRate:         row.MetricFloat(5) * 100,
	}

	s.cache.Set(key, result)
	return result, nil
}

// Daily fetches the per-day traffic trend, date ascending.
func (s *Service) Daily(ctx context.Context, days int, startDate, endDate string) ([]models.DailyStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("daily", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.DailyStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("date"),
		Metrics:    metricList("totalUsers", "sessions", "screenPageViews"),
		OrderBys:   orderByDimensionAsc("date"),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.DailyStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.DailyStat{
			Date:      row.DimensionOr(0, ""),
			Users:     row.MetricInt(0),
			Sessions:  row.MetricInt(1),
			PageViews: row.MetricInt(2),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// TopPages fetches the most-viewed pages, views descending. limit<=0
// defaults to 10.
func (s *Service) TopPages(ctx context.Context, days, limit int, startDate, endDate string) ([]models.PageStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	key := cache.GenerateKey("topPages", days, limit, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.PageStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("pagePath", "pageTitle"),
		Metrics:    metricList("screenPageViews"),
		OrderBys:   orderByMetricDesc("screenPageViews"),
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.PageStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.PageStat{
			Path:  row.DimensionOr(0, ""),
			Title: row.DimensionOr(1, ""),
			Views: row.MetricInt(0),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// TrafficSources fetches the top 10 session sources, sessions descending.
func (s *Service) TrafficSources(ctx context.Context, days int, startDate, endDate string) ([]models.TrafficSource, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("trafficSources", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.TrafficSource); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("sessionSource"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByMetricDesc("sessions"),
		Limit:      10,
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.TrafficSource, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.TrafficSource{
			Source:   row.DimensionOr(0, "(direct)"),
			Users:    row.MetricInt(0),
			Sessions: row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// SourceMedium fetches the top 15 source/medium pairs, sessions descending.
func (s *Service) SourceMedium(ctx context.Context, days int, startDate, endDate string) ([]models.SourceMedium, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("sourceMedium", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.SourceMedium); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("sessionSource", "sessionMedium"),
		Metrics:    metricList("totalUsers", "sessions", "bounceRate"),
		OrderBys:   orderByMetricDesc("sessions"),
		Limit:      15,
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.SourceMedium, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.SourceMedium{
			Source:     row.DimensionOr(0, "(direct)"),
			Medium:     row.DimensionOr(1, "(none)"),
			Users:      row.MetricInt(0),
			Sessions:   row.MetricInt(1),
			BounceRate: row.MetricFloat(2) * 100,
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// ChannelGroups fetches traffic by default channel grouping, sessions
// descending.
func (s *Service) ChannelGroups(ctx context.Context, days int, startDate, endDate string) ([]models.ChannelGroup, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("channels", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.ChannelGroup); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("sessionDefaultChannelGroup"),
		Metrics:    metricList("totalUsers", "sessions", "screenPageViews"),
		OrderBys:   orderByMetricDesc("sessions"),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.ChannelGroup, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.ChannelGroup{
			Channel:   row.DimensionOr(0, "Other"),
			Users:     row.MetricInt(0),
			Sessions:  row.MetricInt(1),
			PageViews: row.MetricInt(2),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// LandingPages fetches entry pages, sessions descending. limit<=0
// defaults to 10.
func (s *Service) LandingPages(ctx context.Context, days, limit int, startDate, endDate string) ([]models.LandingPage, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	key := cache.GenerateKey("landing", days, limit, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.LandingPage); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("landingPage"),
		Metrics:    metricList("sessions", "totalUsers", "bounceRate"),
		OrderBys:   orderByMetricDesc("sessions"),
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.LandingPage, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.LandingPage{
			Page:       row.DimensionOr(0, "/"),
			Sessions:   row.MetricInt(0),
			Users:      row.MetricInt(1),
			BounceRate: row.MetricFloat(2) * 100,
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// Devices fetches traffic by device category, sessions descending.
func (s *Service) Devices(ctx context.Context, days int, startDate, endDate string) ([]models.DeviceStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("devices", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.DeviceStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("deviceCategory"),
		Metrics:    metricList("totalUsers", "sessions", "screenPageViews"),
		OrderBys:   orderByMetricDesc("sessions"),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.DeviceStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.DeviceStat{
			Device:    row.DimensionOr(0, "unknown"),
			Users:     row.MetricInt(0),
			Sessions:  row.MetricInt(1),
			PageViews: row.MetricInt(2),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// Cities fetches traffic by city, sessions descending. limit<=0 defaults
// to 15.
func (s *Service) Cities(ctx context.Context, days, limit int, startDate, endDate string) ([]models.CityStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 15
	}

	key := cache.GenerateKey("cities", days, limit, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.CityStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("city"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByMetricDesc("sessions"),
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.CityStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.CityStat{
			City:     row.DimensionOr(0, "(not set)"),
			Users:    row.MetricInt(0),
			Sessions: row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// Browsers fetches traffic by browser, sessions descending. limit<=0
// defaults to 10.
func (s *Service) Browsers(ctx context.Context, days, limit int, startDate, endDate string) ([]models.BrowserStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	key := cache.GenerateKey("browsers", days, limit, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.BrowserStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("browser"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByMetricDesc("sessions"),
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.BrowserStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.BrowserStat{
			Browser:  row.DimensionOr(0, "unknown"),
			Users:    row.MetricInt(0),
			Sessions: row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// Countries fetches traffic by country, sessions descending. limit<=0
// defaults to 15.
func (s *Service) Countries(ctx context.Context, days, limit int, startDate, endDate string) ([]models.CountryStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 15
	}

	key := cache.GenerateKey("countries", days, limit, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.CountryStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("country"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByMetricDesc("sessions"),
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.CountryStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.CountryStat{
			Country:  row.DimensionOr(0, "(not set)"),
			Users:    row.MetricInt(0),
			Sessions: row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// OperatingSystems fetches the top 10 operating systems, sessions
// descending.
func (s *Service) OperatingSystems(ctx context.Context, days int, startDate, endDate string) ([]models.OSStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("os", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.OSStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("operatingSystem"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByMetricDesc("sessions"),
		Limit:      10,
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.OSStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.OSStat{
			OS:       row.DimensionOr(0, "unknown"),
			Users:    row.MetricInt(0),
			Sessions: row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// UserTypes fetches the new-vs-returning visitor split.
func (s *Service) UserTypes(ctx context.Context, days int, startDate, endDate string) ([]models.UserTypeStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("userType", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.UserTypeStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("newVsReturning"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByMetricDesc("sessions"),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.UserTypeStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.UserTypeStat{
			UserType: row.DimensionOr(0, "unknown"),
			Users:    row.MetricInt(0),
			Sessions: row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// Hourly fetches traffic by hour of day, hour ascending.
func (s *Service) Hourly(ctx context.Context, days int, startDate, endDate string) ([]models.HourlyStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("hourly", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.HourlyStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("hour"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByDimensionAsc("hour"),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.HourlyStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.HourlyStat{
			Hour:     row.DimensionOr(0, "0"),
			Users:    row.MetricInt(0),
			Sessions: row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// DayOfWeek fetches traffic by day of week (0=Sunday), day ascending.
func (s *Service) DayOfWeek(ctx context.Context, days int, startDate, endDate string) ([]models.DayOfWeekStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}

	key := cache.GenerateKey("dayOfWeek", days, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.DayOfWeekStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("dayOfWeek"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByDimensionAsc("dayOfWeek"),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.DayOfWeekStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.DayOfWeekStat{
			DayOfWeek: row.DimensionOr(0, "0"),
			Users:     row.MetricInt(0),
			Sessions:  row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// Referrers fetches referring URLs, sessions descending. limit<=0
// defaults to 15.
func (s *Service) Referrers(ctx context.Context, days, limit int, startDate, endDate string) ([]models.ReferrerStat, error) {
	if s.propertyID == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 15
	}

	key := cache.GenerateKey("referrer", days, limit, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.ReferrerStat); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunReport(ctx, &RunReportRequest{
		DateRanges: []models.DateRange{models.ResolveDateRange(days, startDate, endDate)},
		Dimensions: dimensionList("pageReferrer"),
		Metrics:    metricList("totalUsers", "sessions"),
		OrderBys:   orderByMetricDesc("sessions"),
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.ReferrerStat, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.ReferrerStat{
			Referrer: row.DimensionOr(0, "(direct)"),
			Users:    row.MetricInt(0),
			Sessions: row.MetricInt(1),
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// RealtimeUsers fetches the active-user count over the last 30 minutes,
// cached for 30 seconds instead of the default TTL.
func (s *Service) RealtimeUsers(ctx context.Context) (int, error) {
	if s.propertyID == "" {
		return 0, ErrNotConfigured
	}

	key := cache.GenerateKey("realtime")
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.(int); ok {
			return cached, nil
		}
	}

	resp, err := s.client.RunRealtimeReport(ctx, &RunRealtimeReportRequest{
		Metrics: metricList("activeUsers"),
	})
	if err != nil {
		return 0, err
	}
	if len(resp.Rows) == 0 {
		return 0, nil
	}

	result := resp.Rows[0].MetricInt(0)
	s.cache.SetWithTTL(key, result, realtimeTTL)
	return result, nil
}
