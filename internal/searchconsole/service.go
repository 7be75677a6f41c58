// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package searchconsole

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/tomtom215/gatherlens/internal/cache"
	"github.com/tomtom215/gatherlens/internal/models"
)

// ErrNotConfigured is returned by every fetcher when no site URL is
// configured. The API layer logs it and renders an empty result.
var ErrNotConfigured = errors.New("searchconsole: site URL not configured")

// Service exposes the search-performance fetchers. Like the analytics
// fetchers, each call checks configuration, consults the cache, queries
// the API, transforms rows, and stores the result.
type Service struct {
	siteURL string
	client  QueryRunner
	cache   cache.Store
	now     func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source used to compute relative windows.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the search-performance service for one site.
func NewService(siteURL string, client QueryRunner, store cache.Store, opts ...ServiceOption) *Service {
	s := &Service{
		siteURL: siteURL,
		client:  client,
		cache:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveWindow computes the absolute query window. Absolute dates win;
// otherwise the window is [today-days, today].
func (s *Service) resolveWindow(days int, startDate, endDate string) (string, string) {
	if startDate != "" && endDate != "" {
		return startDate, endDate
	}
	if days <= 0 {
		days = 30
	}
	end := s.now()
	start := end.AddDate(0, 0, -days)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}

// roundCount converts the float counts the API returns into integers.
func roundCount(f float64) int {
	return int(math.Round(f))
}

// Keywords fetches the top search queries for the window, ranked by the
// API's default (clicks descending). limit<=0 defaults to 50.
func (s *Service) Keywords(ctx context.Context, days, limit int, startDate, endDate string) ([]models.SearchKeyword, error) {
	if s.siteURL == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 50
	}

	key := cache.GenerateKey("searchKeywords", days, limit, startDate, endDate)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.SearchKeyword); ok {
			return cached, nil
		}
	}

	start, end := s.resolveWindow(days, startDate, endDate)

	resp, err := s.client.Query(ctx, &QueryRequest{
		StartDate:  start,
		EndDate:    end,
		Dimensions: []string{"query"},
		RowLimit:   limit,
		DataState:  "final",
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.SearchKeyword, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.SearchKeyword{
			Query:       row.Key(0),
			Clicks:      roundCount(row.Clicks),
			Impressions: roundCount(row.Impressions),
			CTR:         row.CTR * 100,
			Position:    row.Position,
		})
	}

	s.cache.Set(key, result)
	return result, nil
}

// Pages fetches search performance per landing page for the last days
// days. limit<=0 defaults to 20.
func (s *Service) Pages(ctx context.Context, days, limit int) ([]models.SearchPage, error) {
	if s.siteURL == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 20
	}

	key := cache.GenerateKey("searchPages", days, limit)
	if v, ok := s.cache.Get(key); ok {
		if cached, ok := v.([]models.SearchPage); ok {
			return cached, nil
		}
	}

	start, end := s.resolveWindow(days, "", "")

	resp, err := s.client.Query(ctx, &QueryRequest{
		StartDate:  start,
		EndDate:    end,
		Dimensions: []string{"page"},
		RowLimit:   limit,
		DataState:  "final",
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.SearchPage, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		result = append(result, models.SearchPage{
			Page:        row.Key(0),
			Clicks:      roundCount(row.Clicks),
			Impressions: roundCount(row.Impressions),
			CTR:         row.CTR * 100,
			Position:    row.Position,
		})
	}

	s.cache.Set(key, result)
	return result, nil
}
