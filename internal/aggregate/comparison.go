// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package aggregate

import (
	"context"
	"sync"

	"github.com/tomtom215/gatherlens/internal/logging"
	"github.com/tomtom215/gatherlens/internal/models"
)

// TrendSource is the slice of the live analytics fetchers the comparison
// builder needs.
type TrendSource interface {
	Summary(ctx context.Context, days int, startDate, endDate string) (*models.Summary, error)
	Daily(ctx context.Context, days int, startDate, endDate string) ([]models.DailyStat, error)
	ChannelGroups(ctx context.Context, days int, startDate, endDate string) ([]models.ChannelGroup, error)
}

// BuildComparison fetches both windows in parallel and computes the
// per-field percent deltas. Returns nil when the current window has no
// summary; a missing previous window compares against zeros, which marks
// every populated metric as full growth.
//
// The six fetches are independent; a failed trend or channel fetch
// degrades that slot to empty rather than failing the comparison.
func BuildComparison(ctx context.Context, src TrendSource, currentStart, currentEnd, previousStart, previousEnd string) (*models.Comparison, error) {
	var (
		currentSummary, previousSummary   *models.Summary
		currentDaily, previousDaily       []models.DailyStat
		currentChannels, previousChannels []models.ChannelGroup
		summaryErr                        error
	)

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() { currentSummary, summaryErr = src.Summary(ctx, 0, currentStart, currentEnd) })
	run(func() {
		var err error
		if previousSummary, err = src.Summary(ctx, 0, previousStart, previousEnd); err != nil {
			logging.Warn().Err(err).Msg("Previous-window summary fetch failed, comparing against zeros")
		}
	})
	run(func() {
		var err error
		if currentDaily, err = src.Daily(ctx, 0, currentStart, currentEnd); err != nil {
			logging.Warn().Err(err).Msg("Current-window daily fetch failed")
		}
	})
	run(func() {
		var err error
		if previousDaily, err = src.Daily(ctx, 0, previousStart, previousEnd); err != nil {
			logging.Warn().Err(err).Msg("Previous-window daily fetch failed")
		}
	})
	run(func() {
		var err error
		if currentChannels, err = src.ChannelGroups(ctx, 0, currentStart, currentEnd); err != nil {
			logging.Warn().Err(err).Msg("Current-window channel fetch failed")
		}
	})
	run(func() {
		var err error
		if previousChannels, err = src.ChannelGroups(ctx, 0, previousStart, previousEnd); err != nil {
			logging.Warn().Err(err).Msg("Previous-window channel fetch failed")
		}
	})

	wg.Wait()

	if summaryErr != nil {
		return nil, summaryErr
	}
	if currentSummary == nil {
		return nil, nil
	}

	previous := models.Summary{}
	if previousSummary != nil {
		previous = *previousSummary
	}

	return &models.Comparison{
		Current:          *currentSummary,
		Previous:         previous,
		Changes:          summaryChanges(*currentSummary, previous),
		CurrentDaily:     emptyIfNil(currentDaily),
		PreviousDaily:    emptyIfNil(previousDaily),
		CurrentChannels:  emptyIfNil(currentChannels),
		PreviousChannels: emptyIfNil(previousChannels),
	}, nil
}

// emptyIfNil keeps comparison slices rendering as [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
