// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

// Package aggregate turns raw metric rows into the shapes the aggregation
// endpoint serves: period-over-period comparisons, secondary-store row
// rollups, and the fixed reporting windows for period keyword queries.
package aggregate

import "github.com/tomtom215/gatherlens/internal/models"

// CalculateChange returns the percent change from previous to current.
// A zero previous value maps to 100 when current is positive and 0
// otherwise, so new activity reads as full growth instead of a division
// error.
func CalculateChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return ((current - previous) / previous) * 100
}

// summaryChanges computes the per-field percent deltas between two
// summaries.
func summaryChanges(current, previous models.Summary) models.SummaryChanges {
	return models.SummaryChanges{
		TotalUsers:         CalculateChange(float64(current.TotalUsers), float64(previous.TotalUsers)),
		NewUsers:           CalculateChange(float64(current.NewUsers), float64(previous.NewUsers)),
		Sessions:           CalculateChange(float64(current.Sessions), float64(previous.Sessions)),
		PageViews:          CalculateChange(float64(current.PageViews), float64(previous.PageViews)),
		AvgSessionDuration: CalculateChange(current.AvgSessionDuration, previous.AvgSessionDuration),
		BounceRate:         CalculateChange(current.BounceRate, previous.BounceRate),
	}
}
