// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package models

// The secondary store holds one row per stored day per entity. Rows are
// parsed from loosely-typed Airtable field maps at the client boundary and
// validated there; the rest of the application only sees these structs.
// Aggregation across days (summing counts, averaging rates) happens in the
// aggregate package, not here.

// SummaryRow is one day of stored summary totals.
type SummaryRow struct {
	Date               string  `json:"date" validate:"required,datetime=2006-01-02"`
	TotalUsers         int     `json:"totalUsers" validate:"gte=0"`
	NewUsers           int     `json:"newUsers" validate:"gte=0"`
	Sessions           int     `json:"sessions" validate:"gte=0"`
	PageViews          int     `json:"pageViews" validate:"gte=0"`
	AvgSessionDuration float64 `json:"avgSessionDuration" validate:"gte=0"`
	BounceRate         float64 `json:"bounceRate" validate:"gte=0,lte=100"`
}

// PageRow is one day of views for one page path.
type PageRow struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Path  string `json:"path" validate:"required"`
	Title string `json:"title"`
	Views int    `json:"views" validate:"gte=0"`
}

// SourceRow is one day of traffic for one session source.
type SourceRow struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Source   string `json:"source" validate:"required"`
	Medium   string `json:"medium"`
	Users    int    `json:"users" validate:"gte=0"`
	Sessions int    `json:"sessions" validate:"gte=0"`
}

// DeviceRow is one day of traffic for one device category.
type DeviceRow struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Device    string `json:"device" validate:"required"`
	Users     int    `json:"users" validate:"gte=0"`
	Sessions  int    `json:"sessions" validate:"gte=0"`
	PageViews int    `json:"pageViews" validate:"gte=0"`
}

// KeywordRow is one day of search performance for one query.
type KeywordRow struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Query       string  `json:"query" validate:"required"`
	Clicks      int     `json:"clicks" validate:"gte=0"`
	Impressions int     `json:"impressions" validate:"gte=0"`
	CTR         float64 `json:"ctr" validate:"gte=0,lte=100"`
	Position    float64 `json:"position" validate:"gte=0"`
}
