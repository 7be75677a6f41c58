// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

// Package models defines the data shapes shared across GatherLens: the
// per-dimension metric records returned by the fetchers, the typed rows read
// from the secondary store, and the JSON response shapes of the aggregation
// endpoint.
//
// Numeric conventions: counts are non-negative integers; bounceRate and ctr
// are percentages in [0,100] (converted exactly once from the fraction the
// upstream APIs return); position is a 1-based average rank and may be
// fractional.
package models

import "fmt"

// Summary holds the site-wide totals for a date window.
type Summary struct {
	TotalUsers         int     `json:"totalUsers"`
	NewUsers           int     `json:"newUsers"`
	Sessions           int     `json:"sessions"`
	PageViews          int     `json:"pageViews"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	BounceRate         float64 `json:"bounceRate"`
}

// DailyStat is one day of the traffic trend, date ascending.
type DailyStat struct {
	Date      string `json:"date"`
	Users     int    `json:"users"`
	Sessions  int    `json:"sessions"`
	PageViews int    `json:"pageViews"`
}

// PageStat is one entry of the top-pages ranking, views descending.
type PageStat struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Views int    `json:"views"`
}

// TrafficSource is one session source, sessions descending.
type TrafficSource struct {
	Source   string `json:"source"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// SourceMedium is one source/medium pair, sessions descending.
type SourceMedium struct {
	Source     string  `json:"source"`
	Medium     string  `json:"medium"`
	Users      int     `json:"users"`
	Sessions   int     `json:"sessions"`
	BounceRate float64 `json:"bounceRate"`
}

// ChannelGroup is one default channel grouping bucket.
type ChannelGroup struct {
	Channel   string `json:"channel"`
	Users     int    `json:"users"`
	Sessions  int    `json:"sessions"`
	PageViews int    `json:"pageViews"`
}

// LandingPage is one landing-page entry, sessions descending.
type LandingPage struct {
	Page       string  `json:"page"`
	Sessions   int     `json:"sessions"`
	Users      int     `json:"users"`
	BounceRate float64 `json:"bounceRate"`
}

// DeviceStat is one device category (desktop, mobile, tablet).
type DeviceStat struct {
	Device    string `json:"device"`
	Users     int    `json:"users"`
	Sessions  int    `json:"sessions"`
	PageViews int    `json:"pageViews"`
}

// CityStat is one city bucket, sessions descending.
type CityStat struct {
	City     string `json:"city"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// BrowserStat is one browser bucket, sessions descending.
type BrowserStat struct {
	Browser  string `json:"browser"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// CountryStat is one country bucket, sessions descending.
type CountryStat struct {
	Country  string `json:"country"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// OSStat is one operating-system bucket, sessions descending.
type OSStat struct {
	OS       string `json:"os"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// UserTypeStat splits traffic into new vs returning visitors.
type UserTypeStat struct {
	UserType string `json:"userType"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// HourlyStat is one hour-of-day bucket (00-23), hour ascending.
type HourlyStat struct {
	Hour     string `json:"hour"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// DayOfWeekStat is one day-of-week bucket (0=Sunday), day ascending.
type DayOfWeekStat struct {
	DayOfWeek string `json:"dayOfWeek"`
	Users     int    `json:"users"`
	Sessions  int    `json:"sessions"`
}

// ReferrerStat is one referring URL, sessions descending.
type ReferrerStat struct {
	Referrer string `json:"referrer"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// SearchKeyword is one search query from the search-performance API.
type SearchKeyword struct {
	Query       string  `json:"query"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// SearchPage is one page entry from the search-performance API.
type SearchPage struct {
	Page        string  `json:"page"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// Comparison holds period-over-period metrics for two date windows.
// Changes values are percent deltas per field; previous==0 maps to 100 when
// the current value is positive, else 0.
type Comparison struct {
	Current          Summary        `json:"current"`
	Previous         Summary        `json:"previous"`
	Changes          SummaryChanges `json:"changes"`
	CurrentDaily     []DailyStat    `json:"currentDaily"`
	PreviousDaily    []DailyStat    `json:"previousDaily"`
	CurrentChannels  []ChannelGroup `json:"currentChannels"`
	PreviousChannels []ChannelGroup `json:"previousChannels"`
}

// SummaryChanges holds the percent change per summary field.
type SummaryChanges struct {
	TotalUsers         float64 `json:"totalUsers"`
	NewUsers           float64 `json:"newUsers"`
	Sessions           float64 `json:"sessions"`
	PageViews          float64 `json:"pageViews"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	BounceRate         float64 `json:"bounceRate"`
}

// DateRange is an inclusive reporting window. Values are either absolute
// YYYY-MM-DD dates or the relative forms the analytics API accepts
// ("30daysAgo", "today").
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ResolveDateRange computes the effective window for a query. Absolute
// dates win over the relative days window; days<=0 defaults to 30.
func ResolveDateRange(days int, startDate, endDate string) DateRange {
	if startDate != "" && endDate != "" {
		return DateRange{StartDate: startDate, EndDate: endDate}
	}
	if days <= 0 {
		days = 30
	}
	return DateRange{
		StartDate: fmt.Sprintf("%ddaysAgo", days),
		EndDate:   "today",
	}
}
