// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package models

// Source provenance tags attached to every aggregation response. Mixed is
// used if and only if at least one but not all fields came from the
// secondary store.
const (
	SourceGA       = "ga"
	SourceAirtable = "airtable"
	SourceMixed    = "mixed"
)

// ErrorResponse is the body of 400/500 responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status              string  `json:"status"`
	Version             string  `json:"version"`
	UptimeSeconds       float64 `json:"uptimeSeconds"`
	AnalyticsConfigured bool    `json:"analyticsConfigured"`
	SearchConfigured    bool    `json:"searchConfigured"`
	SecondaryConfigured bool    `json:"secondaryConfigured"`
	LastSyncTime        string  `json:"lastSyncTime,omitempty"`
}

// RealtimeResponse answers type=realtime.
type RealtimeResponse struct {
	RealtimeUsers int    `json:"realtimeUsers"`
	Source        string `json:"source"`
}

// SummaryResponse answers type=summary.
type SummaryResponse struct {
	Summary *Summary `json:"summary"`
	Source  string   `json:"source"`
}

// DailyResponse answers type=daily.
type DailyResponse struct {
	Daily  []DailyStat `json:"daily"`
	Source string      `json:"source"`
}

// PagesResponse answers type=pages.
type PagesResponse struct {
	Pages  []PageStat `json:"pages"`
	Source string     `json:"source"`
}

// SourcesResponse answers type=sources.
type SourcesResponse struct {
	Sources []TrafficSource `json:"sources"`
	Source  string          `json:"source"`
}

// SourceMediumResponse answers type=source-medium.
type SourceMediumResponse struct {
	SourceMedium []SourceMedium `json:"sourceMedium"`
	Source       string         `json:"source"`
}

// ChannelsResponse answers type=channels.
type ChannelsResponse struct {
	Channels []ChannelGroup `json:"channels"`
	Source   string         `json:"source"`
}

// LandingResponse answers type=landing.
type LandingResponse struct {
	LandingPages []LandingPage `json:"landingPages"`
	Source       string        `json:"source"`
}

// DevicesResponse answers type=devices.
type DevicesResponse struct {
	Devices []DeviceStat `json:"devices"`
	Source  string       `json:"source"`
}

// CitiesResponse answers type=cities.
type CitiesResponse struct {
	Cities []CityStat `json:"cities"`
	Source string     `json:"source"`
}

// BrowsersResponse answers type=browsers.
type BrowsersResponse struct {
	Browsers []BrowserStat `json:"browsers"`
	Source   string        `json:"source"`
}

// CountriesResponse answers type=countries.
type CountriesResponse struct {
	Countries []CountryStat `json:"countries"`
	Source    string        `json:"source"`
}

// OSResponse answers type=os.
type OSResponse struct {
	OSList []OSStat `json:"osList"`
	Source string   `json:"source"`
}

// UserTypesResponse answers type=userTypes.
type UserTypesResponse struct {
	UserTypes []UserTypeStat `json:"userTypes"`
	Source    string         `json:"source"`
}

// HourlyResponse answers type=hourly.
type HourlyResponse struct {
	Hourly []HourlyStat `json:"hourly"`
	Source string       `json:"source"`
}

// DayOfWeekResponse answers type=dayOfWeek.
type DayOfWeekResponse struct {
	DayOfWeek []DayOfWeekStat `json:"dayOfWeek"`
	Source    string          `json:"source"`
}

// ReferrersResponse answers type=referrers.
type ReferrersResponse struct {
	Referrers []ReferrerStat `json:"referrers"`
	Source    string         `json:"source"`
}

// KeywordsResponse answers type=keywords. SearchPages is empty when the
// keywords came from the secondary store, which has no page-level table.
type KeywordsResponse struct {
	SearchKeywords []SearchKeyword `json:"searchKeywords"`
	SearchPages    []SearchPage    `json:"searchPages"`
	Source         string          `json:"source"`
}

// PeriodKeywordsResponse answers type=period-keywords with the top queries
// for four fixed windows relative to today.
type PeriodKeywordsResponse struct {
	ThisWeek  []SearchKeyword `json:"thisWeek"`
	LastWeek  []SearchKeyword `json:"lastWeek"`
	ThisMonth []SearchKeyword `json:"thisMonth"`
	LastMonth []SearchKeyword `json:"lastMonth"`
	Source    string          `json:"source"`
}

// ComparisonResponse answers type=comparison.
type ComparisonResponse struct {
	Comparison *Comparison `json:"comparison"`
	Source     string      `json:"source"`
}

// TrafficResponse answers type=traffic: the acquisition dashboard bundle.
// Devices may come from the secondary store; everything else is live.
type TrafficResponse struct {
	SourceMedium   []SourceMedium  `json:"sourceMedium"`
	Channels       []ChannelGroup  `json:"channels"`
	LandingPages   []LandingPage   `json:"landingPages"`
	Devices        []DeviceStat    `json:"devices"`
	Cities         []CityStat      `json:"cities"`
	Browsers       []BrowserStat   `json:"browsers"`
	Countries      []CountryStat   `json:"countries"`
	OSList         []OSStat        `json:"osList"`
	UserTypes      []UserTypeStat  `json:"userTypes"`
	Hourly         []HourlyStat    `json:"hourly"`
	DayOfWeek      []DayOfWeekStat `json:"dayOfWeek"`
	Referrers      []ReferrerStat  `json:"referrers"`
	SearchKeywords []SearchKeyword `json:"searchKeywords"`
	SearchPages    []SearchPage    `json:"searchPages"`
	Source         string          `json:"source"`
}

// AllResponse answers the default type=all request: every dashboard metric
// in one payload.
type AllResponse struct {
	Summary        *Summary        `json:"summary"`
	Daily          []DailyStat     `json:"daily"`
	Pages          []PageStat      `json:"pages"`
	Sources        []TrafficSource `json:"sources"`
	RealtimeUsers  int             `json:"realtimeUsers"`
	SourceMedium   []SourceMedium  `json:"sourceMedium"`
	Channels       []ChannelGroup  `json:"channels"`
	LandingPages   []LandingPage   `json:"landingPages"`
	Devices        []DeviceStat    `json:"devices"`
	Cities         []CityStat      `json:"cities"`
	Browsers       []BrowserStat   `json:"browsers"`
	Countries      []CountryStat   `json:"countries"`
	OSList         []OSStat        `json:"osList"`
	UserTypes      []UserTypeStat  `json:"userTypes"`
	Hourly         []HourlyStat    `json:"hourly"`
	DayOfWeek      []DayOfWeekStat `json:"dayOfWeek"`
	Referrers      []ReferrerStat  `json:"referrers"`
	SearchKeywords []SearchKeyword `json:"searchKeywords"`
	SearchPages    []SearchPage    `json:"searchPages"`
	Source         string          `json:"source"`
}
