// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package aggregate

import (
	"sort"

	"github.com/tomtom215/gatherlens/internal/models"
)

// The *FromRows transforms roll stored per-day rows up into the response
// shapes the live fetchers produce, so the aggregation endpoint can serve
// either source interchangeably. Counts are summed across days; rate
// metrics (bounceRate, ctr, position) are averaged per day without
// weighting, matching how the rows were snapshotted.

// SummaryFromRows sums the stored daily summaries into one window total.
// Returns nil when rows is empty.
func SummaryFromRows(rows []models.SummaryRow) *models.Summary {
	if len(rows) == 0 {
		return nil
	}

	out := &models.Summary{}
	for _, r := range rows {
		out.TotalUsers += r.TotalUsers
		out.NewUsers += r.NewUsers
		out.Sessions += r.Sessions
		out.PageViews += r.PageViews
		out.AvgSessionDuration += r.AvgSessionDuration
		out.BounceRate += r.BounceRate
	}

	n := float64(len(rows))
	out.AvgSessionDuration /= n
	out.BounceRate /= n
	return out
}

// DailyFromRows converts stored daily summaries into the trend shape,
// date ascending.
func DailyFromRows(rows []models.SummaryRow) []models.DailyStat {
	out := make([]models.DailyStat, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.DailyStat{
			Date:      r.Date,
			Users:     r.TotalUsers,
			Sessions:  r.Sessions,
			PageViews: r.PageViews,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PagesFromRows groups stored page rows by path, summing views across
// days, views descending. limit<=0 defaults to 10. The title of a path's
// first-seen row wins.
func PagesFromRows(rows []models.PageRow, limit int) []models.PageStat {
	if limit <= 0 {
		limit = 10
	}

	index := make(map[string]int)
	out := make([]models.PageStat, 0)

	for _, r := range rows {
		if i, seen := index[r.Path]; seen {
			out[i].Views += r.Views
			continue
		}
		index[r.Path] = len(out)
		out = append(out, models.PageStat{Path: r.Path, Title: r.Title, Views: r.Views})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SourcesFromRows groups stored source rows by source name, summing users
// and sessions across days, users descending. The stored source/medium
// pairs collapse to plain sources here because that is what the sources
// response carries.
func SourcesFromRows(rows []models.SourceRow) []models.TrafficSource {
	index := make(map[string]int)
	out := make([]models.TrafficSource, 0)

	for _, r := range rows {
		source := r.Source
		if source == "" {
			source = "direct"
		}
		if i, seen := index[source]; seen {
			out[i].Users += r.Users
			out[i].Sessions += r.Sessions
			continue
		}
		index[source] = len(out)
		out = append(out, models.TrafficSource{Source: source, Users: r.Users, Sessions: r.Sessions})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Users > out[j].Users })
	return out
}

// DevicesFromRows groups stored device rows by device category, summing
// counts across days, users descending.
func DevicesFromRows(rows []models.DeviceRow) []models.DeviceStat {
	index := make(map[string]int)
	out := make([]models.DeviceStat, 0)

	for _, r := range rows {
		device := r.Device
		if device == "" {
			device = "unknown"
		}
		if i, seen := index[device]; seen {
			out[i].Users += r.Users
			out[i].Sessions += r.Sessions
			out[i].PageViews += r.PageViews
			continue
		}
		index[device] = len(out)
		out = append(out, models.DeviceStat{
			Device:    device,
			Users:     r.Users,
			Sessions:  r.Sessions,
			PageViews: r.PageViews,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Users > out[j].Users })
	return out
}

// KeywordsFromRows groups stored keyword rows by query, summing clicks
// and impressions and averaging ctr and position across the days a query
// appears, clicks descending. The averages are per-appearance, not
// impression-weighted, matching how the daily snapshots were taken.
func KeywordsFromRows(rows []models.KeywordRow) []models.SearchKeyword {
	type acc struct {
		kw    models.SearchKeyword
		count int
	}

	index := make(map[string]int)
	accs := make([]acc, 0)

	for _, r := range rows {
		if i, seen := index[r.Query]; seen {
			accs[i].kw.Clicks += r.Clicks
			accs[i].kw.Impressions += r.Impressions
			accs[i].kw.CTR += r.CTR
			accs[i].kw.Position += r.Position
			accs[i].count++
			continue
		}
		index[r.Query] = len(accs)
		accs = append(accs, acc{
			kw: models.SearchKeyword{
				Query:       r.Query,
				Clicks:      r.Clicks,
				Impressions: r.Impressions,
				CTR:         r.CTR,
				Position:    r.Position,
			},
			count: 1,
		})
	}

	out := make([]models.SearchKeyword, 0, len(accs))
	for _, a := range accs {
		kw := a.kw
		kw.CTR /= float64(a.count)
		kw.Position /= float64(a.count)
		out = append(out, kw)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Clicks > out[j].Clicks })
	return out
}
