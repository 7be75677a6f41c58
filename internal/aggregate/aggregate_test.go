// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/gatherlens/internal/models"
)

func TestCalculateChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"from zero to positive", 10, 0, 100},
		{"from zero to zero", 0, 0, 0},
		{"to zero", 0, 100, -100},
		{"fractional", 105, 100, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateChange(tt.current, tt.previous)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculateChange(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestSummaryFromRows(t *testing.T) {
	rows := []models.SummaryRow{
		{Date: "2026-08-28", TotalUsers: 100, NewUsers: 40, Sessions: 120, PageViews: 300, AvgSessionDuration: 90, BounceRate: 40},
		{Date: "2026-08-27", TotalUsers: 50, NewUsers: 20, Sessions: 60, PageViews: 150, AvgSessionDuration: 60, BounceRate: 60},
	}

	got := SummaryFromRows(rows)
	if got == nil {
		t.Fatal("SummaryFromRows() = nil")
	}
	// counts sum, rates average
	if got.TotalUsers != 150 || got.NewUsers != 60 || got.Sessions != 180 || got.PageViews != 450 {
		t.Errorf("counts = %+v", got)
	}
	if got.AvgSessionDuration != 75 {
		t.Errorf("AvgSessionDuration = %v, want 75", got.AvgSessionDuration)
	}
	if got.BounceRate != 50 {
		t.Errorf("BounceRate = %v, want 50", got.BounceRate)
	}
}

func TestSummaryFromRowsEmpty(t *testing.T) {
	if got := SummaryFromRows(nil); got != nil {
		t.Errorf("SummaryFromRows(nil) = %+v, want nil", got)
	}
}

func TestDailyFromRowsSortsAscending(t *testing.T) {
	rows := []models.SummaryRow{
		{Date: "2026-08-28", TotalUsers: 10, Sessions: 12, PageViews: 30},
		{Date: "2026-08-26", TotalUsers: 7, Sessions: 9, PageViews: 20},
		{Date: "2026-08-27", TotalUsers: 8, Sessions: 10, PageViews: 25},
	}

	got := DailyFromRows(rows)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"2026-08-26", "2026-08-27", "2026-08-28"} {
		if got[i].Date != want {
			t.Errorf("got[%d].Date = %s, want %s", i, got[i].Date, want)
		}
	}
	if got[2].Users != 10 || got[2].Sessions != 12 || got[2].PageViews != 30 {
		t.Errorf("unexpected mapped row: %+v", got[2])
	}
}

func TestPagesFromRowsGroupsByPath(t *testing.T) {
	rows := []models.PageRow{
		{Date: "2026-08-28", Path: "/events", Title: "Events", Views: 30},
		{Date: "2026-08-27", Path: "/events", Title: "Events (old title)", Views: 20},
		{Date: "2026-08-28", Path: "/", Title: "Home", Views: 40},
	}

	got := PagesFromRows(rows, 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Path != "/events" || got[0].Views != 50 {
		t.Errorf("got[0] = %+v, want /events with 50 views", got[0])
	}
	// first-seen title wins
	if got[0].Title != "Events" {
		t.Errorf("Title = %q, want Events", got[0].Title)
	}
	if got[1].Path != "/" || got[1].Views != 40 {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestPagesFromRowsLimit(t *testing.T) {
	rows := make([]models.PageRow, 0, 15)
	for i := 0; i < 15; i++ {
		rows = append(rows, models.PageRow{Path: string(rune('a' + i)), Views: i})
	}

	if got := PagesFromRows(rows, 0); len(got) != 10 {
		t.Errorf("default limit: len = %d, want 10", len(got))
	}
	if got := PagesFromRows(rows, 3); len(got) != 3 {
		t.Errorf("explicit limit: len = %d, want 3", len(got))
	}
}

func TestSourcesFromRows(t *testing.T) {
	rows := []models.SourceRow{
		{Source: "google", Users: 30, Sessions: 40},
		{Source: "google", Users: 20, Sessions: 25},
		{Source: "", Users: 50, Sessions: 60},
		{Source: "instagram", Users: 10, Sessions: 12},
	}

	got := SourcesFromRows(rows)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// sorted by summed users descending; empty source becomes "direct"
	if got[0].Source != "direct" || got[0].Users != 50 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Source != "google" || got[1].Users != 50 || got[1].Sessions != 65 {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestDevicesFromRows(t *testing.T) {
	rows := []models.DeviceRow{
		{Device: "mobile", Users: 60, Sessions: 80, PageViews: 200},
		{Device: "desktop", Users: 40, Sessions: 50, PageViews: 150},
		{Device: "mobile", Users: 10, Sessions: 15, PageViews: 30},
	}

	got := DevicesFromRows(rows)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Device != "mobile" || got[0].Users != 70 || got[0].Sessions != 95 || got[0].PageViews != 230 {
		t.Errorf("got[0] = %+v", got[0])
	}
}

func TestKeywordsFromRowsAveragesRates(t *testing.T) {
	rows := []models.KeywordRow{
		{Query: "venue", Clicks: 10, Impressions: 100, CTR: 10, Position: 2},
		{Query: "venue", Clicks: 20, Impressions: 300, CTR: 5, Position: 4},
		{Query: "wedding", Clicks: 40, Impressions: 500, CTR: 8, Position: 3},
	}

	got := KeywordsFromRows(rows)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// sorted by summed clicks descending
	if got[0].Query != "wedding" {
		t.Errorf("got[0].Query = %q, want wedding", got[0].Query)
	}
	venue := got[1]
	if venue.Clicks != 30 || venue.Impressions != 400 {
		t.Errorf("sums = %+v", venue)
	}
	// per-appearance averages, not impression-weighted
	if venue.CTR != 7.5 {
		t.Errorf("CTR = %v, want 7.5", venue.CTR)
	}
	if venue.Position != 3 {
		t.Errorf("Position = %v, want 3", venue.Position)
	}
}

func TestPeriodWindows(t *testing.T) {
	// 2026-08-29 is a Saturday; the week starts on Sunday 2026-08-23.
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)

	p := PeriodWindows(now)

	if p.ThisWeek.StartDate != "2026-08-23" || p.ThisWeek.EndDate != "2026-08-29" {
		t.Errorf("ThisWeek = %+v", p.ThisWeek)
	}
	if p.LastWeek.StartDate != "2026-08-16" || p.LastWeek.EndDate != "2026-08-22" {
		t.Errorf("LastWeek = %+v", p.LastWeek)
	}
	if p.ThisMonth.StartDate != "2026-08-01" || p.ThisMonth.EndDate != "2026-08-29" {
		t.Errorf("ThisMonth = %+v", p.ThisMonth)
	}
	if p.LastMonth.StartDate != "2026-07-01" || p.LastMonth.EndDate != "2026-07-31" {
		t.Errorf("LastMonth = %+v", p.LastMonth)
	}
}

func TestPeriodWindowsOnSunday(t *testing.T) {
	// On a Sunday the week window collapses to a single day.
	now := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)

	p := PeriodWindows(now)

	if p.ThisWeek.StartDate != "2026-08-23" || p.ThisWeek.EndDate != "2026-08-23" {
		t.Errorf("ThisWeek = %+v", p.ThisWeek)
	}
	if p.LastWeek.StartDate != "2026-08-16" || p.LastWeek.EndDate != "2026-08-22" {
		t.Errorf("LastWeek = %+v", p.LastWeek)
	}
}
