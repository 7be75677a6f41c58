// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package models

import "testing"

func TestResolveDateRange(t *testing.T) {
	tests := []struct {
		name      string
		days      int
		startDate string
		endDate   string
		wantStart string
		wantEnd   string
	}{
		{
			name:      "relative window from days",
			days:      7,
			wantStart: "7daysAgo",
			wantEnd:   "today",
		},
		{
			name:      "zero days defaults to 30",
			days:      0,
			wantStart: "30daysAgo",
			wantEnd:   "today",
		},
		{
			name:      "negative days defaults to 30",
			days:      -5,
			wantStart: "30daysAgo",
			wantEnd:   "today",
		},
		{
			name:      "absolute dates win over days",
			days:      7,
			startDate: "2026-08-01",
			endDate:   "2026-08-15",
			wantStart: "2026-08-01",
			wantEnd:   "2026-08-15",
		},
		{
			name:      "start date alone does not override",
			days:      14,
			startDate: "2026-08-01",
			wantStart: "14daysAgo",
			wantEnd:   "today",
		},
		{
			name:      "end date alone does not override",
			days:      14,
			endDate:   "2026-08-15",
			wantStart: "14daysAgo",
			wantEnd:   "today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDateRange(tt.days, tt.startDate, tt.endDate)
			if got.StartDate != tt.wantStart {
				t.Errorf("StartDate = %q, want %q", got.StartDate, tt.wantStart)
			}
			if got.EndDate != tt.wantEnd {
				t.Errorf("EndDate = %q, want %q", got.EndDate, tt.wantEnd)
			}
		})
	}
}
