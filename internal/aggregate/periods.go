// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package aggregate

import (
	"time"

	"github.com/tomtom215/gatherlens/internal/models"
)

// Periods holds the four fixed reporting windows for period keyword
// queries, as absolute dates. Weeks start on Sunday.
type Periods struct {
	ThisWeek  models.DateRange
	LastWeek  models.DateRange
	ThisMonth models.DateRange
	LastMonth models.DateRange
}

const dateLayout = "2006-01-02"

// PeriodWindows computes the reporting windows relative to now:
// this week (most recent Sunday through today), last week (the seven days
// before that), this month (the 1st through today), and last month.
func PeriodWindows(now time.Time) Periods {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	thisWeekStart := today.AddDate(0, 0, -int(today.Weekday()))
	lastWeekEnd := thisWeekStart.AddDate(0, 0, -1)
	lastWeekStart := lastWeekEnd.AddDate(0, 0, -6)

	thisMonthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	lastMonthEnd := thisMonthStart.AddDate(0, 0, -1)
	lastMonthStart := time.Date(lastMonthEnd.Year(), lastMonthEnd.Month(), 1, 0, 0, 0, 0, today.Location())

	return Periods{
		ThisWeek: models.DateRange{
			StartDate: thisWeekStart.Format(dateLayout),
			EndDate:   today.Format(dateLayout),
		},
		LastWeek: models.DateRange{
			StartDate: lastWeekStart.Format(dateLayout),
			EndDate:   lastWeekEnd.Format(dateLayout),
		},
		ThisMonth: models.DateRange{
			StartDate: thisMonthStart.Format(dateLayout),
			EndDate:   today.Format(dateLayout),
		},
		LastMonth: models.DateRange{
			StartDate: lastMonthStart.Format(dateLayout),
			EndDate:   lastMonthEnd.Format(dateLayout),
		},
	}
}
