// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

// Package sync implements the periodic snapshot job that copies the previous
// day's analytics out of Google Analytics and Search Console into the
// Airtable secondary store.
//
// The Manager runs as a supervised service (suture.Service) on a configurable
// interval and can also be triggered manually via the API. Each run snapshots
// exactly one date, yesterday relative to the manager's clock, and upserts it
// by date so re-running a day is safe.
package sync
