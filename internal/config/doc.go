// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

// Package config loads application configuration with Koanf v2 using layered
// sources: built-in defaults, then an optional YAML file, then environment
// variables. Environment variables win.
//
// All three upstream integrations are optional. GA4 and Search Console drive
// the live read path, Airtable drives the secondary store and the snapshot
// sync job. The *Configured helpers report which integrations have enough
// configuration to be wired.
package config
