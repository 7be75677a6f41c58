// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	GA4           GA4Config           `koanf:"ga4"`
	SearchConsole SearchConsoleConfig `koanf:"search_console"`
	Airtable      AirtableConfig      `koanf:"airtable"`
	Cache         CacheConfig         `koanf:"cache"`
	Sync          SyncConfig          `koanf:"sync"`
	Security      SecurityConfig      `koanf:"security"`
	Logging       LoggingConfig       `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// GA4Config holds Google Analytics Data API settings.
type GA4Config struct {
	PropertyID string `koanf:"property_id"`
	// CredentialsJSON is the service account key as a JSON string,
	// shared with Search Console.
	CredentialsJSON string `koanf:"credentials_json"`
}

// SearchConsoleConfig holds Search Console API settings. Authentication
// reuses the GA4 service account credentials.
type SearchConsoleConfig struct {
	SiteURL string `koanf:"site_url"`
}

// AirtableConfig holds secondary store settings.
type AirtableConfig struct {
	APIKey string       `koanf:"api_key"`
	BaseID string       `koanf:"base_id"`
	Tables TablesConfig `koanf:"tables"`
}

// TablesConfig maps snapshot tables to Airtable table IDs or names.
type TablesConfig struct {
	Summary  string `koanf:"summary"`
	Pages    string `koanf:"pages"`
	Sources  string `koanf:"sources"`
	Devices  string `koanf:"devices"`
	Keywords string `koanf:"keywords"`
}

// CacheConfig holds in-memory response cache settings.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// SyncConfig holds snapshot sync job settings.
type SyncConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int      `koanf:"rate_limit_reqs"`
	RateLimitDisabled bool     `koanf:"rate_limit_disabled"`
	CORSOrigins       []string `koanf:"cors_origins"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AnalyticsConfigured reports whether the GA4 live source can be wired.
func (c *Config) AnalyticsConfigured() bool {
	return c.GA4.PropertyID != "" && c.GA4.CredentialsJSON != ""
}

// SearchConfigured reports whether the Search Console source can be wired.
func (c *Config) SearchConfigured() bool {
	return c.SearchConsole.SiteURL != "" && c.GA4.CredentialsJSON != ""
}

// SecondaryConfigured reports whether the Airtable store can be wired.
func (c *Config) SecondaryConfigured() bool {
	return c.Airtable.APIKey != "" && c.Airtable.BaseID != ""
}
