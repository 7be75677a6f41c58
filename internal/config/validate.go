// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package config

import "fmt"

// Validate checks that the configuration is internally consistent. Missing
// integrations are allowed; partially configured ones are not.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateGA4(); err != nil {
		return err
	}
	if err := c.validateAirtable(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateGA4() error {
	if c.GA4.PropertyID != "" && c.GA4.CredentialsJSON == "" {
		return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS_JSON is required when GA4_PROPERTY_ID is set")
	}
	if c.SearchConsole.SiteURL != "" && c.GA4.CredentialsJSON == "" {
		return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS_JSON is required when SEARCH_CONSOLE_SITE_URL is set")
	}
	return nil
}

func (c *Config) validateAirtable() error {
	if c.Airtable.APIKey == "" && c.Airtable.BaseID == "" {
		return nil
	}
	if c.Airtable.APIKey == "" {
		return fmt.Errorf("AIRTABLE_API_KEY is required when AIRTABLE_ANALYTICS_BASE_ID is set")
	}
	if c.Airtable.BaseID == "" {
		return fmt.Errorf("AIRTABLE_ANALYTICS_BASE_ID is required when AIRTABLE_API_KEY is set")
	}
	return nil
}

func (c *Config) validateSync() error {
	if !c.Sync.Enabled {
		return nil
	}
	if !c.AnalyticsConfigured() {
		return fmt.Errorf("SYNC_ENABLED requires GA4_PROPERTY_ID and GOOGLE_APPLICATION_CREDENTIALS_JSON")
	}
	if !c.SecondaryConfigured() {
		return fmt.Errorf("SYNC_ENABLED requires AIRTABLE_API_KEY and AIRTABLE_ANALYTICS_BASE_ID")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive, got %v", c.Sync.Interval)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %v", c.Cache.TTL)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
