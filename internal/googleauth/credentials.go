// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

// Package googleauth builds authenticated HTTP clients from a Google
// service-account credential blob.
//
// The credential arrives as the raw JSON of a service-account key, usually
// via an environment variable. Deployment tooling frequently mangles the
// private_key field by escaping its newlines, so the key is normalized
// before the JWT config is built.
package googleauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// OAuth scopes for the read-only Google APIs GatherLens consumes.
const (
	ScopeAnalyticsReadonly  = "https://www.googleapis.com/auth/analytics.readonly"
	ScopeWebmastersReadonly = "https://www.googleapis.com/auth/webmasters.readonly"
)

// normalizePrivateKey converts every escaped-newline variant in a PEM key
// to real newlines. Keys pasted into env vars commonly arrive with literal
// backslash-n sequences or CRLF line endings.
func normalizePrivateKey(key string) string {
	key = strings.ReplaceAll(key, `\n`, "\n")
	key = strings.ReplaceAll(key, "\r\n", "\n")
	return strings.TrimSpace(key)
}

// normalizeCredentials parses the service-account JSON, fixes the
// private_key field, and re-serializes. Returns an error if the blob is not
// valid JSON or lacks the fields a service-account key must carry.
func normalizeCredentials(credsJSON string) ([]byte, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(credsJSON), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	if key, ok := fields["private_key"].(string); ok {
		fields["private_key"] = normalizePrivateKey(key)
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to re-serialize service account credentials: %w", err)
	}
	return normalized, nil
}

// JWTConfig builds a two-legged OAuth config from a service-account JSON
// blob for the given scopes.
func JWTConfig(credsJSON string, scopes ...string) (*jwt.Config, error) {
	normalized, err := normalizeCredentials(credsJSON)
	if err != nil {
		return nil, err
	}

	conf, err := google.JWTConfigFromJSON(normalized, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build JWT config: %w", err)
	}
	return conf, nil
}

// NewClient returns an HTTP client that attaches service-account bearer
// tokens to every request. Token refresh happens transparently inside the
// oauth2 transport.
func NewClient(ctx context.Context, credsJSON string, scopes ...string) (*http.Client, error) {
	conf, err := JWTConfig(credsJSON, scopes...)
	if err != nil {
		return nil, err
	}
	return conf.Client(ctx), nil
}
