// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

// Package main is the entry point for the GatherLens server.
//
// GatherLens aggregates venue marketing analytics from Google Analytics 4 and
// Search Console, with an Airtable secondary store that serves historical
// queries when live sources are slow or unavailable. A daily snapshot job
// keeps the secondary store current.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML file, env vars)
//  2. Google auth: service-account JWT clients for GA4 and Search Console
//  3. Services: GA4 reports, Search Console queries, Airtable store, all
//     behind circuit breakers and a TTL response cache
//  4. Sync manager: daily snapshot job writing GA data into Airtable
//  5. Supervisor tree: suture v4 with sync and api layers
//  6. HTTP server: chi router with CORS, rate limiting, and Prometheus metrics
//
// Every upstream integration is optional. Requests for data from an
// unconfigured source degrade to empty results rather than failing.
//
// # Configuration
//
// Core environment variables (see internal/config for the full set):
//
//	export GA4_PROPERTY_ID=123456789
//	export GOOGLE_APPLICATION_CREDENTIALS_JSON='{"type":"service_account",...}'
//	export SEARCH_CONSOLE_SITE_URL=https://venue.example.com
//	export AIRTABLE_API_KEY=pat...
//	export AIRTABLE_ANALYTICS_BASE_ID=app...
//	export SYNC_ENABLED=true
//	./gatherlens
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests (10s timeout) and the snapshot job finishes its current
// run before the process exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/gatherlens/internal/airtable"
	"github.com/tomtom215/gatherlens/internal/api"
	"github.com/tomtom215/gatherlens/internal/cache"
	"github.com/tomtom215/gatherlens/internal/config"
	"github.com/tomtom215/gatherlens/internal/ga"
	"github.com/tomtom215/gatherlens/internal/googleauth"
	"github.com/tomtom215/gatherlens/internal/logging"
	"github.com/tomtom215/gatherlens/internal/searchconsole"
	"github.com/tomtom215/gatherlens/internal/supervisor"
	"github.com/tomtom215/gatherlens/internal/sync"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; config is not available yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Bool("analytics", cfg.AnalyticsConfigured()).
		Bool("search", cfg.SearchConfigured()).
		Bool("secondary", cfg.SecondaryConfigured()).
		Bool("sync", cfg.Sync.Enabled).
		Msg("Starting GatherLens")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Authenticated clients for the Google APIs. Each scope gets its own
	// client so a leaked token stays read-only for one API.
	gaHTTP := http.DefaultClient
	scHTTP := http.DefaultClient
	if cfg.GA4.CredentialsJSON != "" {
		gaHTTP, err = googleauth.NewClient(ctx, cfg.GA4.CredentialsJSON, googleauth.ScopeAnalyticsReadonly)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to build GA4 auth client")
		}
		scHTTP, err = googleauth.NewClient(ctx, cfg.GA4.CredentialsJSON, googleauth.ScopeWebmastersReadonly)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to build Search Console auth client")
		}
	}

	store := cache.New(cfg.Cache.TTL)

	// Live read path. Unconfigured services return ErrNotConfigured and the
	// handlers degrade to empty results, so everything is always wired.
	gaClient := ga.NewClient(cfg.GA4.PropertyID, gaHTTP)
	gaService := ga.NewService(cfg.GA4.PropertyID, ga.NewCircuitBreakerClient(gaClient), store)

	scClient := searchconsole.NewClient(cfg.SearchConsole.SiteURL, scHTTP)
	scService := searchconsole.NewService(cfg.SearchConsole.SiteURL, searchconsole.NewCircuitBreakerClient(scClient), store)

	atClient := airtable.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID, airtable.Tables{
		Summary:  cfg.Airtable.Tables.Summary,
		Pages:    cfg.Airtable.Tables.Pages,
		Sources:  cfg.Airtable.Tables.Sources,
		Devices:  cfg.Airtable.Tables.Devices,
		Keywords: cfg.Airtable.Tables.Keywords,
	})
	atStore := airtable.NewStore(atClient)

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// The snapshot job needs both a live source and the secondary store.
	// Manual triggers via POST /api/v1/sync work even when the schedule is
	// disabled.
	var syncManager *sync.Manager
	if cfg.AnalyticsConfigured() && cfg.SecondaryConfigured() {
		var search sync.SearchSource
		if cfg.SearchConfigured() {
			search = scService
		}
		syncManager = sync.NewManager(gaService, search, atStore, sync.Config{
			Enabled:  cfg.Sync.Enabled,
			Interval: cfg.Sync.Interval,
		})
		tree.AddSyncService(syncManager)
	} else if cfg.Sync.Enabled {
		logging.Warn().Msg("Snapshot sync enabled but sources are not fully configured")
	}

	handlerCfg := api.HandlerConfig{
		Live:    gaService,
		Search:  scService,
		Store:   atStore,
		Version: version,
		Capabilities: api.Capabilities{
			Analytics: cfg.AnalyticsConfigured(),
			Search:    cfg.SearchConfigured(),
			Secondary: cfg.SecondaryConfigured(),
		},
	}
	if syncManager != nil {
		handlerCfg.Sync = syncManager
	}
	handler := api.NewHandler(handlerCfg)

	router := api.NewRouter(handler, api.RouterConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor finishes.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
