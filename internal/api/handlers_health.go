// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/gatherlens/internal/models"
)

// Health reports overall service health: which upstream providers are
// configured and when the last snapshot sync succeeded. The service is
// degraded, not down, when the live analytics provider is unconfigured.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !h.caps.Analytics {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:              status,
		Version:             h.version,
		UptimeSeconds:       time.Since(h.startTime).Seconds(),
		AnalyticsConfigured: h.caps.Analytics,
		SearchConfigured:    h.caps.Search,
		SecondaryConfigured: h.caps.Secondary,
	}

	if h.sync != nil {
		if last := h.sync.LastSyncTime(); !last.IsZero() {
			health.LastSyncTime = last.UTC().Format(time.RFC3339)
		}
	}

	respondJSON(w, http.StatusOK, health)
}

// HealthLive is the liveness probe: 200 whenever the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe. The service can serve traffic as
// long as at least one data source is configured.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.caps.Analytics || h.caps.Secondary

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, map[string]interface{}{
		"status":         status,
		"ready_to_serve": ready,
	})
}
