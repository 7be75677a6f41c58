// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package api

import (
	"net/http"

	"github.com/tomtom215/gatherlens/internal/logging"
)

// TriggerSync starts a manual snapshot run. The run happens in the
// background; the response only acknowledges the trigger.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.sync == nil {
		respondError(w, http.StatusServiceUnavailable, "Sync manager not available")
		return
	}

	go func() {
		if err := h.sync.TriggerSync(); err != nil {
			logging.Error().Err(err).Msg("Manual sync failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"message": "Sync triggered"})
}
