// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

/*
Package api provides the HTTP surface of GatherLens: the chi router, the
middleware stack, and the aggregation handler.

The aggregation endpoint is GET /api/v1/analytics, dispatched on the `type`
query parameter. For metric types that also exist in the secondary store
(summary, daily, pages, sources, devices, keywords) the handler reads the
store first and falls back to the live analytics APIs when the store is
unavailable or empty; `source=ga` forces the live path. Every response
carries a `source` provenance tag (ga, airtable, or mixed for composite
payloads assembled from both).

Operational endpoints: /api/v1/health (+ /live, /ready), POST /api/v1/sync
for a manual snapshot run, and /metrics in Prometheus text format.
*/
package api
