// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

/*
Package middleware provides HTTP middleware components for the application.

Request ID tracking assigns a UUID to every request (honoring IDs set by an
upstream proxy) and threads it through the logging context. Prometheus
instrumentation records request counts, latencies, and the in-flight gauge.

Both middlewares operate on http.HandlerFunc and are adapted to chi's
func(http.Handler) http.Handler form in the api package.
*/
package middleware
