// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package ga

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/gatherlens/internal/logging"
	"github.com/tomtom215/gatherlens/internal/metrics"
)

// CircuitBreakerClient wraps a ReportRunner with the circuit breaker
// pattern, preventing cascading failures when the analytics API is
// unavailable or slow.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker)
// for its interval and timeout calculations. The timing determines when to
// recover from failures, not data integrity. Unit tests should exercise the
// wrapped client directly.
type CircuitBreakerClient struct {
	client ReportRunner
	cb     *gobreaker.CircuitBreaker[*RunReportResponse]
	name   string
}

// NewCircuitBreakerClient wraps client with a circuit breaker.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client ReportRunner) *CircuitBreakerClient {
	cbName := "ga4-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*RunReportResponse](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a report call with circuit breaker protection and records
// upstream metrics per operation.
func (cbc *CircuitBreakerClient) execute(operation string, fn func() (*RunReportResponse, error)) (*RunReportResponse, error) {
	start := time.Now()

	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordUpstreamRequest("ga", operation, "rejected", time.Since(start))
			logging.Warn().Err(err).Str("operation", operation).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.RecordUpstreamRequest("ga", operation, "failure", time.Since(start))
		}
		return nil, err
	}

	metrics.RecordUpstreamRequest("ga", operation, "success", time.Since(start))
	return result, nil
}

// RunReport executes a report query through the circuit breaker.
func (cbc *CircuitBreakerClient) RunReport(ctx context.Context, req *RunReportRequest) (*RunReportResponse, error) {
	return cbc.execute("runReport", func() (*RunReportResponse, error) {
		return cbc.client.RunReport(ctx, req)
	})
}

// RunRealtimeReport executes a realtime query through the circuit breaker.
func (cbc *CircuitBreakerClient) RunRealtimeReport(ctx context.Context, req *RunRealtimeReportRequest) (*RunReportResponse, error) {
	return cbc.execute("runRealtimeReport", func() (*RunReportResponse, error) {
		return cbc.client.RunRealtimeReport(ctx, req)
	})
}

// stateToFloat converts circuit breaker state to a numeric metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
