// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package youtube

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vidrec/internal/logging"
	"github.com/tomtom215/vidrec/internal/metrics"
	"github.com/tomtom215/vidrec/internal/recommend"
)

// API is the surface shared by Client and CircuitBreakerClient.
type API interface {
	FetchMetadata(ctx context.Context, videoID string) (*recommend.ItemMetadata, error)
	Search(ctx context.Context, query string, maxResults int) ([]*recommend.ItemMetadata, error)
}

var (
	_ API = (*Client)(nil)
	_ API = (*CircuitBreakerClient)(nil)
)

// CircuitBreakerClient wraps an API with a circuit breaker so a failing or
// exhausted upstream is not called on every request.
type CircuitBreakerClient struct {
	api  API
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// BreakerSettings tunes the circuit breaker. Zero values take defaults.
type BreakerSettings struct {
	MaxRequests uint32        // probes allowed in half-open state (default 1)
	Interval    time.Duration // closed-state count reset period (default 1m)
	Timeout     time.Duration // open-state duration (default 60s)
	MaxFailures uint32        // consecutive failures before opening (default 5)
}

// NewCircuitBreakerClient wraps api.
//
// Not-found answers and caller cancellations count as successes: they say
// nothing about upstream health.
func NewCircuitBreakerClient(api API, s BreakerSettings) *CircuitBreakerClient {
	const cbName = "youtube-api"

	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}
	if s.Interval == 0 {
		s.Interval = time.Minute
	}
	if s.Timeout == 0 {
		s.Timeout = 60 * time.Second
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	maxFailures := s.MaxFailures
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= maxFailures
			if trip {
				logging.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening YouTube circuit")
			}
			return trip
		},

		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, recommend.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] YouTube state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{api: api, cb: cb, name: cbName}
}

func (cbc *CircuitBreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := cbc.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
		logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] YouTube request rejected")
	case err != nil && !errors.Is(err, recommend.ErrNotFound):
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(cbc.cb.Counts().ConsecutiveFailures))
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	}
	return result, err
}

// FetchMetadata calls the wrapped API with circuit breaker protection.
func (cbc *CircuitBreakerClient) FetchMetadata(ctx context.Context, videoID string) (*recommend.ItemMetadata, error) {
	result, err := cbc.execute(func() (any, error) {
		return cbc.api.FetchMetadata(ctx, videoID)
	})
	if err != nil {
		return nil, err
	}
	item, ok := result.(*recommend.ItemMetadata)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for FetchMetadata")
	}
	return item, nil
}

// Search calls the wrapped API with circuit breaker protection.
func (cbc *CircuitBreakerClient) Search(ctx context.Context, query string, maxResults int) ([]*recommend.ItemMetadata, error) {
	result, err := cbc.execute(func() (any, error) {
		return cbc.api.Search(ctx, query, maxResults)
	})
	if err != nil {
		return nil, err
	}
	items, ok := result.([]*recommend.ItemMetadata)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for Search")
	}
	return items, nil
}

// State returns the current circuit breaker state
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

// Name returns the circuit breaker name
func (cbc *CircuitBreakerClient) Name() string {
	return cbc.name
}

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

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
