// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package textgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/meettm/internal/logging"
	"github.com/tomtom215/meettm/internal/metrics"
)

// Generator is the single capability the breaker wraps.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// BreakerConfig tunes the circuit breaker around the text-generation client.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // closed-state counting window
	Timeout      time.Duration // open period before half-open
	MinRequests  uint32        // requests in the window before the ratio is considered
	FailureRatio float64
}

// DefaultBreakerConfig opens at a 60% failure rate over at least 10 requests
// in a one-minute window and probes again after one minute.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "textgen-api",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerClient wraps a Generator with a circuit breaker. While the circuit is
// open, calls fail immediately with gobreaker.ErrOpenState and the gateway
// serves its local fallback.
//
// The breaker uses real time for its interval and timeout. Tests that need the
// open-to-half-open transition use a short Timeout.
type BreakerClient struct {
	next Generator
	cb   *gobreaker.CircuitBreaker[string]
	name string
}

// NewBreakerClient wraps next. Zero fields in cfg take the defaults.
func NewBreakerClient(next Generator, cfg BreakerConfig) *BreakerClient {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	if cfg.FailureRatio <= 0 || cfg.FailureRatio > 1 {
		cfg.FailureRatio = def.FailureRatio
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logging.Warn().
					Str("breaker", cfg.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A caller hanging up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerClient{next: next, cb: cb, name: cfg.Name}
}

// Generate runs the wrapped call under the breaker.
func (b *BreakerClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Request rejected")
			return "", fmt.Errorf("circuit %s: %w", b.name, err)
		case errors.Is(err, context.Canceled):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "canceled").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return "", err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return text, nil
}

// State reports the breaker state as closed, half-open or open.
func (b *BreakerClient) State() string {
	return stateToString(b.cb.State())
}

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
