package config

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// ErrAbandoned marks a call whose caller went away before it finished. The
// breaker does not count it against the dependency.
var ErrAbandoned = errors.New("abandoned by caller")

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string, logger *zerolog.Logger) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	switch name {
	case "Redis-Auth":
		timeout = time.Second * 5 // same as the readiness probe
	case "PostgreSQL":
		timeout = time.Second * 10
	default:
		timeout = time.Second * 30
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrAbandoned)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Error().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}
