// Package circuitbreaker wraps sony/gobreaker with typed results and
// project defaults. Every outbound adapter (RPC, HTTP) owns one breaker so a
// failing dependency is isolated instead of stalling the scan loop.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config holds circuit breaker configuration.
type Config struct {
	Name string

	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Interval after which the closed-state failure counts reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// ConsecutiveFailures opens the breaker when reached.
	ConsecutiveFailures uint32

	// OnStateChange is invoked on every state transition.
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultConfig returns the defaults shared by all adapters: trip after 5
// consecutive failures, probe again after 30 seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		MaxRequests:         1,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// CircuitBreaker is a typed circuit breaker producing values of type T.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a circuit breaker from cfg.
func New[T any](cfg Config) *CircuitBreaker[T] {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: cfg.OnStateChange,
	}

	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn through the breaker. While open it fails fast with
// gobreaker.ErrOpenState without invoking fn.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	return c.cb.Execute(fn)
}

// State returns the current breaker state.
func (c *CircuitBreaker[T]) State() gobreaker.State {
	return c.cb.State()
}

// Name returns the breaker's name.
func (c *CircuitBreaker[T]) Name() string {
	return c.cb.Name()
}
