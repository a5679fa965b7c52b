// Package resilience short-circuits repeatedly failing external
// capabilities. Calls are never retried here: a single failure degrades the
// request, the breaker only makes sustained outages fail fast.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrorClassification decides whether a failure counts against the circuit.
// Cancellations and caller mistakes should not trip a healthy capability.
type ErrorClassification struct {
	RecordFailure bool
}

type ErrorClassifier func(err error) ErrorClassification

type Config struct {
	Enabled          bool
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		MinRequests:      10,
		FailureRatio:     0.5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxCalls: 2,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()
	if out.MinRequests == 0 {
		out.MinRequests = def.MinRequests
	}
	if out.FailureRatio <= 0 || out.FailureRatio > 1 {
		out.FailureRatio = def.FailureRatio
	}
	if out.OpenTimeout <= 0 {
		out.OpenTimeout = def.OpenTimeout
	}
	if out.HalfOpenMaxCalls == 0 {
		out.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	return out
}

// Breaker keeps one circuit per named operation.
type Breaker struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewBreaker(cfg Config) *Breaker {
	return &Breaker{
		cfg:      cfg.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// Execute runs fn once behind the operation's circuit. When the circuit is
// open the call fails immediately without reaching the capability.
func (b *Breaker) Execute(ctx context.Context, operation string, fn func(context.Context) error, classifier ErrorClassifier) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classifier == nil {
		classifier = defaultClassifier
	}

	if !b.cfg.Enabled {
		return fn(ctx)
	}

	breaker := b.circuitBreaker(op, classifier)
	_, err := breaker.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	return err
}

func (b *Breaker) circuitBreaker(operation string, classifier ErrorClassifier) *gobreaker.CircuitBreaker[any] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if breaker, ok := b.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: b.cfg.HalfOpenMaxCalls,
		Timeout:     b.cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < b.cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= b.cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !classifier(err).RecordFailure
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	b.breakers[operation] = breaker
	return breaker
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// ClassifyDefault skips recording cancellations and deadline expiries; they
// say nothing about the capability's health.
func ClassifyDefault(err error) ErrorClassification {
	if err == nil {
		return ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassification{RecordFailure: false}
	}
	return ErrorClassification{RecordFailure: true}
}

func defaultClassifier(error) ErrorClassification {
	return ErrorClassification{RecordFailure: true}
}
