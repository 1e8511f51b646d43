package openrouter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// GuardConfig tunes the client-side protection around OpenRouter calls. The
// breaker sheds load during sustained upstream outages; the limiter keeps the
// service under the account's request quota.
type GuardConfig struct {
	RequestsPerSecond float64
	Burst             int

	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		RequestsPerSecond: 5,
		Burst:             10,

		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

func (c GuardConfig) normalize() GuardConfig {
	out := c
	def := DefaultGuardConfig()

	if out.RequestsPerSecond <= 0 {
		out.RequestsPerSecond = def.RequestsPerSecond
	}
	if out.Burst <= 0 {
		out.Burst = def.Burst
	}
	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}
	return out
}

// Guard combines a rate limiter and a circuit breaker in front of the
// completion call. There is deliberately no retry layer here.
type Guard struct {
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
}

func NewGuard(cfg GuardConfig) *Guard {
	cfg = cfg.normalize()

	settings := gobreaker.Settings{
		Name:        "openrouter",
		MaxRequests: cfg.BreakerHalfOpenMaxCalls,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about upstream health.
			if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			return false
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	return &Guard{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Do runs one guarded call: wait for a token, then pass through the breaker.
func (g *Guard) Do(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return g.breaker.Execute(func() (string, error) {
		return fn(ctx)
	})
}

// IsCircuitOpen reports whether the breaker rejected the call outright.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
