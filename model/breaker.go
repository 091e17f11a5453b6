package model

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/atendeplus/roteiro/logging"
)

// Default circuit breaker settings.
const (
	defaultBreakerMaxFailures uint32        = 5
	defaultBreakerTimeout     time.Duration = 30 * time.Second
	defaultBreakerInterval    time.Duration = 60 * time.Second
)

// BreakerOptions configures circuit breaker behavior for a wrapped Model.
type BreakerOptions struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32

	// Timeout is how long the circuit stays open before transitioning to half-open.
	Timeout time.Duration

	// Interval is the cyclic period of the closed state for clearing failure
	// counts. If 0, failures never reset until the circuit opens.
	Interval time.Duration

	// Logger receives state change notifications.
	Logger logging.Logger
}

// Breaker wraps a Model with circuit breaker protection. When the wrapped
// provider fails repeatedly, the circuit opens and subsequent calls fail fast
// without reaching the provider, preventing retry storms against a vendor
// that is already down.
type Breaker struct {
	inner   Model
	breaker *gobreaker.CircuitBreaker[*Response]
}

// NewBreaker wraps inner with a circuit breaker.
func NewBreaker(inner Model, optFns ...func(o *BreakerOptions)) *Breaker {
	opts := BreakerOptions{
		MaxFailures: defaultBreakerMaxFailures,
		Timeout:     defaultBreakerTimeout,
		Interval:    defaultBreakerInterval,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = defaultBreakerMaxFailures
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultBreakerTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	logger := opts.Logger
	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "model:" + inner.Info().Name,
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &Breaker{inner: inner, breaker: cb}
}

// Generate implements Model. Calls are routed through the circuit breaker.
func (b *Breaker) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := b.breaker.Execute(func() (*Response, error) {
		return b.inner.Generate(ctx, req)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("model %q circuit open: %w", b.inner.Info().Name, err)
		}
		return nil, err
	}
	return resp, nil
}

// Info implements Model interface.
func (b *Breaker) Info() Info { return b.inner.Info() }

// State returns the current circuit breaker state for monitoring.
func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}

// Counts returns the current circuit breaker failure/success counts.
func (b *Breaker) Counts() gobreaker.Counts {
	return b.breaker.Counts()
}

// Compile-time interface checks.
var (
	_ Model = (*Breaker)(nil)
	_ Model = (*Mux)(nil)
	_ Model = (*MockModel)(nil)
)
