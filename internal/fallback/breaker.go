package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through
	OpenTimeout time.Duration
}

// Breaker fails fast while the wrapped delegate keeps failing
type Breaker struct {
	next Delegate
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreaker(next Delegate, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "fallback",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// caller cancellation is not a delegate failure; timeouts are
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Reply(ctx context.Context, utterance string) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Reply(ctx, utterance)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return text, nil
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Status reports the breaker state: closed, half-open or open
func (b *Breaker) Status() string {
	return b.State().String()
}
