package backoff_adapter

import (
	"context"
	"time"

	"courier-engine/pkg/retrier"
	"github.com/cenkalti/backoff/v4"
)

type Retrier struct {
	config retrier.Config
}

func New(config retrier.Config) *Retrier {
	return &Retrier{config: config}
}

func (r *Retrier) ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error {
	var b backoff.BackOff = r.newExponential(r.config.Randomization, r.config.MaxElapsedTime)
	if r.config.MaxRetries > 0 {
		b = backoff.WithMaxRetries(b, r.config.MaxRetries)
	}

	operation := func() error {
		err := fn(ctx)
		if err != nil && r.config.ShouldRetry != nil && !r.config.ShouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	if r.config.Notify != nil {
		return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), backoff.Notify(r.config.Notify))
	}
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

// Delay возвращает паузу перед попыткой номер attempt (с нуля) без рандомизации,
// ограниченную MaxInterval.
func (r *Retrier) Delay(attempt int) time.Duration {
	b := r.newExponential(0, 0)
	b.Reset()

	delay := b.NextBackOff()
	for i := 0; i < attempt; i++ {
		delay = b.NextBackOff()
		if delay >= r.config.MaxInterval {
			return r.config.MaxInterval
		}
	}
	return delay
}

func (r *Retrier) newExponential(randomization float64, maxElapsed time.Duration) *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.config.InitialInterval),
		backoff.WithMaxInterval(r.config.MaxInterval),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithRandomizationFactor(randomization),
		backoff.WithMultiplier(r.config.Multiplier),
	)
}
