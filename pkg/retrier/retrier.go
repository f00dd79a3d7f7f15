package retrier

import (
	"context"
	"time"
)

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

// Scheduler считает паузу перед повторной попыткой по номеру попытки,
// используется там где ретраи растянуты во времени (очередь офлайн действий).
type Scheduler interface {
	Delay(attempt int) time.Duration
}

type ShouldRetryFunc func(error) bool

type NotifyFunc func(err error, next time.Duration)

type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Randomization   float64
	Multiplier      float64

	// 0 - без ограничения по количеству, только MaxElapsedTime
	MaxRetries uint64

	// Если nil - ретраятся все ошибки, если не nil - только те где функция вернула true
	ShouldRetry ShouldRetryFunc

	// Вызывается перед каждой паузой, удобно для логов старта инфраструктуры
	Notify NotifyFunc
}
