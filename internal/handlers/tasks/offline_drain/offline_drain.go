package offline_drain

import (
	"context"
	"time"

	"courier-engine/pkg/logger"
)

// OfflineDrain повторяет отложенные вызовы бэкенда, срок которых наступил.
type OfflineDrain struct {
	log      handlerLogger
	queue    Queue
	interval time.Duration
}

func NewOfflineDrain(log handlerLogger, queue Queue, interval time.Duration) *OfflineDrain {
	return &OfflineDrain{
		log:      log,
		queue:    queue,
		interval: interval,
	}
}

func (o *OfflineDrain) TTL() time.Duration {
	return o.interval
}

func (o *OfflineDrain) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	result, err := o.queue.Drain(ctxWithTimeout)

	if result.Replayed > 0 || result.Retried > 0 || result.DeadLettered > 0 {
		o.log.With(
			logger.NewField("replayed", result.Replayed),
			logger.NewField("retried", result.Retried),
			logger.NewField("dead_lettered", result.DeadLettered),
		).Info("offline queue drained")
	}

	return err
}

func (o *OfflineDrain) Info() string {
	return "offline drain"
}
