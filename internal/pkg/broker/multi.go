package broker

import (
	"context"
	"errors"

	"courier-engine/internal/entities"
)

// Multi публикует событие во все приемники. Сбой одного приемника не
// мешает остальным, ошибки объединяются.
type Multi struct {
	publishers []Publisher
}

func NewMulti(publishers ...Publisher) *Multi {
	return &Multi{publishers: publishers}
}

func (m *Multi) Publish(ctx context.Context, event entities.DeliveryEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
