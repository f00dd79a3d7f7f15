//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=broker_test
package broker

import (
	"context"

	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, event entities.DeliveryEvent) error
}

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
