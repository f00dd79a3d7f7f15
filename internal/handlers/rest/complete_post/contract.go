//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=complete_post_test
package complete_post

import (
	"context"

	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	CompleteDelivery(ctx context.Context, updates ...entities.DropoffUpdate) error
	Snapshot() entities.DeliveryState
}
