//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=verification_patch_test
package verification_patch

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
	UpdatePickup(ctx context.Context, updates ...entities.PickupUpdate) error
	UpdateDropoff(ctx context.Context, updates ...entities.DropoffUpdate) error
	Snapshot() entities.DeliveryState
}
