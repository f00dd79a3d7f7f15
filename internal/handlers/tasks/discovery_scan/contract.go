//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=discovery_scan_test
package discovery_scan

import (
	"context"

	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
)

type Service interface {
	RefreshOffers(ctx context.Context) ([]entities.OrderOffer, error)
}

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
