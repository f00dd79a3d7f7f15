//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=discovery_offers_get_test
package discovery_offers_get

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
	Offers() []entities.OrderOffer
	RefreshOffers(ctx context.Context) ([]entities.OrderOffer, error)
}
