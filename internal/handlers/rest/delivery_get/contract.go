//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_get_test
package delivery_get

import (
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
	Snapshot() entities.DeliveryState
	Profile() (entities.TrackingProfile, bool)
}

type Gate interface {
	MissingPickup(v entities.PickupVerification) []string
	MissingDropoff(v entities.DropoffVerification) []string
}
