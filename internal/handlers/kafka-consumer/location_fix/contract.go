//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=location_fix_test
package location_fix

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

type Feed interface {
	Publish(update entities.LocationUpdate) error
}
