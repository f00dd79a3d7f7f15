//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=tracker_test
package tracker

import (
	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
)

// Source поток показаний с устройства. Подписка живет до вызова unsubscribe,
// после него канал закрывается источником.
type Source interface {
	Subscribe(profile entities.TrackingProfile) (updates <-chan entities.LocationUpdate, unsubscribe func(), err error)
}

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
