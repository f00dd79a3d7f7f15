//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=sos_put_test
package sos_put

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
	SetSOS(ctx context.Context, active bool) error
	Snapshot() entities.DeliveryState
}
