//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=offline_drain_test
package offline_drain

import (
	"context"

	"courier-engine/internal/service/offline"
	"courier-engine/pkg/logger"
)

type Queue interface {
	Drain(ctx context.Context) (offline.DrainResult, error)
}

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
