//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=offline_test
package offline

import (
	"context"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, action entities.OfflineAction) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]entities.OfflineAction, error)
	UpdateRetry(ctx context.Context, id uuid.UUID, retryCount int, nextAttemptAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// Backend вызовы, которые можно отложить до появления связи.
type Backend interface {
	SyncLocation(ctx context.Context, orderID string, location entities.LocationSample, stage entities.DeliveryStage) error
	NotifyLocationLoss(ctx context.Context, orderID string, location *entities.LocationSample, failureCount int) error
	ReportIssue(ctx context.Context, orderID string, issue entities.Issue, location *entities.LocationSample) error
}

type Scheduler interface {
	Delay(attempt int) time.Duration
}

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
