//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_test
package delivery

import (
	"context"

	"courier-engine/internal/entities"
	"courier-engine/internal/service/tracker"
	"courier-engine/pkg/logger"
)

type Backend interface {
	AcceptOrder(ctx context.Context, orderID string, current entities.LocationSample) (*entities.Order, error)
	UpdateDeliveryStage(ctx context.Context, orderID string, stage entities.DeliveryStage, current *entities.LocationSample) error
	ConfirmPickup(ctx context.Context, orderID string, verification entities.PickupVerification, current *entities.LocationSample) error
	CompleteDelivery(ctx context.Context, orderID string, verification entities.DropoffVerification, current *entities.LocationSample) error
	CancelDelivery(ctx context.Context, orderID string, reason entities.CancelReason, description string, current *entities.LocationSample, stage entities.DeliveryStage) error
	VerifyDeliveryToken(ctx context.Context, orderID string, token string) (bool, error)
	SyncLocation(ctx context.Context, orderID string, current entities.LocationSample, stage entities.DeliveryStage) error
	NotifyLocationLoss(ctx context.Context, orderID string, last *entities.LocationSample, failureCount int) error
	NotifyGeofenceEvent(ctx context.Context, orderID string, event entities.GeofenceEvent) error
	ReportIssue(ctx context.Context, orderID string, issue entities.Issue, current *entities.LocationSample) error
	ActivateSOS(ctx context.Context, orderID string, current *entities.LocationSample) error
	DeactivateSOS(ctx context.Context, orderID string) error
	ListNearbyOrders(ctx context.Context, center entities.Coordinate, radiusKm float64) ([]entities.OrderOffer, error)
}

type Repository interface {
	Load(ctx context.Context, courierID string) (*entities.DeliveryState, error)
	Save(ctx context.Context, state entities.DeliveryState) error
	AppendTransition(ctx context.Context, transition entities.StageTransition) error
	Transitions(ctx context.Context, courierID string, limit uint64) ([]entities.StageTransition, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Tracker interface {
	Start(handler tracker.Handler) error
	Track(profile entities.TrackingProfile) error
	Stop()
	Close()
	Profile() (entities.TrackingProfile, bool)
}

type OfflineQueue interface {
	Enqueue(ctx context.Context, kind entities.OfflineActionKind, payload any) error
}

type Publisher interface {
	Publish(ctx context.Context, event entities.DeliveryEvent) error
}

type Gate interface {
	PickupComplete(v entities.PickupVerification) bool
	MissingPickup(v entities.PickupVerification) []string
	DropoffComplete(v entities.DropoffVerification) bool
	MissingDropoff(v entities.DropoffVerification) []string
	ValidToken(code string) bool
}

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
