package backend

import (
	"context"
	"fmt"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/internal/service/delivery"
	retrierconfig "courier-engine/pkg/retrier"
	"courier-engine/pkg/retrier/backoff_adapter"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxElapsedTime  = 1 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
)

const (
	methodAcceptOrder         = "AcceptOrder"
	methodUpdateDeliveryStage = "UpdateDeliveryStage"
	methodConfirmPickup       = "ConfirmPickup"
	methodCompleteDelivery    = "CompleteDelivery"
	methodCancelDelivery      = "CancelDelivery"
	methodVerifyDeliveryToken = "VerifyDeliveryToken"
	methodSyncLocation        = "SyncLocation"
	methodNotifyLocationLoss  = "NotifyLocationLoss"
	methodNotifyGeofenceEvent = "NotifyGeofenceEvent"
	methodReportIssue         = "ReportIssue"
	methodActivateSOS         = "ActivateSOS"
	methodDeactivateSOS       = "DeactivateSOS"
	methodListNearbyOrders    = "ListNearbyOrders"
)

// Gateway клиент DeliveryBackend, courierID подставляется в каждый запрос.
type Gateway struct {
	client    client
	retrier   retrier
	courierID string
}

func New(client client, courierID string) *Gateway {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		ShouldRetry:     isRetryableCode,
	}

	return &Gateway{
		client:    client,
		retrier:   backoff_adapter.New(retryConfig),
		courierID: courierID,
	}
}

func (g *Gateway) AcceptOrder(ctx context.Context, orderID string, current entities.LocationSample) (*entities.Order, error) {
	req := &acceptOrderRequest{
		CourierID: g.courierID,
		OrderID:   orderID,
		Location:  fromLocation(current),
	}
	resp := &acceptOrderResponse{}

	if err := g.call(ctx, methodAcceptOrder, req, resp); err != nil {
		return nil, fmt.Errorf("gateway backend, accept order %s: %w", orderID, err)
	}

	if resp.Order == nil {
		return nil, fmt.Errorf("gateway backend, accept order %s: %w: empty order", orderID, delivery.ErrBackendRejected)
	}

	return toOrder(resp.Order), nil
}

func (g *Gateway) UpdateDeliveryStage(ctx context.Context, orderID string, stage entities.DeliveryStage, current *entities.LocationSample) error {
	req := &updateStageRequest{
		CourierID: g.courierID,
		OrderID:   orderID,
		Stage:     stage.String(),
		Location:  fromLocationPtr(current),
	}

	if err := g.call(ctx, methodUpdateDeliveryStage, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, update stage %s: %w", stage, err)
	}
	return nil
}

func (g *Gateway) ConfirmPickup(ctx context.Context, orderID string, v entities.PickupVerification, current *entities.LocationSample) error {
	req := &confirmPickupRequest{
		CourierID:       g.courierID,
		OrderID:         orderID,
		Photos:          fromMediaList(v.Photos),
		Condition:       string(v.Condition),
		ContactVerified: v.ContactVerified,
		Weight:          v.Weight,
		Notes:           v.Notes,
		VerifiedAt:      v.VerifiedAt,
		Location:        fromLocationPtr(current),
	}

	if err := g.call(ctx, methodConfirmPickup, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, confirm pickup: %w", err)
	}
	return nil
}

func (g *Gateway) CompleteDelivery(ctx context.Context, orderID string, v entities.DropoffVerification, current *entities.LocationSample) error {
	req := &completeDeliveryRequest{
		CourierID:     g.courierID,
		OrderID:       orderID,
		Photos:        fromMediaList(v.Photos),
		Token:         v.Token,
		RecipientName: v.RecipientName,
		Notes:         v.Notes,
		VerifiedAt:    v.VerifiedAt,
		Location:      fromLocationPtr(current),
	}
	if v.Video != nil {
		video := fromMedia(*v.Video)
		req.Video = &video
	}

	if err := g.call(ctx, methodCompleteDelivery, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, complete delivery: %w", err)
	}
	return nil
}

func (g *Gateway) CancelDelivery(
	ctx context.Context,
	orderID string,
	reason entities.CancelReason,
	description string,
	current *entities.LocationSample,
	stage entities.DeliveryStage,
) error {
	req := &cancelDeliveryRequest{
		CourierID:   g.courierID,
		OrderID:     orderID,
		Reason:      string(reason),
		Description: description,
		Stage:       stage.String(),
		Location:    fromLocationPtr(current),
	}

	if err := g.call(ctx, methodCancelDelivery, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, cancel delivery: %w", err)
	}
	return nil
}

// VerifyDeliveryToken success=false от бэкенда значит что код не совпал,
// это (false, nil). Ошибкой возвращается только сбой вызова.
func (g *Gateway) VerifyDeliveryToken(ctx context.Context, orderID, token string) (bool, error) {
	req := &verifyTokenRequest{
		CourierID: g.courierID,
		OrderID:   orderID,
		Token:     token,
	}
	resp := &baseResponse{}

	if err := g.invoke(ctx, methodVerifyDeliveryToken, req, resp); err != nil {
		return false, fmt.Errorf("gateway backend, verify token: %w", err)
	}

	if !resp.Success {
		BackendRejectionsTotal.WithLabelValues(methodVerifyDeliveryToken).Inc()
		return false, nil
	}
	return true, nil
}

func (g *Gateway) SyncLocation(ctx context.Context, orderID string, current entities.LocationSample, stage entities.DeliveryStage) error {
	req := &syncLocationRequest{
		CourierID: g.courierID,
		OrderID:   orderID,
		Stage:     stage.String(),
		Location:  fromLocation(current),
	}

	if err := g.call(ctx, methodSyncLocation, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, sync location: %w", err)
	}
	return nil
}

func (g *Gateway) NotifyLocationLoss(ctx context.Context, orderID string, last *entities.LocationSample, failureCount int) error {
	req := &locationLossRequest{
		CourierID:    g.courierID,
		OrderID:      orderID,
		FailureCount: failureCount,
		LastLocation: fromLocationPtr(last),
	}

	if err := g.call(ctx, methodNotifyLocationLoss, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, notify location loss: %w", err)
	}
	return nil
}

func (g *Gateway) NotifyGeofenceEvent(ctx context.Context, orderID string, event entities.GeofenceEvent) error {
	req := &geofenceEventRequest{
		CourierID:  g.courierID,
		OrderID:    orderID,
		Target:     event.Target.String(),
		Kind:       string(event.Kind),
		ThresholdM: event.ThresholdM,
		DistanceM:  event.DistanceM,
	}

	if err := g.call(ctx, methodNotifyGeofenceEvent, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, notify geofence event: %w", err)
	}
	return nil
}

func (g *Gateway) ReportIssue(ctx context.Context, orderID string, issue entities.Issue, current *entities.LocationSample) error {
	req := &reportIssueRequest{
		CourierID:   g.courierID,
		OrderID:     orderID,
		Category:    issue.Category,
		Description: issue.Description,
		Location:    fromLocationPtr(current),
	}

	if err := g.call(ctx, methodReportIssue, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, report issue: %w", err)
	}
	return nil
}

func (g *Gateway) ActivateSOS(ctx context.Context, orderID string, current *entities.LocationSample) error {
	req := &sosRequest{
		CourierID: g.courierID,
		OrderID:   orderID,
		Location:  fromLocationPtr(current),
	}

	if err := g.call(ctx, methodActivateSOS, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, activate sos: %w", err)
	}
	return nil
}

func (g *Gateway) DeactivateSOS(ctx context.Context, orderID string) error {
	req := &sosRequest{
		CourierID: g.courierID,
		OrderID:   orderID,
	}

	if err := g.call(ctx, methodDeactivateSOS, req, &baseResponse{}); err != nil {
		return fmt.Errorf("gateway backend, deactivate sos: %w", err)
	}
	return nil
}

func (g *Gateway) ListNearbyOrders(ctx context.Context, center entities.Coordinate, radiusKm float64) ([]entities.OrderOffer, error) {
	req := &nearbyOrdersRequest{
		CourierID: g.courierID,
		Latitude:  center.Latitude,
		Longitude: center.Longitude,
		RadiusKm:  radiusKm,
	}
	resp := &nearbyOrdersResponse{}

	if err := g.call(ctx, methodListNearbyOrders, req, resp); err != nil {
		return nil, fmt.Errorf("gateway backend, list nearby orders: %w", err)
	}
	return toOfferList(resp.Orders), nil
}

// call один unary вызов с ретраями; success=false превращается в ErrBackendRejected.
func (g *Gateway) call(ctx context.Context, method string, req any, resp response) error {
	if err := g.invoke(ctx, method, req, resp); err != nil {
		return err
	}

	if result := resp.result(); !result.Success {
		BackendRejectionsTotal.WithLabelValues(method).Inc()
		return fmt.Errorf("%w: %s", delivery.ErrBackendRejected, result.Message)
	}
	return nil
}

func (g *Gateway) invoke(ctx context.Context, method string, req, resp any) error {
	return g.executeWithMetrics(ctx, method, func(ctx context.Context) error {
		return g.client.Invoke(ctx, servicePath+method, req, resp, grpc.CallContentSubtype(CodecName))
	})
}

func isRetryableCode(err error) bool {
	if err == nil {
		return false
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}

	switch st.Code() {
	case codes.ResourceExhausted,
		codes.Unavailable,
		codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

// latency metric -> attempts metric -> retrier -> gateway
func (g *Gateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	grpcCode := getGRPCCode(err)
	BackendRequestDuration.WithLabelValues(method, grpcCode).Observe(time.Since(start).Seconds())

	if attempt > 1 {
		BackendRetriesTotal.WithLabelValues(method, grpcCode).Inc()
	}

	return err
}

func getGRPCCode(err error) string {
	if err == nil {
		return "OK"
	}
	if st, ok := status.FromError(err); ok {
		return st.Code().String()
	}
	return "UNKNOWN"
}
