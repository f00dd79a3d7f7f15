package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courier-engine/internal/entities"
	"courier-engine/internal/service/geofence"
	"courier-engine/internal/service/navigation"
	"courier-engine/internal/service/verification"
	"courier-engine/pkg/logger"
)

// AcceptOrder принимает заказ из режима поиска. Нужна текущая локация.
func (e *Engine) AcceptOrder(ctx context.Context, orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("accept_order", e.acceptOrderLocked(ctx, orderID))
}

func (e *Engine) acceptOrderLocked(ctx context.Context, orderID string) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if !isValidOrderID(orderID) {
		return ErrInvalidOrderID
	}
	if e.state.Stage != entities.StageDiscovering || e.state.Order != nil {
		return fmt.Errorf("%w: accept order in %s", ErrWrongStage, e.state.Stage)
	}
	if e.state.LastLocation == nil {
		return ErrLocationUnavailable
	}

	order, err := e.backend.AcceptOrder(ctx, orderID, *e.state.LastLocation)
	if err != nil {
		return transportFailure(err)
	}

	next := e.resetDeliveryLocked()
	next.Order = order
	next.Stage = entities.StageAccepted
	e.offers = nil

	e.commitLocked(ctx, next)
	return nil
}

func (e *Engine) ArriveAtPickup(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("arrive_pickup", e.arriveLocked(ctx, entities.TargetPickup))
}

func (e *Engine) ArriveAtDropoff(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("arrive_dropoff", e.arriveLocked(ctx, entities.TargetDropoff))
}

// Arrive общий вход для REST, target определяет точку.
func (e *Engine) Arrive(ctx context.Context, target entities.Target) error {
	switch target {
	case entities.TargetPickup:
		return e.ArriveAtPickup(ctx)
	case entities.TargetDropoff:
		return e.ArriveAtDropoff(ctx)
	default:
		return ErrInvalidTarget
	}
}

func (e *Engine) arriveLocked(ctx context.Context, target entities.Target) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}

	from, to := entities.StageAccepted, entities.StageArrivedPickup
	inside := e.state.PickupGeofence.Inside
	if target == entities.TargetDropoff {
		from, to = entities.StagePickedUp, entities.StageArrivedDropoff
		inside = e.state.DropoffGeofence.Inside
	}

	if e.state.Stage != from || e.state.Order == nil {
		return fmt.Errorf("%w: arrive at %s in %s", ErrWrongStage, target, e.state.Stage)
	}
	if !inside {
		return fmt.Errorf("%w: %s", ErrOutsideGeofence, target)
	}

	if err := e.backend.UpdateDeliveryStage(ctx, e.state.Order.ID, to, e.state.LastLocation); err != nil {
		return transportFailure(err)
	}

	next := cloneState(e.state)
	next.Stage = to
	next.PickupGeofence = entities.GeofenceState{}
	next.DropoffGeofence = entities.GeofenceState{}
	next.Navigation = navigation.Stop()

	e.commitLocked(ctx, next)
	return nil
}

// UpdatePickup применяет команды к черновику целиком или не применяет ни одной.
func (e *Engine) UpdatePickup(ctx context.Context, updates ...entities.PickupUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("update_pickup", e.updatePickupLocked(ctx, updates))
}

func (e *Engine) updatePickupLocked(ctx context.Context, updates []entities.PickupUpdate) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if e.state.Stage != entities.StageArrivedPickup {
		return fmt.Errorf("%w: update pickup in %s", ErrWrongStage, e.state.Stage)
	}

	draft, err := verification.ApplyPickup(e.state.Pickup, updates...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUpdate, err)
	}

	next := cloneState(e.state)
	next.Pickup = draft
	e.commitLocked(ctx, next)
	return nil
}

// ConfirmPickup принимает необязательные последние правки черновика; если
// после них подтверждение неполное, черновик не меняется.
func (e *Engine) ConfirmPickup(ctx context.Context, updates ...entities.PickupUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("confirm_pickup", e.confirmPickupLocked(ctx, updates))
}

func (e *Engine) confirmPickupLocked(ctx context.Context, updates []entities.PickupUpdate) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if e.state.Stage != entities.StageArrivedPickup {
		return fmt.Errorf("%w: confirm pickup in %s", ErrWrongStage, e.state.Stage)
	}

	draft, err := verification.ApplyPickup(e.state.Pickup, updates...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUpdate, err)
	}
	if !e.gate.PickupComplete(draft) {
		return fmt.Errorf("%w: missing %s", ErrIncompleteVerification, strings.Join(e.gate.MissingPickup(draft), ", "))
	}

	verifiedAt := e.now()
	draft.VerifiedAt = &verifiedAt

	if err := e.backend.ConfirmPickup(ctx, e.state.Order.ID, draft, cloneLocation(e.state.LastLocation)); err != nil {
		return transportFailure(err)
	}

	next := cloneState(e.state)
	next.Stage = entities.StagePickedUp
	next.Pickup = draft
	next.PickupGeofence = entities.GeofenceState{}
	next.DropoffGeofence = entities.GeofenceState{}
	next.Navigation = navigation.Stop()

	e.commitLocked(ctx, next)
	return nil
}

func (e *Engine) UpdateDropoff(ctx context.Context, updates ...entities.DropoffUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("update_dropoff", e.updateDropoffLocked(ctx, updates))
}

func (e *Engine) updateDropoffLocked(ctx context.Context, updates []entities.DropoffUpdate) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if e.state.Stage != entities.StageArrivedDropoff {
		return fmt.Errorf("%w: update dropoff in %s", ErrWrongStage, e.state.Stage)
	}

	draft, err := verification.ApplyDropoff(e.state.Dropoff, updates...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUpdate, err)
	}

	next := cloneState(e.state)
	next.Dropoff = draft
	e.commitLocked(ctx, next)
	return nil
}

// VerifyToken проверяет код получателя на бэкенде, без автоповторов.
func (e *Engine) VerifyToken(ctx context.Context, code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("verify_token", e.verifyTokenLocked(ctx, code))
}

func (e *Engine) verifyTokenLocked(ctx context.Context, code string) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if e.state.Stage != entities.StageArrivedDropoff {
		return fmt.Errorf("%w: verify token in %s", ErrWrongStage, e.state.Stage)
	}
	if !e.gate.ValidToken(code) {
		return ErrInvalidToken
	}

	valid, err := e.backend.VerifyDeliveryToken(ctx, e.state.Order.ID, code)
	if err != nil {
		return transportFailure(err)
	}
	if !valid {
		return ErrTokenMismatch
	}

	next := cloneState(e.state)
	next.Dropoff.TokenVerified = true
	next.Dropoff.Token = code
	e.commitLocked(ctx, next)
	return nil
}

// CompleteDelivery переводит в Delivered, через CompletionDelay стадия
// становится Completed и доставка финализируется.
func (e *Engine) CompleteDelivery(ctx context.Context, updates ...entities.DropoffUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("complete_delivery", e.completeDeliveryLocked(ctx, updates))
}

func (e *Engine) completeDeliveryLocked(ctx context.Context, updates []entities.DropoffUpdate) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if e.state.Stage != entities.StageArrivedDropoff {
		return fmt.Errorf("%w: complete delivery in %s", ErrWrongStage, e.state.Stage)
	}

	draft, err := verification.ApplyDropoff(e.state.Dropoff, updates...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUpdate, err)
	}
	if !e.gate.DropoffComplete(draft) {
		return fmt.Errorf("%w: missing %s", ErrIncompleteVerification, strings.Join(e.gate.MissingDropoff(draft), ", "))
	}

	verifiedAt := e.now()
	draft.VerifiedAt = &verifiedAt

	if err := e.backend.CompleteDelivery(ctx, e.state.Order.ID, draft, cloneLocation(e.state.LastLocation)); err != nil {
		return transportFailure(err)
	}

	next := cloneState(e.state)
	next.Stage = entities.StageDelivered
	next.Dropoff = draft
	next.Navigation = navigation.Stop()

	e.commitLocked(ctx, next)
	e.scheduleLocked(e.cfg.CompletionDelay, e.completeAfterDelay)
	return nil
}

// CancelDelivery разрешена только до забора посылки. После забора
// возвращается ErrCannotCancelAfterPickup, а не общая ошибка стадии.
func (e *Engine) CancelDelivery(ctx context.Context, reason entities.CancelReason, description string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("cancel_delivery", e.cancelDeliveryLocked(ctx, reason, description))
}

func (e *Engine) cancelDeliveryLocked(ctx context.Context, reason entities.CancelReason, description string) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if isPostPickup(e.state.Stage) {
		return ErrCannotCancelAfterPickup
	}
	if !isCancellable(e.state.Stage) {
		return fmt.Errorf("%w: cancel in %s", ErrWrongStage, e.state.Stage)
	}
	if !reason.Valid() {
		return ErrInvalidReason
	}

	if err := e.backend.CancelDelivery(ctx, e.state.Order.ID, reason, description, cloneLocation(e.state.LastLocation), e.state.Stage); err != nil {
		return transportFailure(err)
	}

	next := cloneState(e.state)
	next.Stage = entities.StageCancelled
	next.Navigation = navigation.Stop()

	e.commitLocked(ctx, next)
	e.scheduleLocked(e.cfg.CancelResetDelay, e.finalizeAfterDelay)
	return nil
}

// FinalizeDelivery единственный путь сброса в Discovering. Разрешен из
// Completed, Cancelled или самого Discovering, повторный вызов безопасен.
func (e *Engine) FinalizeDelivery(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("finalize_delivery", e.finalizeLocked(ctx))
}

func (e *Engine) finalizeLocked(ctx context.Context) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if !isFinalizable(e.state.Stage) {
		return fmt.Errorf("%w: finalize in %s", ErrWrongStage, e.state.Stage)
	}

	e.stopDelayedLocked()
	if e.started {
		e.tracker.Stop()
	}

	next := e.resetDeliveryLocked()
	next.Stage = entities.StageDiscovering
	e.commitLocked(ctx, next)

	// смены стадии могло не быть, подписку все равно восстанавливаем
	e.retrackLocked()
	return nil
}

func (e *Engine) completeAfterDelay() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state.Stage != entities.StageDelivered {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
	defer cancel()

	next := cloneState(e.state)
	next.Stage = entities.StageCompleted
	e.commitLocked(ctx, next)

	if err := e.finalizeLocked(ctx); err != nil {
		e.log.Error("failed to finalize completed delivery", logger.NewField("error", err))
	}
}

func (e *Engine) finalizeAfterDelay() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || (e.state.Stage != entities.StageCompleted && e.state.Stage != entities.StageCancelled) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
	defer cancel()

	if err := e.finalizeLocked(ctx); err != nil {
		e.log.Error("failed to finalize delivery", logger.NewField("error", err))
	}
}

// StartNavigation считает расстояние и ETA сразу, не дожидаясь сэмпла, и
// переключает слежение на точный профиль. Перезапуск чаще NavigationDebounce
// отклоняется.
func (e *Engine) StartNavigation(ctx context.Context, target entities.Target) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("start_navigation", e.startNavigationLocked(ctx, target))
}

func (e *Engine) startNavigationLocked(ctx context.Context, target entities.Target) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if !target.Valid() {
		return ErrInvalidTarget
	}
	if e.state.Order == nil || !e.state.Stage.OnDelivery() {
		return ErrNoActiveOrder
	}
	if applicable, ok := geofence.ApplicableTarget(e.state.Stage); !ok || applicable != target {
		return fmt.Errorf("%w: %s in %s", ErrInvalidTarget, target, e.state.Stage)
	}
	if e.state.LastLocation == nil {
		return ErrLocationUnavailable
	}

	now := e.now()
	if !allowedNow(now, e.lastNavigationStart, e.cfg.NavigationDebounce) {
		return ErrNavigationDebounced
	}
	e.lastNavigationStart = now

	stop, _ := e.state.Order.Stop(target)

	next := cloneState(e.state)
	next.Navigation = navigation.Start(target, stop.Coordinate, *e.state.LastLocation, now)
	e.commitLocked(ctx, next)
	e.retrackLocked()
	e.emitNavigationLocked()
	return nil
}

// StopNavigation возвращает слежение к профилю стадии; без активной навигации
// ничего не делает.
func (e *Engine) StopNavigation(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || !e.state.Navigation.Active {
		return nil
	}

	next := cloneState(e.state)
	next.Navigation = navigation.Stop()
	e.commitLocked(ctx, next)
	e.retrackLocked()
	e.emitNavigationLocked()
	return nil
}

// ReportIssue при недоступном бэкенде кладет обращение в офлайн очередь,
// тогда queued=true и ошибки нет.
func (e *Engine) ReportIssue(ctx context.Context, issue entities.Issue) (queued bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	queued, err = e.reportIssueLocked(ctx, issue)
	return queued, e.observe("report_issue", err)
}

func (e *Engine) reportIssueLocked(ctx context.Context, issue entities.Issue) (bool, error) {
	if err := e.checkOpenLocked(); err != nil {
		return false, err
	}
	if !isValidIssue(issue) {
		return false, ErrInvalidIssue
	}
	if e.state.Order == nil {
		return false, ErrNoActiveOrder
	}

	orderID := e.state.Order.ID
	location := cloneLocation(e.state.LastLocation)

	err := e.backend.ReportIssue(ctx, orderID, issue, location)
	if err == nil {
		e.log.Info("issue reported",
			logger.NewField("order_id", orderID),
			logger.NewField("category", issue.Category),
		)
		return false, nil
	}

	payload := entities.ReportIssuePayload{OrderID: orderID, Issue: issue, Location: location}
	if qErr := e.queue.Enqueue(ctx, entities.ActionReportIssue, payload); qErr != nil {
		return false, transportFailure(errors.Join(err, qErr))
	}

	e.log.Warn("issue report queued for retry",
		logger.NewField("order_id", orderID),
		logger.NewField("error", err),
	)
	return true, nil
}

func (e *Engine) SetSOS(ctx context.Context, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("set_sos", e.setSOSLocked(ctx, active))
}

func (e *Engine) setSOSLocked(ctx context.Context, active bool) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if e.state.SOSActive == active {
		return nil
	}

	orderID := orderIDOf(e.state)

	var err error
	if active {
		err = e.backend.ActivateSOS(ctx, orderID, e.state.LastLocation)
	} else {
		err = e.backend.DeactivateSOS(ctx, orderID)
	}
	if err != nil {
		return transportFailure(err)
	}

	next := cloneState(e.state)
	next.SOSActive = active
	e.commitLocked(ctx, next)

	event := e.newEventLocked(entities.EventSOS)
	event.SOSActive = &active
	e.emitLocked(event)

	if active {
		e.log.Warn("SOS activated", logger.NewField("order_id", orderID))
	} else {
		e.log.Info("SOS deactivated", logger.NewField("order_id", orderID))
	}
	return nil
}

// resetDeliveryLocked состояние без заказа; локация, настройки поиска и SOS
// переживают сброс.
func (e *Engine) resetDeliveryLocked() entities.DeliveryState {
	next := e.defaultState()
	next.LastLocation = cloneLocation(e.state.LastLocation)
	next.Discovery = e.state.Discovery
	next.SOSActive = e.state.SOSActive
	return next
}

func (e *Engine) emitNavigationLocked() {
	event := e.newEventLocked(entities.EventNavigation)
	navigationState := cloneState(e.state).Navigation
	event.Navigation = &navigationState
	e.emitLocked(event)
}

func (e *Engine) checkOpenLocked() error {
	if e.closed {
		return ErrClosed
	}
	return nil
}

// observe пишет метрику исхода действия и возвращает ошибку как есть.
func (e *Engine) observe(action string, err error) error {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrCannotCancelAfterPickup):
		result = "cannot_cancel"
	case errors.Is(err, ErrGuardViolation):
		result = "guard"
	case errors.Is(err, ErrTokenMismatch):
		result = "token_mismatch"
	case errors.Is(err, ErrTransportFailure):
		result = "transport"
	default:
		result = "other"
	}
	ActionResultsTotal.WithLabelValues(action, result).Inc()

	if err != nil {
		e.log.Debug("action rejected",
			logger.NewField("action", action),
			logger.NewField("result", result),
			logger.NewField("error", err),
		)
	}
	return err
}

func transportFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrTransportFailure, err)
}

func cloneLocation(l *entities.LocationSample) *entities.LocationSample {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
