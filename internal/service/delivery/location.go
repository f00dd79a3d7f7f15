package delivery

import (
	"context"

	"courier-engine/internal/entities"
	"courier-engine/internal/service/geofence"
	"courier-engine/internal/service/navigation"
	"courier-engine/internal/service/tracker"
	"courier-engine/pkg/logger"
)

// HandleLocation обработчик показаний трекера, вызывается из одной горутины
// в порядке поступления.
func (e *Engine) HandleLocation(reading tracker.Reading) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	if !reading.Valid {
		e.handleFailureLocked(reading)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
	defer cancel()

	sample := reading.Sample
	next := cloneState(e.state)
	next.LastLocation = &sample

	if next.Order == nil || !next.Stage.OnDelivery() {
		e.pushHistoryLocked(sample)
		e.commitLocked(ctx, next)
		return
	}

	var geofenceEvents []entities.GeofenceEvent
	if target, ok := geofence.ApplicableTarget(next.Stage); ok {
		stop, _ := next.Order.Stop(target)
		if target == entities.TargetPickup {
			next.PickupGeofence, geofenceEvents = geofence.EvaluateSample(next.PickupGeofence, target, sample, stop.Coordinate)
		} else {
			next.DropoffGeofence, geofenceEvents = geofence.EvaluateSample(next.DropoffGeofence, target, sample, stop.Coordinate)
		}
	}

	if next.Navigation.Active {
		if stop, ok := next.Order.Stop(next.Navigation.Target); ok {
			next.Navigation = navigation.Update(next.Navigation, stop.Coordinate, sample, e.now())
		}
	}

	e.commitLocked(ctx, next)

	orderID := next.Order.ID
	for _, ev := range geofenceEvents {
		e.emitGeofenceLocked(orderID, ev)
	}
	if next.Navigation.Active {
		e.emitNavigationLocked()
	}

	stage := next.Stage
	e.goAsync(func(ctx context.Context) {
		err := e.backend.SyncLocation(ctx, orderID, sample, stage)
		if err == nil {
			return
		}
		e.enqueueOffline(ctx, entities.ActionSyncLocation, entities.SyncLocationPayload{
			OrderID:  orderID,
			Location: sample,
			Stage:    stage,
		}, err)
	})
}

func (e *Engine) handleFailureLocked(reading tracker.Reading) {
	switch reading.Escalation {
	case tracker.EscalationWarn:
		LocationEscalationsTotal.WithLabelValues(reading.Escalation.String()).Inc()
		e.log.Warn("location is degraded",
			logger.NewField("failures", reading.FailureCount),
			logger.NewField("error", reading.Err),
		)

		event := e.newEventLocked(entities.EventLocationDegraded)
		event.FailureCount = reading.FailureCount
		e.emitLocked(event)

	case tracker.EscalationLost:
		LocationEscalationsTotal.WithLabelValues(reading.Escalation.String()).Inc()
		e.log.Error("location is lost",
			logger.NewField("failures", reading.FailureCount),
			logger.NewField("error", reading.Err),
		)

		event := e.newEventLocked(entities.EventLocationLost)
		event.FailureCount = reading.FailureCount
		e.emitLocked(event)

		if e.state.Order == nil || !e.state.Stage.OnDelivery() {
			return
		}

		orderID := e.state.Order.ID
		last := cloneLocation(e.state.LastLocation)
		failures := reading.FailureCount
		e.goAsync(func(ctx context.Context) {
			err := e.backend.NotifyLocationLoss(ctx, orderID, last, failures)
			if err == nil {
				return
			}
			e.enqueueOffline(ctx, entities.ActionLocationLoss, entities.LocationLossPayload{
				OrderID:      orderID,
				Location:     last,
				FailureCount: failures,
			}, err)
		})
	}
}

// emitGeofenceLocked фронты входа/выхода уходят в бэкенд без повторов,
// все события геозоны публикуются.
func (e *Engine) emitGeofenceLocked(orderID string, ev entities.GeofenceEvent) {
	event := e.newEventLocked(entities.EventGeofence)
	geofenceEvent := ev
	event.Geofence = &geofenceEvent
	e.emitLocked(event)

	if !ev.Edge() {
		return
	}

	e.log.Info("geofence edge",
		logger.NewField("target", ev.Target.String()),
		logger.NewField("kind", string(ev.Kind)),
		logger.NewField("distance_m", ev.DistanceM),
	)

	e.goAsync(func(ctx context.Context) {
		if err := e.backend.NotifyGeofenceEvent(ctx, orderID, ev); err != nil {
			e.log.Warn("failed to notify geofence event",
				logger.NewField("kind", string(ev.Kind)),
				logger.NewField("error", err),
			)
		}
	})
}

func (e *Engine) pushHistoryLocked(sample entities.LocationSample) {
	e.history = append(e.history, sample)
	if overflow := len(e.history) - e.cfg.HistorySize; overflow > 0 {
		e.history = append(e.history[:0], e.history[overflow:]...)
	}
}
