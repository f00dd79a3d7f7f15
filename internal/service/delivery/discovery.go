package delivery

import (
	"context"
	"fmt"

	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
)

// UpdateDiscovery включает или выключает поиск заказов. Офлайн в стадии
// поиска слежение за локацией останавливается.
func (e *Engine) UpdateDiscovery(ctx context.Context, settings entities.DiscoverySettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.observe("update_discovery", e.updateDiscoveryLocked(ctx, settings))
}

func (e *Engine) updateDiscoveryLocked(ctx context.Context, settings entities.DiscoverySettings) error {
	if err := e.checkOpenLocked(); err != nil {
		return err
	}
	if !isValidDiscovery(settings) {
		return fmt.Errorf("%w: scan radius %.1f km", ErrInvalidSettings, settings.ScanRadiusKm)
	}

	next := cloneState(e.state)
	next.Discovery = settings
	if !settings.Online {
		e.offers = nil
	}

	e.commitLocked(ctx, next)
	e.retrackLocked()

	e.log.Info("discovery settings updated",
		logger.NewField("online", settings.Online),
		logger.NewField("scan_radius_km", settings.ScanRadiusKm),
	)
	return nil
}

// RefreshOffers запрашивает заказы рядом и заменяет список предложений.
func (e *Engine) RefreshOffers(ctx context.Context) ([]entities.OrderOffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	offers, err := e.refreshOffersLocked(ctx)
	return offers, e.observe("refresh_offers", err)
}

func (e *Engine) refreshOffersLocked(ctx context.Context) ([]entities.OrderOffer, error) {
	if err := e.checkOpenLocked(); err != nil {
		return nil, err
	}
	if e.state.Stage != entities.StageDiscovering {
		return nil, fmt.Errorf("%w: refresh offers in %s", ErrWrongStage, e.state.Stage)
	}
	if !e.state.Discovery.Online {
		return nil, ErrOffline
	}
	if e.state.LastLocation == nil {
		return nil, ErrLocationUnavailable
	}

	center := e.state.LastLocation.Coordinate()
	offers, err := e.backend.ListNearbyOrders(ctx, center, e.state.Discovery.ScanRadiusKm)
	if err != nil {
		return nil, transportFailure(err)
	}

	e.offers = offers
	e.emitLocked(e.newEventLocked(entities.EventOffersUpdated))

	result := make([]entities.OrderOffer, len(offers))
	copy(result, offers)
	return result, nil
}
