package discovery_scan

import (
	"context"
	"errors"
	"time"

	"courier-engine/internal/service/delivery"
	"courier-engine/pkg/logger"
)

// DiscoveryScan обновляет предложения заказов, пока курьер онлайн и без
// активной доставки. Вне этого режима проход пропускается молча.
type DiscoveryScan struct {
	log      handlerLogger
	service  Service
	interval time.Duration
}

func NewDiscoveryScan(log handlerLogger, service Service, interval time.Duration) *DiscoveryScan {
	return &DiscoveryScan{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (d *DiscoveryScan) TTL() time.Duration {
	return d.interval
}

func (d *DiscoveryScan) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, d.interval)
	defer cancel()

	offers, err := d.service.RefreshOffers(ctxWithTimeout)
	switch {
	case errors.Is(err, delivery.ErrWrongStage),
		errors.Is(err, delivery.ErrOffline),
		errors.Is(err, delivery.ErrLocationUnavailable):
		return nil
	case errors.Is(err, delivery.ErrTransportFailure):
		// без связи сканирование просто повторится на следующем тике
		d.log.With(logger.NewField("error", err)).Warn("discovery scan skipped")
		return nil
	case err != nil:
		return err
	}

	d.log.With(logger.NewField("offers", len(offers))).Debug("discovery scan")
	return nil
}

func (d *DiscoveryScan) Info() string {
	return "discovery scan"
}
