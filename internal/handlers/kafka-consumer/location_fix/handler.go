package location_fix

import (
	"encoding/json"
	"errors"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/internal/pkg/locationfeed"
	"courier-engine/pkg/logger"
	"github.com/IBM/sarama"
)

var errProviderFailure = errors.New("location provider failure")

// FixMessage фикс от устройства курьера. Непустой Error означает пропущенное
// показание.
type FixMessage struct {
	CourierID  string    `json:"courier_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
	Error      string    `json:"error,omitempty"`
}

type Handler struct {
	feed      Feed
	log       handlerLogger
	courierID string
	maxAge    time.Duration
	now       func() time.Time
}

func New(log handlerLogger, feed Feed, courierID string, maxAge time.Duration) *Handler {
	handlerLog := log.With(logger.NewField("courier_id", courierID))

	return &Handler{
		feed:      feed,
		log:       handlerLog,
		courierID: courierID,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("location.fix: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			h.log.Info("location.fix: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing возвращает true, если фид закрыт и читать дальше
// бессмысленно. Сообщение в этом случае не коммитится.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	var event FixMessage
	err := json.Unmarshal(message.Value, &event)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		).Error("location.fix handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	if event.CourierID != h.courierID {
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("offset", message.Offset),
		logger.NewField("captured_at", event.CapturedAt),
	)

	if h.maxAge > 0 && !event.CapturedAt.IsZero() && h.now().Sub(event.CapturedAt) > h.maxAge {
		msgLog.Warn("location.fix handler dropped stale fix")
		sess.MarkMessage(message, "")
		return false
	}

	update := entities.LocationUpdate{
		Sample: entities.LocationSample{
			Latitude:   event.Latitude,
			Longitude:  event.Longitude,
			Accuracy:   event.Accuracy,
			CapturedAt: event.CapturedAt.UTC(),
		},
	}
	if event.Error != "" {
		update = entities.LocationUpdate{Err: errors.Join(errProviderFailure, errors.New(event.Error))}
	}

	err = h.feed.Publish(update)
	if err != nil {
		if errors.Is(err, locationfeed.ErrClosed) {
			msgLog.Warn("location.fix handler feed closed, message will be reprocessed")
			return true
		}
		msgLog.With(
			logger.NewField("error", err),
		).Error("location.fix handler failed to publish fix")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.Debug("location.fix: processed")
	sess.MarkMessage(message, "")
	return false
}
