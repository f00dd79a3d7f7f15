package events

import (
	"net/http"
	"strings"
	"time"

	"courier-engine/internal/entities"
	"courier-engine/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	readLimit    = 1 << 10
	pongWait     = 60 * time.Second
	pingInterval = 20 * time.Second
	writeTimeout = 5 * time.Second
)

// Handler отдает события доставки по WebSocket. Клиент только читает,
// входящие сообщения кроме служебных игнорируются. Параметр types
// ограничивает типы событий, например ?types=stage_changed,geofence.
type Handler struct {
	log      handlerLogger
	broker   Broker
	upgrader websocket.Upgrader
}

func New(log handlerLogger, broker Broker) *Handler {
	handlerLog := log.With(logger.NewField("handler", "events_ws"))

	return &Handler{
		log:    handlerLog,
		broker: broker,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter := parseTypes(r.URL.Query().Get("types"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.With(logger.NewField("error", err)).Warn("websocket upgrade failed")
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	events, unsubscribe, err := h.broker.Subscribe()
	if err != nil {
		h.log.With(logger.NewField("error", err)).Warn("event subscription failed")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "events unavailable"),
			time.Now().Add(writeTimeout))
		return
	}
	defer unsubscribe()

	ConnectedClients.Inc()
	defer ConnectedClients.Dec()

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case <-r.Context().Done():
			return

		case event, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeTimeout))
				return
			}
			if len(filter) > 0 {
				if _, ok := filter[event.Type]; !ok {
					continue
				}
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				h.log.With(logger.NewField("error", err)).Debug("websocket write failed")
				return
			}
			SentEventsTotal.WithLabelValues(string(event.Type)).Inc()

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

// readLoop нужен чтобы обрабатывать pong и закрытие со стороны клиента.
func (h *Handler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func parseTypes(raw string) map[entities.DeliveryEventType]struct{} {
	if raw == "" {
		return nil
	}
	filter := make(map[entities.DeliveryEventType]struct{})
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter[entities.DeliveryEventType(t)] = struct{}{}
		}
	}
	return filter
}
