package ping_get

import (
	"net/http"

	"courier-engine/internal/handlers/rest/dto"
	"courier-engine/internal/handlers/rest/respond"
)

type Handler struct {
	log       handlerLogger
	courierID string
}

func New(log handlerLogger, courierID string) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:       handlerLog,
		courierID: courierID,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	message := "pong"
	res := dto.PingResponse{
		Message:   &message,
		CourierID: h.courierID,
	}

	respond.JSON(w, h.log, http.StatusOK, res)
}
