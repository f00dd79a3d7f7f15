package accept_post

import (
	"encoding/json"
	"net/http"

	"courier-engine/internal/handlers/rest/dto"
	"courier-engine/internal/handlers/rest/respond"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req dto.AcceptRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	err = h.service.AcceptOrder(r.Context(), req.OrderID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.FromState(h.service.Snapshot()))
}
