package delivery_get

import (
	"net/http"

	"courier-engine/internal/handlers/rest/dto"
	"courier-engine/internal/handlers/rest/respond"
)

type Handler struct {
	log     handlerLogger
	service Service
	gate    Gate
}

func New(log handlerLogger, service Service, gate Gate) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
		gate:    gate,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	state := h.service.Snapshot()
	res := dto.FromState(state)

	if state.Stage.OnDelivery() {
		missingPickup := h.gate.MissingPickup(state.Pickup)
		pickupComplete := len(missingPickup) == 0
		res.Pickup.Complete = &pickupComplete
		res.Pickup.Missing = missingPickup

		missingDropoff := h.gate.MissingDropoff(state.Dropoff)
		dropoffComplete := len(missingDropoff) == 0
		res.Dropoff.Complete = &dropoffComplete
		res.Dropoff.Missing = missingDropoff
	}

	if profile, ok := h.service.Profile(); ok {
		res.TrackingProfile = profile.Name
	}

	respond.JSON(w, h.log, http.StatusOK, res)
}
