package pickup_post

import (
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

// ServeHTTP тело необязательно: последние правки черновика можно прислать
// вместе с подтверждением.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var patch dto.VerificationPatch
	err := dto.DecodeOptional(r.Body, &patch)
	if err != nil {
		respond.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	updates, err := patch.PickupUpdates()
	if err != nil {
		respond.BadRequest(w, h.log, err.Error())
		return
	}

	err = h.service.ConfirmPickup(r.Context(), updates...)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.FromState(h.service.Snapshot()))
}
