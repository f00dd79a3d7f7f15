package verification_patch

import (
	"encoding/json"
	"errors"
	"net/http"

	"courier-engine/internal/entities"
	"courier-engine/internal/handlers/rest/dto"
	"courier-engine/internal/handlers/rest/respond"
	"courier-engine/internal/service/delivery"
	"github.com/gorilla/mux"
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
	var patch dto.VerificationPatch
	err := json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		respond.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	switch entities.Target(mux.Vars(r)["target"]) {
	case entities.TargetPickup:
		var updates []entities.PickupUpdate
		updates, err = patch.PickupUpdates()
		if err == nil {
			err = h.service.UpdatePickup(r.Context(), updates...)
		}
	case entities.TargetDropoff:
		var updates []entities.DropoffUpdate
		updates, err = patch.DropoffUpdates()
		if err == nil {
			err = h.service.UpdateDropoff(r.Context(), updates...)
		}
	default:
		err = delivery.ErrInvalidTarget
	}

	if err != nil {
		if errors.Is(err, dto.ErrFieldNotApplicable) {
			respond.BadRequest(w, h.log, err.Error())
			return
		}
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.FromState(h.service.Snapshot()))
}
