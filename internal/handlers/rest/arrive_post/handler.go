package arrive_post

import (
	"net/http"

	"courier-engine/internal/entities"
	"courier-engine/internal/handlers/rest/dto"
	"courier-engine/internal/handlers/rest/respond"
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

// ServeHTTP цель берется из пути /delivery/arrive/{target}, проверку
// значения делает движок.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := entities.Target(mux.Vars(r)["target"])

	err := h.service.Arrive(r.Context(), target)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.FromState(h.service.Snapshot()))
}
