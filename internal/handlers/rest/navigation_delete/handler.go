package navigation_delete

import (
	"net/http"

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
	err := h.service.StopNavigation(r.Context())
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
