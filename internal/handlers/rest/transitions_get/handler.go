package transitions_get

import (
	"net/http"
	"strconv"

	"courier-engine/internal/handlers/rest/dto"
	"courier-engine/internal/handlers/rest/respond"
)

const (
	defaultLimit = 20
	maxLimit     = 200
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
	limit := uint64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 || parsed > maxLimit {
			respond.BadRequest(w, h.log, "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	transitions, err := h.service.Transitions(r.Context(), limit)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.FromTransitions(transitions))
}
