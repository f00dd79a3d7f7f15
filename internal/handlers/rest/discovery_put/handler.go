package discovery_put

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

// ServeHTTP незаданные поля берутся из текущих настроек.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req dto.DiscoveryRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	settings := h.service.Snapshot().Discovery
	if req.Online != nil {
		settings.Online = *req.Online
	}
	if req.ScanRadiusKm != nil {
		settings.ScanRadiusKm = *req.ScanRadiusKm
	}

	err = h.service.UpdateDiscovery(r.Context(), settings)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, dto.FromState(h.service.Snapshot()))
}
