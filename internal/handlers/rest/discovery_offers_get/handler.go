package discovery_offers_get

import (
	"net/http"
	"strconv"

	"courier-engine/internal/entities"
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

// ServeHTTP по умолчанию отдает последний результат фонового поиска,
// refresh=true запрашивает бэкенд сразу.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	refresh := false
	if raw := r.URL.Query().Get("refresh"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respond.BadRequest(w, h.log, "refresh must be a boolean")
			return
		}
		refresh = parsed
	}

	var offers []entities.OrderOffer
	if refresh {
		var err error
		offers, err = h.service.RefreshOffers(r.Context())
		if err != nil {
			respond.Error(w, h.log, err)
			return
		}
	} else {
		offers = h.service.Offers()
	}

	respond.JSON(w, h.log, http.StatusOK, dto.FromOffers(offers))
}
