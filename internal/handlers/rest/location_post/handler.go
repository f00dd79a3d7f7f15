package location_post

import (
	"encoding/json"
	"net/http"
	"time"

	"courier-engine/internal/handlers/rest/dto"
	"courier-engine/internal/handlers/rest/respond"
)

type Handler struct {
	log  handlerLogger
	feed Feed
	now  func() time.Time
}

func New(log handlerLogger, feed Feed) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:  handlerLog,
		feed: feed,
		now:  time.Now,
	}
}

// ServeHTTP фикс уходит в фид асинхронно, движок обработает его по
// профилю слежения.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req dto.LocationRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	err = h.feed.Publish(req.ToUpdate(h.now()))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
