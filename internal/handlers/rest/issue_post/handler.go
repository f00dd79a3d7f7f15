package issue_post

import (
	"encoding/json"
	"net/http"

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

// ServeHTTP отвечает 202, если бэкенд недоступен и обращение ушло в
// офлайн очередь.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	queued, err := h.service.ReportIssue(r.Context(), entities.Issue{
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	status := http.StatusOK
	if queued {
		status = http.StatusAccepted
	}
	respond.JSON(w, h.log, status, dto.IssueResponse{Queued: queued})
}
