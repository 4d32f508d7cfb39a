package http

import (
	"net/http"

	"clubsphere-backend/internal/domain"
)

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var body createEventRequest
	if err := h.decode(r, &body, "Incomplete event details", false); err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.events.CreateEvent(r.Context(), &domain.Event{
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		ClubName:    body.ClubName,
		Date:        body.Date,
		Time:        body.Time,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{
		"message": "Event created",
		"event":   event,
	})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"events": events})
}
