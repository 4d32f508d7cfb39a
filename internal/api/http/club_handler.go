package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"clubsphere-backend/internal/domain"
)

func (h *Handler) handleListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubs.ListClubs(r.Context(), principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"clubs": clubs})
}

func (h *Handler) handleListMyClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubs.ListMyClubs(r.Context(), principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"clubs": clubs})
}

func (h *Handler) handleGetClub(w http.ResponseWriter, r *http.Request) {
	club, err := h.clubs.GetClub(r.Context(), principal(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"club": club})
}

func (h *Handler) handleCreateClub(w http.ResponseWriter, r *http.Request) {
	var body createClubRequest
	if err := h.decode(r, &body, "Incomplete club details", false); err != nil {
		writeError(w, r, err)
		return
	}

	club, err := h.clubs.CreateClub(r.Context(), principal(r).UserID, &domain.Club{
		Name:        body.ClubName,
		Description: body.ClubDescription,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{
		"message": "Club created",
		"club":    club,
	})
}
