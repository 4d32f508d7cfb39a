package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) handleRequestMembership(w http.ResponseWriter, r *http.Request) {
	var body membershipRequestBody
	if err := h.decode(r, &body, "Invalid membership request", true); err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.memberships.RequestMembership(r.Context(), principal(r).UserID, mux.Vars(r)["id"], body.RequestMessage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{
		"message": "Membership request sent",
		"request": req,
	})
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.memberships.ListPending(r.Context(), r.URL.Query().Get("clubId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *Handler) handleListMyRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.memberships.ListMyRequests(r.Context(), principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"requests": requests})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	req, err := h.memberships.Approve(r.Context(), mux.Vars(r)["id"], principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "Membership request approved",
		"request": req,
	})
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	req, err := h.memberships.Reject(r.Context(), mux.Vars(r)["id"], principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "Membership request rejected",
		"request": req,
	})
}
