package http

import (
	"net/http"

	"clubsphere-backend/internal/logger"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := h.decode(r, &body, "Incomplete registration details", false); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := h.auth.Register(r.Context(), body.UserName, body.Email, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    user,
		"token":   token,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := h.decode(r, &body, "Email and password are required", false); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "User logged in", "user_id", user.ID)
	writeSuccess(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}
