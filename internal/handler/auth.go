package handler

import (
	"net/http"
)

// RequestLinkRequest asks for a magic login link.
type RequestLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleRequestLink asks the platform to email a magic login link.
func (h *Handler) HandleRequestLink(w http.ResponseWriter, r *http.Request) {
	var req RequestLinkRequest
	if err := h.decodeAndValidate(w, r, &req, "Request login link"); err != nil {
		return
	}

	if err := h.auth.RequestLink(r.Context(), req.Email); err != nil {
		respondServiceError(w, r, "Request login link", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Login link sent"})
}

// HandleVerify exchanges the magic-link token for an authenticated session.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	token, ok := queryParam(w, r, "token")
	if !ok {
		return
	}

	if err := h.auth.Verify(r.Context(), session, token); err != nil {
		respondServiceError(w, r, "Verify login", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Logged in"})
}

// HandleMe returns the account behind the session.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	user, err := h.auth.Me(r.Context(), session)
	if err != nil {
		respondServiceError(w, r, "Get current user", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// HandleLogout drops the access token but keeps the guest identity, so the
// cart and support thread survive.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	if err := h.auth.Logout(r.Context(), session); err != nil {
		respondServiceError(w, r, "Logout", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Logged out"})
}
