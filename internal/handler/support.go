package handler

import (
	"net/http"

	"github.com/donateraid/storefront-api/internal/domain"
)

// SendMessageRequest posts one support chat message.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// HandleSupportHistory returns the session's chat thread. Browsers poll this
// endpoint; the background watcher keeps it cheap.
func (h *Handler) HandleSupportHistory(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	messages, err := h.supportChat.History(r.Context(), session)
	if err != nil {
		respondServiceError(w, r, "Support history", err)
		return
	}
	if messages == nil {
		messages = []domain.SupportMessage{}
	}
	respondJSON(w, http.StatusOK, messages)
}

// HandleSendSupportMessage posts a message to the session's thread.
func (h *Handler) HandleSendSupportMessage(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req SendMessageRequest
	if err := h.decodeAndValidate(w, r, &req, "Send support message"); err != nil {
		return
	}

	if err := h.supportChat.Send(r.Context(), session, req.Message); err != nil {
		respondServiceError(w, r, "Send support message", err)
		return
	}
	respondJSON(w, http.StatusCreated, SuccessResponse{Message: "Message sent"})
}

// HandleNotificationCount returns the unread badge counter.
func (h *Handler) HandleNotificationCount(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	count, err := h.notifications.UnreadCount(r.Context(), session)
	if err != nil {
		respondServiceError(w, r, "Notification count", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}
