package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/donateraid/storefront-api/internal/domain"
)

// supportMessageWire is the chat message shape the platform returns.
type supportMessageWire struct {
	ID         int       `json:"id"`
	Message    string    `json:"message"`
	IsFromUser bool      `json:"is_from_user"`
	CreatedAt  time.Time `json:"created_at"`
}

// SupportHistory fetches the session's chat thread. Guests are correlated by
// guest id, authenticated users by token; both may be set.
func (c *Client) SupportHistory(ctx context.Context, token, guestID string) ([]domain.SupportMessage, error) {
	path := "/support/my"
	if guestID != "" {
		path += "?guest_id=" + url.QueryEscape(guestID)
	}
	var wire []supportMessageWire
	if err := c.do(ctx, http.MethodGet, path, token, nil, &wire); err != nil {
		return nil, fmt.Errorf("support history: %w", err)
	}

	messages := make([]domain.SupportMessage, len(wire))
	for i, m := range wire {
		messages[i] = domain.SupportMessage{
			ID:        m.ID,
			Message:   m.Message,
			IsAdmin:   !m.IsFromUser,
			CreatedAt: m.CreatedAt,
		}
	}
	return messages, nil
}

// SendSupportMessage posts one chat message.
func (c *Client) SendSupportMessage(ctx context.Context, token, guestID, message string) error {
	path := "/support/send"
	if guestID != "" {
		path += "?guest_id=" + url.QueryEscape(guestID)
	}
	payload := struct {
		Message string `json:"message"`
	}{Message: message}

	if err := c.do(ctx, http.MethodPost, path, token, payload, nil); err != nil {
		return fmt.Errorf("send support message: %w", err)
	}
	return nil
}

// UnreadNotificationCount fetches the badge counter for the session.
func (c *Client) UnreadNotificationCount(ctx context.Context, token string) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications/count", token, nil, &resp); err != nil {
		return 0, fmt.Errorf("unread notification count: %w", err)
	}
	return resp.Count, nil
}
