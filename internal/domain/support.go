package domain

import "time"

// SupportMessage is one entry of a support-chat thread. Threads belong either
// to an authenticated user or to an anonymous guest id.
type SupportMessage struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
