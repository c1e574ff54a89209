package domain

import "time"

// Session is the durable per-browser state this service owns: an opaque
// session id handed to the client, the upstream bearer token when the user
// has logged in, and a generated guest id used to correlate anonymous
// support threads. Last writer wins; all writes for one session come from
// the same client.
type Session struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"access_token,omitempty"`
	GuestID     string    `json:"guest_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Authenticated reports whether the session carries an upstream bearer token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}
