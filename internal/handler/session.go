package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/donateraid/storefront-api/internal/domain"
)

// SessionCookieName carries the opaque session id across requests.
const SessionCookieName = "storefront_session"

type sessionCtxKey struct{}

// SessionMiddleware guarantees every request downstream has a session: the
// cookie is read or minted, and the session row (with its guest id) loaded or
// created.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			sessionID = cookie.Value
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int((180 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		session, err := h.auth.EnsureSession(r.Context(), sessionID)
		if err != nil {
			respondServiceError(w, r, "Session setup", err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session placed in the context by SessionMiddleware.
func sessionFrom(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionCtxKey{}).(*domain.Session)
	return session
}
