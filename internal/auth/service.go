// Package auth manages storefront sessions and the magic-link login flow.
// Authentication itself is the platform's job; this service only stores the
// resulting token against the session and hands out guest identities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/logger"
	"github.com/donateraid/storefront-api/internal/repository"
)

// API is the slice of the platform client the login flow needs.
type API interface {
	RequestLoginLink(ctx context.Context, email string) error
	VerifyLoginToken(ctx context.Context, token string) (string, error)
	Me(ctx context.Context, token string) (*domain.User, error)
}

type Service struct {
	sessions repository.Session
	api      API
}

func NewService(sessions repository.Session, api API) *Service {
	return &Service{sessions: sessions, api: api}
}

// EnsureSession loads the session, creating it with a fresh guest id when it
// does not exist yet. Every visitor has a session from their first request.
func (s *Service) EnsureSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session = &domain.Session{
		ID:        sessionID,
		GuestID:   uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	logger.FromContext(ctx).Debug("session created", "session_id", sessionID)
	return session, nil
}

// RequestLink asks the platform to email a magic login link.
func (s *Service) RequestLink(ctx context.Context, email string) error {
	return s.api.RequestLoginLink(ctx, email)
}

// Verify exchanges a magic-link token for an access token and binds it to the
// session.
func (s *Service) Verify(ctx context.Context, session *domain.Session, token string) error {
	accessToken, err := s.api.VerifyLoginToken(ctx, token)
	if err != nil {
		return err
	}

	session.AccessToken = accessToken
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	logger.FromContext(ctx).Info("session authenticated", "session_id", session.ID)
	return nil
}

// Me returns the account behind the session.
func (s *Service) Me(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if !session.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return s.api.Me(ctx, session.AccessToken)
}

// Logout drops the access token but keeps the session and its guest id, so
// the cart and support thread survive.
func (s *Service) Logout(ctx context.Context, session *domain.Session) error {
	session.AccessToken = ""
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return fmt.Errorf("clear access token: %w", err)
	}
	return nil
}
