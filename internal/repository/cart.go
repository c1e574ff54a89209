package repository

import (
	"context"

	"github.com/donateraid/storefront-api/internal/domain"
)

// Cart defines the interface for durable cart persistence. The cart of one
// session is stored as a single serialized blob; writes are last-writer-wins,
// which is safe because every session has exactly one logical writer.
type Cart interface {
	// Load returns the stored cart for the session.
	// Returns domain.ErrCartNotFound when no cart was ever saved, and
	// domain.ErrCartCorrupt when the stored blob could not be decoded; in the
	// corrupt case the implementation discards the blob so the next Load
	// starts clean.
	Load(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists the cart for the session, replacing any prior blob.
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error

	// Delete removes the stored cart. Deleting a missing cart is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// Session defines the interface for session persistence.
type Session interface {
	// Get returns the session, or domain.ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Upsert creates or replaces the session record.
	Upsert(ctx context.Context, session *domain.Session) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
