package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donateraid/storefront-api/internal/domain"
)

// SessionRepository implements repository.Session on PostgreSQL.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get retrieves a session by id.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRow(ctx,
		`SELECT session_id, access_token, guest_id, created_at, updated_at
		 FROM sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&s.ID, &s.AccessToken, &s.GuestID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// Upsert creates or replaces a session record.
func (r *SessionRepository) Upsert(ctx context.Context, session *domain.Session) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (session_id, access_token, guest_id, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 ON CONFLICT (session_id)
		 DO UPDATE SET access_token = EXCLUDED.access_token,
		               guest_id = EXCLUDED.guest_id,
		               updated_at = now()`,
		session.ID, session.AccessToken, session.GuestID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM sessions WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
