package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/donateraid/storefront-api/internal/domain"
	"github.com/donateraid/storefront-api/internal/logger"
)

// CartRepository implements repository.Cart on PostgreSQL. The cart is one
// jsonb payload per session id.
type CartRepository struct {
	db *pgxpool.Pool
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

// Load retrieves the cart blob for a session and decodes it.
func (r *CartRepository) Load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT payload FROM cart_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		// Recoverable without user action: drop the bad blob and start over.
		logger.FromContext(ctx).Warn("Discarding corrupt cart payload",
			"session_id", sessionID, "error", err)
		if _, delErr := r.db.Exec(ctx,
			`DELETE FROM cart_sessions WHERE session_id = $1`, sessionID); delErr != nil {
			logger.FromContext(ctx).Error("Failed to discard corrupt cart",
				"session_id", sessionID, "error", delErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCartCorrupt, err)
	}

	return &cart, nil
}

// Save writes the serialized cart for a session, replacing any prior payload.
func (r *CartRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO cart_sessions (session_id, payload, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (session_id)
		 DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		sessionID, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the stored cart for a session.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM cart_sessions WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
