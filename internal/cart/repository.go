package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"optique-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Repository persists session carts so a restart or a page reload does not
// lose selections.
type Repository interface {
	// EnsureSchema creates the cart_sessions table if it does not exist.
	EnsureSchema(ctx context.Context) error

	// Save upserts a cart keyed by its session id.
	Save(ctx context.Context, cart model.Cart) error

	// Load retrieves a cart by session id. Returns nil when none is stored.
	Load(ctx context.Context, sessionID string) (*model.Cart, error)

	// Delete removes a stored cart.
	Delete(ctx context.Context, sessionID string) error
}

// pgRepository implements Repository using PostgreSQL. Items are stored as
// a JSONB document; the cart is always written whole.
type pgRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRepository creates a new PostgreSQL-backed cart repository.
func NewRepository(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &pgRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// EnsureSchema creates the cart_sessions table if it does not exist.
func (r *pgRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS cart_sessions (
			session_id TEXT PRIMARY KEY,
			items      JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure cart schema: %w", err)
	}
	return nil
}

// Save upserts a cart keyed by its session id.
func (r *pgRepository) Save(ctx context.Context, cart model.Cart) error {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	query := `
		INSERT INTO cart_sessions (session_id, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id)
		DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
	`

	_, err = r.pool.Exec(ctx, query, cart.SessionID, items, time.Now())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("session_id", cart.SessionID).
			Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	r.logger.Debug().
		Str("session_id", cart.SessionID).
		Int("item_count", len(cart.Items)).
		Msg("cart saved")

	return nil
}

// Load retrieves a cart by session id. Returns nil when none is stored.
func (r *pgRepository) Load(ctx context.Context, sessionID string) (*model.Cart, error) {
	query := `
		SELECT items, updated_at
		FROM cart_sessions
		WHERE session_id = $1
	`

	var items []byte
	var updatedAt time.Time
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&items, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart := &model.Cart{
		SessionID: sessionID,
		UpdatedAt: updatedAt,
	}
	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return cart, nil
}

// Delete removes a stored cart.
func (r *pgRepository) Delete(ctx context.Context, sessionID string) error {
	query := `DELETE FROM cart_sessions WHERE session_id = $1`

	if _, err := r.pool.Exec(ctx, query, sessionID); err != nil {
		r.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
