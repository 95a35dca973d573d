package calendar

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontend-leeds/backend/internal/models"
)

// Repository persists calendar export tracking.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a calendar tracking repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Track records that the user exported the event to provider. Repeats are no-ops.
func (r *Repository) Track(ctx context.Context, userID, eventID uuid.UUID, provider models.CalendarProvider) error {
	const q = `INSERT INTO calendar_tracking (user_id, event_id, provider) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id, provider) DO NOTHING`
	if _, err := r.pool.Exec(ctx, q, userID, eventID, provider); err != nil {
		return fmt.Errorf("track calendar: %w", err)
	}
	return nil
}

// Providers lists the providers the user exported the event to, oldest first.
func (r *Repository) Providers(ctx context.Context, userID, eventID uuid.UUID) ([]models.CalendarProvider, error) {
	rows, err := r.pool.Query(ctx, `SELECT provider FROM calendar_tracking
		WHERE user_id = $1 AND event_id = $2 ORDER BY created_at, provider`, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("list calendar tracking: %w", err)
	}
	defer rows.Close()
	out := []models.CalendarProvider{}
	for rows.Next() {
		var p models.CalendarProvider
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan calendar tracking: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
