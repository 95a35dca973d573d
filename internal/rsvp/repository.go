package rsvp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/pkg/database"
)

// Repository handles RSVP persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an RSVP repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert creates or overwrites the RSVP for (userID, eventID) in one statement,
// so concurrent writers for the same pair never produce a duplicate key error.
func (r *Repository) Upsert(ctx context.Context, userID, eventID uuid.UUID, status models.RSVPStatus) (*models.RSVP, error) {
	const q = `INSERT INTO rsvps (user_id, event_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id) DO UPDATE
		SET status = EXCLUDED.status, updated_at = now()
		RETURNING id, user_id, event_id, status, created_at, updated_at`
	var rv models.RSVP
	err := r.pool.QueryRow(ctx, q, userID, eventID, status).
		Scan(&rv.ID, &rv.UserID, &rv.EventID, &rv.Status, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}
	return &rv, nil
}

// Get returns the RSVP for (userID, eventID), or nil when absent.
func (r *Repository) Get(ctx context.Context, userID, eventID uuid.UUID) (*models.RSVP, error) {
	const q = `SELECT id, user_id, event_id, status, created_at, updated_at
		FROM rsvps WHERE user_id = $1 AND event_id = $2`
	var rv models.RSVP
	err := r.pool.QueryRow(ctx, q, userID, eventID).
		Scan(&rv.ID, &rv.UserID, &rv.EventID, &rv.Status, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	return &rv, nil
}

// CountGoing returns the number of GOING RSVPs for an event.
func (r *Repository) CountGoing(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM rsvps WHERE event_id = $1 AND status = $2`, eventID, models.RSVPGoing).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count going: %w", err)
	}
	return n, nil
}

// ListGoing returns up to limit GOING attendees, earliest responders first.
func (r *Repository) ListGoing(ctx context.Context, eventID uuid.UUID, limit int) ([]Attendee, error) {
	const q = `SELECT u.id, u.name, r.created_at
		FROM rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 AND r.status = $2
		ORDER BY r.created_at
		LIMIT $3`
	rows, err := r.pool.Query(ctx, q, eventID, models.RSVPGoing, limit)
	if err != nil {
		return nil, fmt.Errorf("list going: %w", err)
	}
	defer rows.Close()
	list := []Attendee{}
	for rows.Next() {
		var a Attendee
		if err := rows.Scan(&a.UserID, &a.Name, &a.RespondedAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
