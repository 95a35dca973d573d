package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/pkg/database"
)

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventColumns = `e.id, e.title, e.description, e.content, e.location, e.start_time, e.end_time,
	e.image_url, e.capacity, e.published, e.creator_id, e.created_at, e.updated_at`

const goingCount = `(SELECT count(*) FROM rsvps r WHERE r.event_id = e.id AND r.status = 'GOING')`

func scanEvent(row pgx.Row, extra ...interface{}) (*models.Event, error) {
	var e models.Event
	dest := []interface{}{&e.ID, &e.Title, &e.Description, &e.Content, &e.Location, &e.StartTime, &e.EndTime,
		&e.ImageURL, &e.Capacity, &e.Published, &e.CreatorID, &e.CreatedAt, &e.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an event and fills its generated fields.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (title, description, content, location, start_time, end_time, image_url, capacity, published, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, e.Title, e.Description, e.Content, e.Location, e.StartTime, e.EndTime,
		e.ImageURL, e.Capacity, e.Published, e.CreatorID).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns an event, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Creator returns the summary of an event's creator, or nil if the user was deleted.
func (r *Repository) Creator(ctx context.Context, creatorID uuid.UUID) (*models.UserSummary, error) {
	var u models.UserSummary
	err := r.pool.QueryRow(ctx, `SELECT id, name, email FROM users WHERE id = $1`, creatorID).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get creator: %w", err)
	}
	return &u, nil
}

// Update overwrites the editable fields of an event.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events SET title = $2, description = $3, content = $4, location = $5,
		start_time = $6, end_time = $7, image_url = $8, capacity = $9, published = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, e.ID, e.Title, e.Description, e.Content, e.Location, e.StartTime, e.EndTime,
		e.ImageURL, e.Capacity, e.Published).Scan(&e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event together with its RSVPs, notifications and calendar tracking rows.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, q := range []string{
			`DELETE FROM rsvps WHERE event_id = $1`,
			`DELETE FROM notifications WHERE event_id = $1`,
			`DELETE FROM calendar_tracking WHERE event_id = $1`,
			`DELETE FROM events WHERE id = $1`,
		} {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				return fmt.Errorf("delete event: %w", err)
			}
		}
		return nil
	})
}

// ListPublished returns published events in scope with their GOING counts.
func (r *Repository) ListPublished(ctx context.Context, scope Scope, now time.Time, limit int) ([]models.EventWithCount, error) {
	q := `SELECT ` + eventColumns + `, ` + goingCount + ` FROM events e WHERE e.published`
	args := []interface{}{}
	switch scope {
	case ScopeUpcoming:
		args = append(args, now)
		q += ` AND e.start_time >= $1 ORDER BY e.start_time ASC`
	case ScopePast:
		args = append(args, now)
		q += ` AND e.start_time < $1 ORDER BY e.start_time DESC`
	default:
		q += ` ORDER BY e.start_time DESC`
	}
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	return r.listWithCounts(ctx, q, args...)
}

// ListByCreator returns every event created by creatorID, published or not.
func (r *Repository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.EventWithCount, error) {
	q := `SELECT ` + eventColumns + `, ` + goingCount + ` FROM events e WHERE e.creator_id = $1 ORDER BY e.start_time DESC`
	return r.listWithCounts(ctx, q, creatorID)
}

func (r *Repository) listWithCounts(ctx context.Context, q string, args ...interface{}) ([]models.EventWithCount, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	list := []models.EventWithCount{}
	for rows.Next() {
		var n int
		e, err := scanEvent(rows, &n)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, models.EventWithCount{Event: *e, GoingCount: n})
	}
	return list, rows.Err()
}
