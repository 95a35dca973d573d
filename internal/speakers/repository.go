package speakers

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

// Repository handles speaker application persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a speaker application repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Applications are always read with their applicant and event summaries.
const selectApplication = `SELECT a.id, a.title, a.description, a.experience, a.bio,
	COALESCE(a.github_url, ''), COALESCE(a.linkedin_url, ''), COALESCE(a.website_url, ''),
	COALESCE(a.twitter_url, ''), COALESCE(a.additional_info, ''),
	a.event_id, a.status, a.user_id, a.created_at, a.updated_at,
	u.name, u.email, e.title, e.start_time
	FROM speaker_applications a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN events e ON e.id = a.event_id`

func scanApplication(row pgx.Row) (*models.SpeakerApplication, error) {
	var (
		app        models.SpeakerApplication
		user       models.UserSummary
		eventTitle *string
		eventStart *time.Time
	)
	err := row.Scan(&app.ID, &app.Title, &app.Description, &app.Experience, &app.Bio,
		&app.GithubURL, &app.LinkedinURL, &app.WebsiteURL, &app.TwitterURL, &app.AdditionalInfo,
		&app.EventID, &app.Status, &app.UserID, &app.CreatedAt, &app.UpdatedAt,
		&user.Name, &user.Email, &eventTitle, &eventStart)
	if err != nil {
		return nil, err
	}
	user.ID = app.UserID
	app.User = &user
	if app.EventID != nil && eventTitle != nil && eventStart != nil {
		app.Event = &models.EventSummary{ID: *app.EventID, Title: *eventTitle, StartTime: *eventStart}
	}
	return &app, nil
}

// Create inserts a PENDING application and returns its ID.
func (r *Repository) Create(ctx context.Context, app *models.SpeakerApplication) error {
	const q = `INSERT INTO speaker_applications
		(title, description, experience, bio, github_url, linkedin_url, website_url, twitter_url, additional_info, event_id, status, user_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, app.Title, app.Description, app.Experience, app.Bio,
		app.GithubURL, app.LinkedinURL, app.WebsiteURL, app.TwitterURL, app.AdditionalInfo,
		app.EventID, app.Status, app.UserID).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert speaker application: %w", err)
	}
	return nil
}

// GetByID returns an application with summaries, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.SpeakerApplication, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx, selectApplication+` WHERE a.id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get speaker application: %w", err)
	}
	return app, nil
}

// UpdateStatus sets the status of an application. It reports false when no row matched.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE speaker_applications SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return false, fmt.Errorf("update speaker application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns applications newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *models.ApplicationStatus) ([]models.SpeakerApplication, error) {
	if status == nil {
		return r.list(ctx, selectApplication+` ORDER BY a.created_at DESC`)
	}
	return r.list(ctx, selectApplication+` WHERE a.status = $1 ORDER BY a.created_at DESC`, *status)
}

// ListByUser returns a user's applications newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SpeakerApplication, error) {
	return r.list(ctx, selectApplication+` WHERE a.user_id = $1 ORDER BY a.created_at DESC`, userID)
}

func (r *Repository) list(ctx context.Context, q string, args ...interface{}) ([]models.SpeakerApplication, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list speaker applications: %w", err)
	}
	defer rows.Close()
	out := []models.SpeakerApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan speaker application: %w", err)
		}
		out = append(out, *app)
	}
	return out, rows.Err()
}
