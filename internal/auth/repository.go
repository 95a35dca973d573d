package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/pkg/database"
)

// ErrEmailTaken is returned when an insert or update hits the unique email index.
var ErrEmailTaken = errors.New("email already taken")

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a user repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail returns a user by email, or nil when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, name, email, passwordHash string, role models.Role) (*models.User, error) {
	const q = `INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, name, email, passwordHash, role))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// ListWithCounts returns all users, newest first, with their event and RSVP counts.
func (r *Repository) ListWithCounts(ctx context.Context) ([]models.UserWithCounts, error) {
	const q = `SELECT u.id, u.name, u.email, u.role, u.created_at, u.updated_at,
		(SELECT count(*) FROM events e WHERE e.creator_id = u.id),
		(SELECT count(*) FROM rsvps r WHERE r.user_id = u.id)
		FROM users u
		ORDER BY u.created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := []models.UserWithCounts{}
	for rows.Next() {
		var u models.UserWithCounts
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt, &u.EventCount, &u.RSVPCount); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// ListAdmins returns every user holding the ADMIN role.
func (r *Repository) ListAdmins(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at`, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()
	var list []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// UpdateParams holds optional profile changes. Nil fields are left untouched.
type UpdateParams struct {
	Name  *string
	Email *string
	Role  *models.Role
}

// Update applies params to a user and returns the updated row, or nil when absent.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.User, error) {
	const q = `UPDATE users SET
		name = COALESCE($2, name),
		email = COALESCE($3, email),
		role = COALESCE($4, role),
		updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	var role *string
	if p.Role != nil {
		s := string(*p.Role)
		role = &s
	}
	u, err := scanUser(r.pool.QueryRow(ctx, q, id, p.Name, p.Email, role))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes a user. RSVPs, notifications, applications and calendar
// tracking cascade; events the user created stay.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
