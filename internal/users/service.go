// Package users implements the admin user-management screens.
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/auth"
	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
)

// Store is the user persistence used by Service. auth.Repository satisfies it.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListWithCounts(ctx context.Context) ([]models.UserWithCounts, error)
	Update(ctx context.Context, id uuid.UUID, p auth.UpdateParams) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// UpdateInput is the body for POST|PATCH /admin/users/:id. Absent fields are kept.
type UpdateInput struct {
	Name  *string      `json:"name" validate:"omitempty,min=2"`
	Email *string      `json:"email" validate:"omitempty,email"`
	Role  *models.Role `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

func guard(a policy.AuthContext) error {
	if !policy.IsAuthenticated(a) {
		return apperr.Unauthorized("Unauthorized")
	}
	if !policy.CanManageUsers(a) {
		return apperr.Forbidden("Forbidden")
	}
	return nil
}

// List returns every user, newest first, with event and RSVP counts.
func (s *Service) List(ctx context.Context, a policy.AuthContext) ([]models.UserWithCounts, error) {
	if err := guard(a); err != nil {
		return nil, err
	}
	list, err := s.store.ListWithCounts(ctx)
	if err != nil {
		return nil, apperr.Internal("list users", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, a policy.AuthContext, id uuid.UUID) (*models.User, error) {
	if err := guard(a); err != nil {
		return nil, err
	}
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

// Update changes a user's name, email or role.
func (s *Service) Update(ctx context.Context, a policy.AuthContext, id uuid.UUID, in UpdateInput) (*models.User, error) {
	if err := guard(a); err != nil {
		return nil, err
	}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		in.Name = &v
	}
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &v
	}
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	u, err := s.store.Update(ctx, id, auth.UpdateParams{Name: in.Name, Email: in.Email, Role: in.Role})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return nil, apperr.Conflict("Email is already taken")
		}
		return nil, apperr.Internal("update user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	s.logger.Info("user updated", zap.String("user_id", id.String()), zap.String("admin_id", a.UserID.String()))
	return u, nil
}

// Delete removes a user. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, a policy.AuthContext, id uuid.UUID) error {
	if err := guard(a); err != nil {
		return err
	}
	if !policy.CanDeleteUser(a, id) {
		return apperr.Validation("You cannot delete your own account", nil)
	}
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return apperr.Internal("delete user", err)
	}
	if !ok {
		return apperr.NotFound("User not found")
	}
	s.logger.Info("user deleted", zap.String("user_id", id.String()), zap.String("admin_id", a.UserID.String()))
	return nil
}
