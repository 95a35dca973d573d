package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
	"github.com/frontend-leeds/backend/pkg/utils"
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, name, email, passwordHash string, role models.Role) (*models.User, error)
}

// RegisterInput is the body for POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name" validate:"min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// LoginInput is the body for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by a successful login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service implements registration, login and identity lookup.
type Service struct {
	users  UserStore
	jwt    *JWTService
	logger *zap.Logger
}

// NewService creates an auth service.
func NewService(users UserStore, jwt *JWTService, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, jwt: jwt, logger: logger}
}

// Register creates a USER account with a hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal("lookup user", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User with this email already exists")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	u, err := s.users.Create(ctx, in.Name, in.Email, hash, models.RoleUser)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, apperr.Internal("create user", err)
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, apperr.Internal("lookup user", err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	token, err := s.jwt.Generate(u)
	if err != nil {
		return nil, apperr.Internal("sign token", err)
	}
	return &Session{Token: token, User: u}, nil
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, a policy.AuthContext) (*models.User, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	u, err := s.users.GetByID(ctx, a.UserID)
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	if u == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	return u, nil
}
