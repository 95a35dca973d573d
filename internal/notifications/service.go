package notifications

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Store is the notification persistence.
type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service exposes a user's notification log.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a notification read service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List returns the caller's notifications, newest first.
func (s *Service) List(ctx context.Context, a policy.AuthContext, unreadOnly bool, limit int) ([]models.Notification, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	list, err := s.store.List(ctx, a.UserID, unreadOnly, limit)
	if err != nil {
		return nil, apperr.Internal("list notifications", err)
	}
	return list, nil
}

func (s *Service) UnreadCount(ctx context.Context, a policy.AuthContext) (int, error) {
	if !policy.IsAuthenticated(a) {
		return 0, apperr.Unauthorized("Unauthorized")
	}
	n, err := s.store.UnreadCount(ctx, a.UserID)
	if err != nil {
		return 0, apperr.Internal("count notifications", err)
	}
	return n, nil
}

// MarkRead marks one of the caller's notifications read.
func (s *Service) MarkRead(ctx context.Context, a policy.AuthContext, id uuid.UUID) error {
	if !policy.IsAuthenticated(a) {
		return apperr.Unauthorized("Unauthorized")
	}
	ok, err := s.store.MarkRead(ctx, a.UserID, id)
	if err != nil {
		return apperr.Internal("mark notification read", err)
	}
	if !ok {
		return apperr.NotFound("Notification not found")
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, a policy.AuthContext) (int64, error) {
	if !policy.IsAuthenticated(a) {
		return 0, apperr.Unauthorized("Unauthorized")
	}
	n, err := s.store.MarkAllRead(ctx, a.UserID)
	if err != nil {
		return 0, apperr.Internal("mark notifications read", err)
	}
	return n, nil
}
