package rsvp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
)

// Attendee is a user who answered GOING.
type Attendee struct {
	UserID      uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	RespondedAt time.Time `json:"-"`
}

// Store is the RSVP persistence used by Service.
type Store interface {
	Upsert(ctx context.Context, userID, eventID uuid.UUID, status models.RSVPStatus) (*models.RSVP, error)
	Get(ctx context.Context, userID, eventID uuid.UUID) (*models.RSVP, error)
	CountGoing(ctx context.Context, eventID uuid.UUID) (int, error)
	ListGoing(ctx context.Context, eventID uuid.UUID, limit int) ([]Attendee, error)
}

// EventLookup finds events by ID, returning nil when absent.
type EventLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// SetInput is the body for POST /events/rsvp.
type SetInput struct {
	EventID string            `json:"eventId" validate:"required"`
	Status  models.RSVPStatus `json:"status" validate:"required,oneof=GOING MAYBE NOT_GOING"`
}

// Attendance is the public attendance view of an event.
type Attendance struct {
	EventID      uuid.UUID    `json:"eventId"`
	Going        int          `json:"going"`
	Availability Availability `json:"availability"`
}

// Service implements the attendance operations.
type Service struct {
	store  Store
	events EventLookup
	logger *zap.Logger
}

// NewService creates an RSVP service.
func NewService(store Store, events EventLookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, events: events, logger: logger}
}

// SetRSVP records the caller's status for a published event. Capacity is not enforced.
func (s *Service) SetRSVP(ctx context.Context, a policy.AuthContext, in SetInput) (*models.RSVP, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	eventID, err := uuid.Parse(in.EventID)
	if err != nil {
		return nil, apperr.NotFound("Event not found")
	}
	if _, err := s.publishedEvent(ctx, eventID); err != nil {
		return nil, err
	}
	rv, err := s.store.Upsert(ctx, a.UserID, eventID, in.Status)
	if err != nil {
		return nil, apperr.Internal("save rsvp", err)
	}
	s.logger.Debug("rsvp saved",
		zap.String("event_id", eventID.String()),
		zap.String("user_id", a.UserID.String()),
		zap.String("status", string(in.Status)),
	)
	return rv, nil
}

// CountGoing returns the number of GOING RSVPs for an event.
func (s *Service) CountGoing(ctx context.Context, eventID uuid.UUID) (int, error) {
	n, err := s.store.CountGoing(ctx, eventID)
	if err != nil {
		return 0, apperr.Internal("count going", err)
	}
	return n, nil
}

// UserStatus returns the caller's status for an event, or nil when none is recorded.
func (s *Service) UserStatus(ctx context.Context, a policy.AuthContext, eventID uuid.UUID) (*models.RSVPStatus, error) {
	if !policy.IsAuthenticated(a) {
		return nil, nil
	}
	rv, err := s.store.Get(ctx, a.UserID, eventID)
	if err != nil {
		return nil, apperr.Internal("load rsvp", err)
	}
	if rv == nil {
		return nil, nil
	}
	return &rv.Status, nil
}

// Attendance returns the going count and capacity banner of a published event.
func (s *Service) Attendance(ctx context.Context, eventID uuid.UUID) (*Attendance, error) {
	ev, err := s.publishedEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	n, err := s.CountGoing(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &Attendance{EventID: eventID, Going: n, Availability: ComputeAvailability(ev.Capacity, n)}, nil
}

// Attendees returns up to limit GOING attendees.
func (s *Service) Attendees(ctx context.Context, eventID uuid.UUID, limit int) ([]Attendee, error) {
	list, err := s.store.ListGoing(ctx, eventID, limit)
	if err != nil {
		return nil, apperr.Internal("list attendees", err)
	}
	return list, nil
}

func (s *Service) publishedEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load event", err)
	}
	if ev == nil || !ev.Published {
		return nil, apperr.NotFound("Event not found")
	}
	return ev, nil
}
