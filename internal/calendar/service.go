package calendar

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
)

// TrackingStore persists calendar export tracking.
type TrackingStore interface {
	Track(ctx context.Context, userID, eventID uuid.UUID, provider models.CalendarProvider) error
	Providers(ctx context.Context, userID, eventID uuid.UUID) ([]models.CalendarProvider, error)
}

// EventLookup finds events by ID, returning nil when absent.
type EventLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// StatusReader returns the caller's RSVP status for an event.
type StatusReader interface {
	UserStatus(ctx context.Context, a policy.AuthContext, eventID uuid.UUID) (*models.RSVPStatus, error)
}

// TrackInput is the body for POST /events/calendar-tracking.
type TrackInput struct {
	EventID      string                  `json:"eventId" validate:"required,uuid"`
	CalendarType models.CalendarProvider `json:"calendarType" validate:"required,oneof=google outlook yahoo apple"`
}

// Options configures links built for stored events.
type Options struct {
	// PublicBaseURL prefixes event page URLs, e.g. https://frontendleeds.com.
	PublicBaseURL string
	// UIDDomain is used in ICS UIDs.
	UIDDomain string
}

// Service builds exports for stored events and records tracking.
type Service struct {
	events   EventLookup
	status   StatusReader
	tracking TrackingStore
	opts     Options
	logger   *zap.Logger
}

// NewService creates a calendar service.
func NewService(events EventLookup, status StatusReader, tracking TrackingStore, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{events: events, status: status, tracking: tracking, opts: opts, logger: logger}
}

// Snapshot converts a stored event into a generator input.
func (s *Service) Snapshot(e *models.Event, status *models.RSVPStatus) Event {
	ce := Event{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Start:       e.StartTime,
		End:         e.EndTime,
		Stamp:       e.UpdatedAt,
		Domain:      s.opts.UIDDomain,
	}
	if s.opts.PublicBaseURL != "" {
		ce.URL = strings.TrimRight(s.opts.PublicBaseURL, "/") + "/events/" + e.ID.String()
	}
	if status != nil {
		ce.Status = *status
	}
	return ce
}

func (s *Service) load(ctx context.Context, a policy.AuthContext, eventID uuid.UUID) (Event, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return Event{}, apperr.Internal("load event", err)
	}
	if e == nil || !policy.CanViewEvent(a, e) {
		return Event{}, apperr.NotFound("Event not found")
	}
	status, err := s.status.UserStatus(ctx, a, eventID)
	if err != nil {
		return Event{}, err
	}
	return s.Snapshot(e, status), nil
}

// Links returns every export of an event, with the caller's RSVP status when signed in.
func (s *Service) Links(ctx context.Context, a policy.AuthContext, eventID uuid.UUID) (*Links, error) {
	ce, err := s.load(ctx, a, eventID)
	if err != nil {
		return nil, err
	}
	links := All(ce)
	return &links, nil
}

// ICS returns the ICS payload and its download filename.
func (s *Service) ICS(ctx context.Context, a policy.AuthContext, eventID uuid.UUID) (string, string, error) {
	ce, err := s.load(ctx, a, eventID)
	if err != nil {
		return "", "", err
	}
	return ICalContent(ce), Filename(ce.Title), nil
}

// Track records that the caller exported an event to a provider.
func (s *Service) Track(ctx context.Context, a policy.AuthContext, in TrackInput) error {
	if !policy.IsAuthenticated(a) {
		return apperr.Unauthorized("Unauthorized")
	}
	in.CalendarType = models.CalendarProvider(strings.ToLower(strings.TrimSpace(string(in.CalendarType))))
	if err := apperr.ValidateStruct(in); err != nil {
		return err
	}
	eventID, _ := uuid.Parse(in.EventID)
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return apperr.Internal("load event", err)
	}
	if e == nil || !policy.CanViewEvent(a, e) {
		return apperr.NotFound("Event not found")
	}
	if err := s.tracking.Track(ctx, a.UserID, eventID, in.CalendarType); err != nil {
		return apperr.Internal("track calendar", err)
	}
	s.logger.Debug("calendar export tracked",
		zap.String("event_id", eventID.String()),
		zap.String("user_id", a.UserID.String()),
		zap.String("provider", string(in.CalendarType)),
	)
	return nil
}

// Tracked lists the providers the caller exported an event to.
func (s *Service) Tracked(ctx context.Context, a policy.AuthContext, eventID string) ([]models.CalendarProvider, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if eventID == "" {
		return nil, apperr.Validation("Event ID is required", map[string]string{"eventId": "eventId is required"})
	}
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperr.Validation("Invalid event ID", map[string]string{"eventId": "eventId must be a valid UUID"})
	}
	list, err := s.tracking.Providers(ctx, a.UserID, id)
	if err != nil {
		return nil, apperr.Internal("list calendar tracking", err)
	}
	return list, nil
}
