package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/internal/rsvp"
	"github.com/frontend-leeds/backend/pkg/apperr"
	"github.com/frontend-leeds/backend/pkg/utils"
)

// Scope selects which published events a listing returns.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeUpcoming
	ScopePast
)

const (
	attendeePreview = 10
	maxListLimit    = 100
)

// Store is the event persistence used by Service.
type Store interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Creator(ctx context.Context, creatorID uuid.UUID) (*models.UserSummary, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListPublished(ctx context.Context, scope Scope, now time.Time, limit int) ([]models.EventWithCount, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.EventWithCount, error)
}

// AttendanceReader exposes the attendance figures shown on event pages.
type AttendanceReader interface {
	CountGoing(ctx context.Context, eventID uuid.UUID) (int, error)
	UserStatus(ctx context.Context, a policy.AuthContext, eventID uuid.UUID) (*models.RSVPStatus, error)
	Attendees(ctx context.Context, eventID uuid.UUID, limit int) ([]rsvp.Attendee, error)
}

// PublicAttendee is an attendee with a masked name.
type PublicAttendee struct {
	Name string `json:"name"`
}

// Detail is the full event page.
type Detail struct {
	models.Event
	Creator      *models.UserSummary `json:"creator,omitempty"`
	GoingCount   int                 `json:"goingCount"`
	Availability rsvp.Availability   `json:"availability"`
	UserStatus   *models.RSVPStatus  `json:"userStatus"`
	Attendees    []PublicAttendee    `json:"attendees"`
	IsPast       bool                `json:"isPast"`
}

// ListQuery filters the public event listing.
type ListQuery struct {
	Scope Scope
	Limit int
}

// Service implements the event store operations.
type Service struct {
	store      Store
	attendance AttendanceReader
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates an event service.
func NewService(store Store, attendance AttendanceReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, attendance: attendance, logger: logger, now: time.Now}
}

// Create adds an event owned by the calling admin.
func (s *Service) Create(ctx context.Context, a policy.AuthContext, in Input) (*models.Event, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if !policy.CanCreateEvent(a) {
		return nil, apperr.Forbidden("Only admins can create events")
	}
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	e := &models.Event{CreatorID: a.UserID}
	p.apply(e)
	if err := s.store.Create(ctx, e); err != nil {
		return nil, apperr.Internal("create event", err)
	}
	s.logger.Info("event created", zap.String("event_id", e.ID.String()), zap.String("creator_id", a.UserID.String()))
	return e, nil
}

// Update overwrites an event. Only its creator, while an admin, may do so.
func (s *Service) Update(ctx context.Context, a policy.AuthContext, id uuid.UUID, in Input) (*models.Event, error) {
	e, err := s.editable(ctx, a, id, "You can only update your own events")
	if err != nil {
		return nil, err
	}
	p, err := in.validate()
	if err != nil {
		return nil, err
	}
	p.apply(e)
	if err := s.store.Update(ctx, e); err != nil {
		return nil, apperr.Internal("update event", err)
	}
	return e, nil
}

// Delete removes an event and everything referencing it.
func (s *Service) Delete(ctx context.Context, a policy.AuthContext, id uuid.UUID) error {
	if _, err := s.editable(ctx, a, id, "You can only delete your own events"); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return apperr.Internal("delete event", err)
	}
	s.logger.Info("event deleted", zap.String("event_id", id.String()), zap.String("user_id", a.UserID.String()))
	return nil
}

func (s *Service) editable(ctx context.Context, a policy.AuthContext, id uuid.UUID, denied string) (*models.Event, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if !policy.IsAdmin(a) {
		return nil, apperr.Forbidden(denied)
	}
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load event", err)
	}
	if e == nil {
		return nil, apperr.NotFound("Event not found")
	}
	if !policy.CanEditEvent(a, e) {
		return nil, apperr.Forbidden(denied)
	}
	return e, nil
}

// Get returns the event page. Drafts are visible to their creator only.
func (s *Service) Get(ctx context.Context, a policy.AuthContext, id uuid.UUID) (*Detail, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load event", err)
	}
	if e == nil || !policy.CanViewEvent(a, e) {
		return nil, apperr.NotFound("Event not found")
	}
	d := &Detail{Event: *e, IsPast: e.IsPast(s.now())}
	if d.Creator, err = s.store.Creator(ctx, e.CreatorID); err != nil {
		return nil, apperr.Internal("load creator", err)
	}
	if d.GoingCount, err = s.attendance.CountGoing(ctx, id); err != nil {
		return nil, err
	}
	d.Availability = rsvp.ComputeAvailability(e.Capacity, d.GoingCount)
	if d.UserStatus, err = s.attendance.UserStatus(ctx, a, id); err != nil {
		return nil, err
	}
	attendees, err := s.attendance.Attendees(ctx, id, attendeePreview)
	if err != nil {
		return nil, err
	}
	d.Attendees = make([]PublicAttendee, 0, len(attendees))
	for _, at := range attendees {
		name := at.Name
		if name == "" {
			name = "Anonymous"
		}
		d.Attendees = append(d.Attendees, PublicAttendee{Name: utils.MaskName(name)})
	}
	return d, nil
}

// List returns published events for the public listing.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.EventWithCount, error) {
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	list, err := s.store.ListPublished(ctx, q.Scope, s.now(), q.Limit)
	if err != nil {
		return nil, apperr.Internal("list events", err)
	}
	return list, nil
}

// ListMine returns the admin dashboard listing of the caller's events.
func (s *Service) ListMine(ctx context.Context, a policy.AuthContext) ([]models.EventWithCount, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if !policy.IsAdmin(a) {
		return nil, apperr.Forbidden("Forbidden")
	}
	list, err := s.store.ListByCreator(ctx, a.UserID)
	if err != nil {
		return nil, apperr.Internal("list events", err)
	}
	return list, nil
}

func (p *parsed) apply(e *models.Event) {
	e.Title = p.Title
	e.Description = p.Description
	e.Content = p.Content
	e.Location = p.Location
	e.StartTime = p.start
	e.EndTime = p.end
	e.ImageURL = nil
	if p.ImageURL != "" {
		u := p.ImageURL
		e.ImageURL = &u
	}
	e.Capacity = p.Capacity.Ptr()
	e.Published = p.Published
}
