package speakers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
)

// Store is the speaker application persistence used by Service.
type Store interface {
	Create(ctx context.Context, app *models.SpeakerApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SpeakerApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (bool, error)
	List(ctx context.Context, status *models.ApplicationStatus) ([]models.SpeakerApplication, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SpeakerApplication, error)
}

// EventLookup finds events by ID, returning nil when absent.
type EventLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// Hook observes committed application changes.
type Hook interface {
	OnApplicationSubmitted(ctx context.Context, app *models.SpeakerApplication) error
	OnApplicationStatusChanged(ctx context.Context, app *models.SpeakerApplication) error
}

// SubmitInput is the body for POST /speaker-applications.
type SubmitInput struct {
	Title          string `json:"title" validate:"min=3"`
	Description    string `json:"description" validate:"min=10"`
	Experience     string `json:"experience" validate:"min=10"`
	Bio            string `json:"bio" validate:"min=10"`
	GithubURL      string `json:"githubUrl" validate:"omitempty,url"`
	LinkedinURL    string `json:"linkedinUrl" validate:"omitempty,url"`
	WebsiteURL     string `json:"websiteUrl" validate:"omitempty,url"`
	TwitterURL     string `json:"twitterUrl" validate:"omitempty,url"`
	AdditionalInfo string `json:"additionalInfo"`
	EventID        string `json:"eventId"`
}

// StatusInput is the body for PATCH /speaker-applications/:id.
type StatusInput struct {
	Status models.ApplicationStatus `json:"status"`
}

// Service implements the speaker application workflow.
type Service struct {
	store  Store
	events EventLookup
	hooks  []Hook
	logger *zap.Logger
}

// NewService creates a speaker application service.
func NewService(store Store, events EventLookup, logger *zap.Logger, hooks ...Hook) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, events: events, hooks: hooks, logger: logger}
}

// Submit creates a PENDING application owned by the caller.
func (s *Service) Submit(ctx context.Context, a policy.AuthContext, in SubmitInput) (*models.SpeakerApplication, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	in = in.trimmed()
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	app := &models.SpeakerApplication{
		Title:          in.Title,
		Description:    in.Description,
		Experience:     in.Experience,
		Bio:            in.Bio,
		GithubURL:      in.GithubURL,
		LinkedinURL:    in.LinkedinURL,
		WebsiteURL:     in.WebsiteURL,
		TwitterURL:     in.TwitterURL,
		AdditionalInfo: in.AdditionalInfo,
		Status:         models.ApplicationPending,
		UserID:         a.UserID,
	}
	if in.EventID != "" {
		eventID, err := uuid.Parse(in.EventID)
		if err != nil {
			return nil, apperr.NotFound("Event not found")
		}
		e, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return nil, apperr.Internal("load event", err)
		}
		if e == nil {
			return nil, apperr.NotFound("Event not found")
		}
		app.EventID = &eventID
	}
	if err := s.store.Create(ctx, app); err != nil {
		return nil, apperr.Internal("create speaker application", err)
	}
	full, err := s.store.GetByID(ctx, app.ID)
	if err != nil || full == nil {
		s.logger.Warn("reload speaker application failed", zap.String("application_id", app.ID.String()), zap.Error(err))
		full = app
	}
	s.logger.Info("speaker application submitted",
		zap.String("application_id", full.ID.String()),
		zap.String("user_id", a.UserID.String()),
	)
	for _, h := range s.hooks {
		if err := h.OnApplicationSubmitted(ctx, full); err != nil {
			s.logger.Error("speaker application hook failed", zap.String("application_id", full.ID.String()), zap.Error(err))
		}
	}
	return full, nil
}

// UpdateStatus sets any status on an application. Admins only.
func (s *Service) UpdateStatus(ctx context.Context, a policy.AuthContext, id uuid.UUID, status models.ApplicationStatus) (*models.SpeakerApplication, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if !policy.CanReviewApplication(a) {
		return nil, apperr.Forbidden("Forbidden")
	}
	if !status.Valid() {
		return nil, apperr.Validation("Invalid status", map[string]string{"status": "status must be one of PENDING APPROVED REJECTED"})
	}
	ok, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperr.Internal("update speaker application", err)
	}
	if !ok {
		return nil, apperr.NotFound("Application not found")
	}
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load speaker application", err)
	}
	if app == nil {
		return nil, apperr.NotFound("Application not found")
	}
	s.logger.Info("speaker application status changed",
		zap.String("application_id", id.String()),
		zap.String("status", string(status)),
		zap.String("reviewer_id", a.UserID.String()),
	)
	for _, h := range s.hooks {
		if err := h.OnApplicationStatusChanged(ctx, app); err != nil {
			s.logger.Error("speaker application hook failed", zap.String("application_id", id.String()), zap.Error(err))
		}
	}
	return app, nil
}

// Get returns an application to its applicant or an admin.
func (s *Service) Get(ctx context.Context, a policy.AuthContext, id uuid.UUID) (*models.SpeakerApplication, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("load speaker application", err)
	}
	if app == nil {
		return nil, apperr.NotFound("Application not found")
	}
	if !policy.CanViewApplication(a, app) {
		return nil, apperr.Forbidden("Forbidden")
	}
	return app, nil
}

// List returns every application for admins. Unknown status filters are ignored.
func (s *Service) List(ctx context.Context, a policy.AuthContext, status string) ([]models.SpeakerApplication, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if !policy.CanReviewApplication(a) {
		return nil, apperr.Forbidden("Forbidden")
	}
	var filter *models.ApplicationStatus
	if st := models.ApplicationStatus(strings.ToUpper(strings.TrimSpace(status))); st.Valid() {
		filter = &st
	}
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list speaker applications", err)
	}
	return list, nil
}

// ListMine returns the caller's own applications.
func (s *Service) ListMine(ctx context.Context, a policy.AuthContext) ([]models.SpeakerApplication, error) {
	if !policy.IsAuthenticated(a) {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	list, err := s.store.ListByUser(ctx, a.UserID)
	if err != nil {
		return nil, apperr.Internal("list speaker applications", err)
	}
	return list, nil
}

func (in SubmitInput) trimmed() SubmitInput {
	for _, f := range []*string{&in.Title, &in.Description, &in.Experience, &in.Bio,
		&in.GithubURL, &in.LinkedinURL, &in.WebsiteURL, &in.TwitterURL, &in.AdditionalInfo, &in.EventID} {
		*f = strings.TrimSpace(*f)
	}
	return in
}
