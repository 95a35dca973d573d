package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/pkg/queue"
)

// EventNotification is the live stream event name for new notifications.
const EventNotification = "notification"

// UserDirectory finds notification recipients.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
}

// Publisher pushes events to a user's live connections.
type Publisher interface {
	PublishToUser(userID uuid.UUID, event string, payload interface{}) error
}

// EmailQueue accepts email jobs.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// Dispatcher turns speaker application changes into notifications.
// Publisher and EmailQueue are optional.
type Dispatcher struct {
	store     Store
	users     UserDirectory
	publisher Publisher
	emails    EmailQueue
	logger    *zap.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(store Store, users UserDirectory, publisher Publisher, emails EmailQueue, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{store: store, users: users, publisher: publisher, emails: emails, logger: logger}
}

// OnApplicationSubmitted notifies every admin of a new application.
func (d *Dispatcher) OnApplicationSubmitted(ctx context.Context, app *models.SpeakerApplication) error {
	admins, err := d.users.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	by, err := d.applicantName(ctx, app)
	if err != nil {
		return err
	}
	var errs []error
	for i := range admins {
		n := &models.Notification{
			Title:   "New Speaker Application",
			Content: "A new speaker application has been submitted by " + by,
			Type:    models.NotificationSiteAnnouncement,
			UserID:  admins[i].ID,
		}
		if err := d.deliver(ctx, n, &admins[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnApplicationStatusChanged tells the applicant about the new status.
func (d *Dispatcher) OnApplicationStatusChanged(ctx context.Context, app *models.SpeakerApplication) error {
	applicant, err := d.users.GetByID(ctx, app.UserID)
	if err != nil {
		return fmt.Errorf("load applicant: %w", err)
	}
	if applicant == nil {
		return nil
	}
	n := &models.Notification{
		Title:   "Speaker Application " + string(app.Status),
		Content: "Your speaker application has been " + strings.ToLower(string(app.Status)) + ".",
		Type:    models.NotificationSiteAnnouncement,
		UserID:  app.UserID,
	}
	return d.deliver(ctx, n, applicant)
}

func (d *Dispatcher) applicantName(ctx context.Context, app *models.SpeakerApplication) (string, error) {
	if app.User != nil {
		if app.User.Name != "" {
			return app.User.Name, nil
		}
		if app.User.Email != "" {
			return app.User.Email, nil
		}
	}
	u, err := d.users.GetByID(ctx, app.UserID)
	if err != nil {
		return "", fmt.Errorf("load applicant: %w", err)
	}
	if u == nil {
		return "unknown user", nil
	}
	return u.DisplayName(), nil
}

// deliver stores the notification, then pushes it live and queues its email.
// Only the insert is fatal.
func (d *Dispatcher) deliver(ctx context.Context, n *models.Notification, to *models.User) error {
	if err := d.store.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	if d.publisher != nil {
		if err := d.publisher.PublishToUser(n.UserID, EventNotification, n); err != nil {
			d.logger.Warn("publish notification failed", zap.String("notification_id", n.ID.String()), zap.Error(err))
		}
	}
	if d.emails != nil && to != nil && to.Email != "" {
		err := d.emails.EnqueueEmail(ctx, queue.EmailPayload{
			NotificationID: n.ID,
			UserID:         n.UserID,
			RecipientEmail: to.Email,
			RecipientName:  to.Name,
			Subject:        n.Title,
			Body:           n.Content,
		})
		if err != nil {
			d.logger.Warn("enqueue notification email failed", zap.String("notification_id", n.ID.String()), zap.Error(err))
		}
	}
	return nil
}
