package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorises a notification.
type NotificationType string

const (
	NotificationSiteAnnouncement NotificationType = "SITE_ANNOUNCEMENT"
	NotificationEventReminder    NotificationType = "EVENT_REMINDER"
	NotificationEventUpdate      NotificationType = "EVENT_UPDATE"
)

// Notification is an entry in a user's notification log.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Type      NotificationType `json:"type"`
	UserID    uuid.UUID        `json:"userId"`
	EventID   *uuid.UUID       `json:"eventId,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
