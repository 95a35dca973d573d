package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a community event.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Capacity    *int      `json:"capacity,omitempty"`
	Published   bool      `json:"published"`
	// CreatorID may reference a user that no longer exists.
	CreatorID uuid.UUID `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsPast reports whether the event has ended at now.
func (e *Event) IsPast(now time.Time) bool {
	return now.After(e.EndTime)
}

// EventWithCount is an event plus its GOING attendance count.
type EventWithCount struct {
	Event
	GoingCount int `json:"goingCount"`
}

// EventSummary is the subset of an event embedded in applications.
type EventSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
}
