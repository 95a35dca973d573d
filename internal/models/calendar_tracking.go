package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarProvider names a calendar export target.
type CalendarProvider string

const (
	CalendarGoogle  CalendarProvider = "google"
	CalendarOutlook CalendarProvider = "outlook"
	CalendarYahoo   CalendarProvider = "yahoo"
	CalendarApple   CalendarProvider = "apple"
)

// Valid reports whether p is a known provider.
func (p CalendarProvider) Valid() bool {
	switch p {
	case CalendarGoogle, CalendarOutlook, CalendarYahoo, CalendarApple:
		return true
	}
	return false
}

// CalendarTracking records that a user added an event to a calendar provider.
type CalendarTracking struct {
	UserID    uuid.UUID        `json:"userId"`
	EventID   uuid.UUID        `json:"eventId"`
	Provider  CalendarProvider `json:"calendarType"`
	CreatedAt time.Time        `json:"createdAt"`
}
