package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of a speaker application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// SpeakerApplication is a talk proposal submitted by a member.
type SpeakerApplication struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Experience     string            `json:"experience"`
	Bio            string            `json:"bio"`
	GithubURL      string            `json:"githubUrl,omitempty"`
	LinkedinURL    string            `json:"linkedinUrl,omitempty"`
	WebsiteURL     string            `json:"websiteUrl,omitempty"`
	TwitterURL     string            `json:"twitterUrl,omitempty"`
	AdditionalInfo string            `json:"additionalInfo,omitempty"`
	EventID        *uuid.UUID        `json:"eventId,omitempty"`
	Status         ApplicationStatus `json:"status"`
	UserID         uuid.UUID         `json:"userId"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	User  *UserSummary  `json:"user,omitempty"`
	Event *EventSummary `json:"event,omitempty"`
}
