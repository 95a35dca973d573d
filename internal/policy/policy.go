// Package policy holds every authorization rule of the site as pure functions.
// Handlers resolve an AuthContext once per request and pass it down; services
// ask these functions instead of inspecting roles themselves.
package policy

import (
	"github.com/google/uuid"

	"github.com/frontend-leeds/backend/internal/models"
)

// AuthContext is the resolved identity of a request. The zero value is anonymous.
type AuthContext struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

// Anonymous is the identity of a request without a valid session.
var Anonymous = AuthContext{}

func IsAuthenticated(a AuthContext) bool {
	return a.UserID != uuid.Nil
}

func IsAdmin(a AuthContext) bool {
	return IsAuthenticated(a) && a.Role == models.RoleAdmin
}

// CanCreateEvent allows admins to create events.
func CanCreateEvent(a AuthContext) bool {
	return IsAdmin(a)
}

// CanEditEvent requires both the admin role and authorship.
func CanEditEvent(a AuthContext, e *models.Event) bool {
	return IsAdmin(a) && e != nil && e.CreatorID == a.UserID
}

// CanDeleteEvent follows the edit rule.
func CanDeleteEvent(a AuthContext, e *models.Event) bool {
	return CanEditEvent(a, e)
}

// CanViewEvent hides drafts from everyone but their creator.
func CanViewEvent(a AuthContext, e *models.Event) bool {
	if e == nil {
		return false
	}
	return e.Published || (IsAuthenticated(a) && e.CreatorID == a.UserID)
}

func CanReviewApplication(a AuthContext) bool {
	return IsAdmin(a)
}

// CanViewApplication allows the applicant and any admin.
func CanViewApplication(a AuthContext, app *models.SpeakerApplication) bool {
	if app == nil || !IsAuthenticated(a) {
		return false
	}
	return IsAdmin(a) || app.UserID == a.UserID
}

func CanManageUsers(a AuthContext) bool {
	return IsAdmin(a)
}

// CanDeleteUser forbids admins from deleting their own account.
func CanDeleteUser(a AuthContext, target uuid.UUID) bool {
	return IsAdmin(a) && target != a.UserID
}
