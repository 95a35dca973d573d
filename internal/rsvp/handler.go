package rsvp

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/middleware"
	"github.com/frontend-leeds/backend/pkg/apperr"
	"github.com/frontend-leeds/backend/pkg/response"
)

// Handler handles RSVP HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an RSVP handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Set handles POST /events/rsvp.
func (h *Handler) Set(c *gin.Context) {
	var in SetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, h.logger, apperr.FromValidation(err))
		return
	}
	rv, err := h.svc.SetRSVP(c.Request.Context(), middleware.AuthFrom(c), in)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, rv)
}

// Mine handles GET /events/:id/rsvp.
func (h *Handler) Mine(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	status, err := h.svc.UserStatus(c.Request.Context(), middleware.AuthFrom(c), eventID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"eventId": eventID, "status": status})
}

// Attendance handles GET /events/:id/attendance.
func (h *Handler) Attendance(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	att, err := h.svc.Attendance(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, att)
}
