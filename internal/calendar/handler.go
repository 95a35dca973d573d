package calendar

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/middleware"
	"github.com/frontend-leeds/backend/pkg/apperr"
	"github.com/frontend-leeds/backend/pkg/response"
)

// Handler handles calendar export endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a calendar handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Links handles GET /events/:id/calendar.
func (h *Handler) Links(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Event not found")
		return
	}
	links, err := h.svc.Links(c.Request.Context(), middleware.AuthFrom(c), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, links)
}

// Download handles GET /events/:id/calendar.ics.
func (h *Handler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Event not found")
		return
	}
	body, filename, err := h.svc.ICS(c.Request.Context(), middleware.AuthFrom(c), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// Track handles POST /events/calendar-tracking.
func (h *Handler) Track(c *gin.Context) {
	var in TrackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, h.logger, apperr.FromValidation(err))
		return
	}
	if err := h.svc.Track(c.Request.Context(), middleware.AuthFrom(c), in); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"message": "Calendar tracking updated successfully"})
}

// Tracked handles GET /events/calendar-tracking?eventId=.
func (h *Handler) Tracked(c *gin.Context) {
	list, err := h.svc.Tracked(c.Request.Context(), middleware.AuthFrom(c), c.Query("eventId"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"calendarTypes": list})
}
