package events

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/middleware"
	"github.com/frontend-leeds/backend/pkg/apperr"
	"github.com/frontend-leeds/backend/pkg/response"
)

// Handler handles event HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates an event handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /events (admin only).
func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, h.logger, apperr.FromValidation(err))
		return
	}
	e, err := h.svc.Create(c.Request.Context(), middleware.AuthFrom(c), in)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, e)
}

// Update handles PUT /events/:id (creator admin only).
func (h *Handler) Update(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, h.logger, apperr.FromValidation(err))
		return
	}
	e, err := h.svc.Update(c.Request.Context(), middleware.AuthFrom(c), id, in)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /events/:id and POST /events/:id/delete (creator admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.AuthFrom(c), id); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"id": id, "deleted": true})
}

// Get handles GET /events/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	d, err := h.svc.Get(c.Request.Context(), middleware.AuthFrom(c), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, d)
}

// List handles GET /events?upcoming=&past=&limit=.
func (h *Handler) List(c *gin.Context) {
	q := ListQuery{}
	if b, _ := strconv.ParseBool(c.Query("upcoming")); b {
		q.Scope = ScopeUpcoming
	} else if b, _ := strconv.ParseBool(c.Query("past")); b {
		q.Scope = ScopePast
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		q.Limit = n
	}
	list, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, list)
}

// ListMine handles GET /admin/events.
func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), middleware.AuthFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, list)
}

func eventID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Event not found")
		return uuid.Nil, false
	}
	return id, true
}
