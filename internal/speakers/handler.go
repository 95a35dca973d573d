package speakers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/middleware"
	"github.com/frontend-leeds/backend/pkg/apperr"
	"github.com/frontend-leeds/backend/pkg/response"
)

// Handler handles speaker application HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a speaker application handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Submit handles POST /speaker-applications.
func (h *Handler) Submit(c *gin.Context) {
	var in SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, h.logger, apperr.FromValidation(err))
		return
	}
	app, err := h.svc.Submit(c.Request.Context(), middleware.AuthFrom(c), in)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, app)
}

// List handles GET /speaker-applications?status=.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.AuthFrom(c), c.Query("status"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, list)
}

// Mine handles GET /speaker-applications/my-applications.
func (h *Handler) Mine(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), middleware.AuthFrom(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, list)
}

// Get handles GET /speaker-applications/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Application not found")
		return
	}
	app, err := h.svc.Get(c.Request.Context(), middleware.AuthFrom(c), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, app)
}

// UpdateStatus handles PATCH /speaker-applications/:id.
// A malformed body leaves the status empty so identity checks still answer first.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var in StatusInput
	_ = c.ShouldBindJSON(&in)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		id = uuid.Nil
	}
	app, err := h.svc.UpdateStatus(c.Request.Context(), middleware.AuthFrom(c), id, in.Status)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, app)
}
