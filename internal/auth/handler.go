package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
	"github.com/frontend-leeds/backend/pkg/response"
)

// Handler handles auth HTTP endpoints.
type Handler struct {
	svc    *Service
	authOf func(*gin.Context) policy.AuthContext
	logger *zap.Logger
}

// NewHandler creates an auth handler. authOf resolves the caller identity set by middleware.
func NewHandler(svc *Service, authOf func(*gin.Context) policy.AuthContext, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, authOf: authOf, logger: logger}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, h.logger, apperr.FromValidation(err))
		return
	}
	u, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, u)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, h.logger, apperr.FromValidation(err))
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, sess)
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), h.authOf(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, u)
}
