package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/response"
)

// RequireRole allows only callers holding one of roles. Must run after JWT.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		a := AuthFrom(c)
		if !policy.IsAuthenticated(a) {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}
		if _, ok := allowed[a.Role]; !ok {
			response.Forbidden(c, "Forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}
