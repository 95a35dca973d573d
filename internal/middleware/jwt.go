package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/frontend-leeds/backend/internal/auth"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/response"
)

// ContextAuth is the gin context key holding the caller's policy.AuthContext.
const ContextAuth = "auth_context"

// JWT rejects requests without a valid bearer token and stores the caller identity.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextAuth, claims.AuthContext())
		c.Next()
	}
}

// OptionalJWT stores the caller identity when a valid token is present and
// otherwise lets the request through as anonymous.
func OptionalJWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := jwtService.Validate(token); err == nil {
				c.Set(ContextAuth, claims.AuthContext())
			}
		}
		c.Next()
	}
}

// AuthFrom returns the identity stored by JWT or OptionalJWT, or policy.Anonymous.
func AuthFrom(c *gin.Context) policy.AuthContext {
	if v, ok := c.Get(ContextAuth); ok {
		if a, ok := v.(policy.AuthContext); ok {
			return a
		}
	}
	return policy.Anonymous
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
