package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontend-leeds/backend/internal/auth"
	"github.com/frontend-leeds/backend/internal/models"
)

func newRouter(jwtSvc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		a := AuthFrom(c)
		c.String(http.StatusOK, "%s|%s", a.UserID, a.Role)
	}
	r.GET("/required", JWT(jwtSvc), whoami)
	r.GET("/optional", OptionalJWT(jwtSvc), whoami)
	r.GET("/admin", JWT(jwtSvc), RequireRole(models.RoleAdmin), whoami)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", 1)
	r := newRouter(jwtSvc)
	u := &models.User{ID: uuid.New(), Role: models.RoleUser}
	token, err := jwtSvc.Generate(u)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/required", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/required", "garbage").Code)

	w := do(r, "/required", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.ID.String()+"|USER", w.Body.String())
}

func TestOptionalJWTMiddleware(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", 1)
	r := newRouter(jwtSvc)

	w := do(r, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.Nil.String()+"|", w.Body.String())

	w = do(r, "/optional", "garbage")
	assert.Equal(t, http.StatusOK, w.Code, "invalid token degrades to anonymous")
}

func TestRequireRole(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", 1)
	r := newRouter(jwtSvc)

	userToken, _ := jwtSvc.Generate(&models.User{ID: uuid.New(), Role: models.RoleUser})
	adminToken, _ := jwtSvc.Generate(&models.User{ID: uuid.New(), Role: models.RoleAdmin})

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", adminToken).Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("http://localhost:3000, https://frontendleeds.com/"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://frontendleeds.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://frontendleeds.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
