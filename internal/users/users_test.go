package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontend-leeds/backend/internal/auth"
	"github.com/frontend-leeds/backend/internal/middleware"
	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) ListWithCounts(context.Context) ([]models.UserWithCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserWithCounts
	for _, u := range m.users {
		out = append(out, models.UserWithCounts{User: *u})
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, id uuid.UUID, p auth.UpdateParams) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if p.Email != nil {
		for oid, o := range m.users {
			if oid != id && strings.EqualFold(o.Email, *p.Email) {
				return nil, auth.ErrEmailTaken
			}
		}
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

func seed() (*memUsers, *models.User, *models.User) {
	admin := &models.User{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	user := &models.User{ID: uuid.New(), Name: "User", Email: "user@example.com", Role: models.RoleUser}
	return &memUsers{users: map[uuid.UUID]*models.User{admin.ID: admin, user.ID: user}}, admin, user
}

func ctxOf(u *models.User) policy.AuthContext {
	return policy.AuthContext{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func strp(s string) *string { return &s }

func TestServiceGuards(t *testing.T) {
	store, _, user := seed()
	svc := NewService(store, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, policy.Anonymous)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = svc.List(ctx, ctxOf(user))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.True(t, apperr.Is(svc.Delete(ctx, ctxOf(user), user.ID), apperr.KindForbidden))
}

func TestServiceUpdate(t *testing.T) {
	store, admin, user := seed()
	svc := NewService(store, nil)
	ctx := context.Background()
	a := ctxOf(admin)

	role := models.RoleAdmin
	u, err := svc.Update(ctx, a, user.ID, UpdateInput{Role: &role, Name: strp("  Promoted ")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "Promoted", u.Name)
	assert.Equal(t, "user@example.com", u.Email)

	_, err = svc.Update(ctx, a, user.ID, UpdateInput{Email: strp("ADMIN@example.com")})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindConflict, ae.Kind)
	assert.Equal(t, "Email is already taken", ae.Message)

	bad := models.Role("ROOT")
	_, err = svc.Update(ctx, a, user.ID, UpdateInput{Role: &bad, Name: strp("x")})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Contains(t, ae.Fields, "role")
	assert.Contains(t, ae.Fields, "name")

	_, err = svc.Update(ctx, a, uuid.New(), UpdateInput{Name: strp("Nobody")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestServiceDelete(t *testing.T) {
	store, admin, user := seed()
	svc := NewService(store, nil)
	ctx := context.Background()
	a := ctxOf(admin)

	err := svc.Delete(ctx, a, admin.ID)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, "You cannot delete your own account", ae.Message)

	require.NoError(t, svc.Delete(ctx, a, user.ID))
	assert.True(t, apperr.Is(svc.Delete(ctx, a, user.ID), apperr.KindNotFound))
	_, err = svc.Get(ctx, a, user.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, admin, user := seed()
	h := NewHandler(NewService(store, nil), nil)
	jwtSvc := auth.NewJWTService("secret", 1)
	adminTok, err := jwtSvc.Generate(admin)
	require.NoError(t, err)
	userTok, err := jwtSvc.Generate(user)
	require.NoError(t, err)

	r := gin.New()
	g := r.Group("/admin/users", middleware.JWT(jwtSvc), middleware.RequireRole(models.RoleAdmin))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.POST("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/delete", h.Delete)

	do := func(method, path, token, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/admin/users", "", ""))
	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/admin/users", userTok, ""))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/users", adminTok, ""))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/users/"+user.ID.String(), adminTok, ""))
	assert.Equal(t, http.StatusConflict, do(http.MethodPost, "/admin/users/"+user.ID.String(), adminTok, `{"email":"admin@example.com"}`))
	assert.Equal(t, http.StatusOK, do(http.MethodPatch, "/admin/users/"+user.ID.String(), adminTok, `{"name":"Renamed"}`))
	assert.Equal(t, http.StatusBadRequest, do(http.MethodDelete, "/admin/users/"+admin.ID.String(), adminTok, ""))
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/admin/users/"+user.ID.String()+"/delete", adminTok, ""))
	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/admin/users/"+user.ID.String(), adminTok, ""))
}
