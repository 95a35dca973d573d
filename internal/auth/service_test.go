package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/pkg/apperr"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[uuid.UUID]*models.User{}} }

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Create(_ context.Context, name, email, hash string, role models.Role) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrEmailTaken
		}
	}
	u := &models.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u, nil
}

func newTestService() (*Service, *memUsers) {
	store := newMemUsers()
	return NewService(store, NewJWTService("secret", 1), nil), store
}

func TestRegisterCreatesUserRole(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Register(context.Background(), RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	in := RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"}
	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	in.Email = "JANE@example.com"
	_, err = svc.Register(context.Background(), in)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), RegisterInput{Name: "J", Email: "nope", Password: "123"})
	require.Error(t, err)

	e := err.(*apperr.Error)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "name")
	assert.Contains(t, e.Fields, "email")
	assert.Contains(t, e.Fields, "password")
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	sess, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "secret1"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestMe(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.Me(ctx, policy.AuthContext{UserID: u.ID, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Me(ctx, policy.Anonymous)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
