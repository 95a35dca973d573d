package events

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontend-leeds/backend/internal/models"
	"github.com/frontend-leeds/backend/internal/policy"
	"github.com/frontend-leeds/backend/internal/rsvp"
	"github.com/frontend-leeds/backend/pkg/apperr"
)

type memEvents struct {
	mu      sync.Mutex
	events  map[uuid.UUID]*models.Event
	users   map[uuid.UUID]*models.UserSummary
	deleted []uuid.UUID
}

func newMemEvents() *memEvents {
	return &memEvents{events: map[uuid.UUID]*models.Event{}, users: map[uuid.UUID]*models.UserSummary{}}
}

func (m *memEvents) Create(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *memEvents) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (m *memEvents) Creator(_ context.Context, id uuid.UUID) (*models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memEvents) Update(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *memEvents) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memEvents) ListPublished(_ context.Context, scope Scope, now time.Time, limit int) ([]models.EventWithCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EventWithCount
	for _, e := range m.events {
		if !e.Published {
			continue
		}
		if scope == ScopeUpcoming && e.StartTime.Before(now) {
			continue
		}
		if scope == ScopePast && !e.StartTime.Before(now) {
			continue
		}
		out = append(out, models.EventWithCount{Event: *e})
	}
	sort.Slice(out, func(i, j int) bool {
		if scope == ScopeUpcoming {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memEvents) ListByCreator(_ context.Context, creatorID uuid.UUID) ([]models.EventWithCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EventWithCount
	for _, e := range m.events {
		if e.CreatorID == creatorID {
			out = append(out, models.EventWithCount{Event: *e})
		}
	}
	return out, nil
}

type fakeAttendance struct {
	going     int
	status    map[uuid.UUID]models.RSVPStatus
	attendees []rsvp.Attendee
}

func (f *fakeAttendance) CountGoing(context.Context, uuid.UUID) (int, error) { return f.going, nil }

func (f *fakeAttendance) UserStatus(_ context.Context, a policy.AuthContext, _ uuid.UUID) (*models.RSVPStatus, error) {
	if st, ok := f.status[a.UserID]; ok {
		return &st, nil
	}
	return nil, nil
}

func (f *fakeAttendance) Attendees(_ context.Context, _ uuid.UUID, limit int) ([]rsvp.Attendee, error) {
	if len(f.attendees) > limit {
		return f.attendees[:limit], nil
	}
	return f.attendees, nil
}

var (
	testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	admin   = policy.AuthContext{UserID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin}
	member  = policy.AuthContext{UserID: uuid.New(), Email: "user@example.com", Role: models.RoleUser}
)

func newTestService() (*Service, *memEvents, *fakeAttendance) {
	store := newMemEvents()
	att := &fakeAttendance{status: map[uuid.UUID]models.RSVPStatus{}}
	svc := NewService(store, att, nil)
	svc.now = func() time.Time { return testNow }
	return svc, store, att
}

func validInput() Input {
	return Input{
		Title:       "Leeds JS Meetup",
		Description: "Monthly meetup for frontend folks",
		Content:     "Talks, pizza and a chance to meet people",
		Location:    "Platform, Leeds",
		StartTime:   "2025-07-01T18:00:00Z",
		EndTime:     "2025-07-01T21:00:00Z",
		Published:   true,
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, policy.Anonymous, validInput())
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = svc.Create(ctx, member, validInput())
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	e, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, e.CreatorID)
	assert.Nil(t, e.Capacity)
	assert.Equal(t, time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC), e.StartTime)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	in := validInput()
	in.Title = "JS"
	in.EndTime = "2025-07-01T17:00:00Z"
	in.Capacity = Capacity{Set: true, Value: 0}
	in.ImageURL = "not a url"

	_, err := svc.Create(context.Background(), admin, in)
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Contains(t, ae.Fields, "title")
	assert.Contains(t, ae.Fields, "endTime")
	assert.Contains(t, ae.Fields, "capacity")
	assert.Contains(t, ae.Fields, "imageUrl")
}

func TestCreateTrimsTextFields(t *testing.T) {
	svc, _, _ := newTestService()
	in := validInput()
	in.Description = "          "
	in.Content = "  short   "

	_, err := svc.Create(context.Background(), admin, in)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "description")
	assert.Contains(t, ae.Fields, "content")

	in = validInput()
	in.Description = "  " + in.Description + "\n"
	e, err := svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, validInput().Description, e.Description)
}

func TestCreateAcceptsDatetimeLocal(t *testing.T) {
	svc, _, _ := newTestService()
	in := validInput()
	in.StartTime = "2025-07-01T18:00"
	in.EndTime = "2025-07-01T18:00"
	in.Capacity = Capacity{Set: true, Value: 40}

	e, err := svc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, e.StartTime, e.EndTime)
	require.NotNil(t, e.Capacity)
	assert.Equal(t, 40, *e.Capacity)
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	e, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)

	otherAdmin := policy.AuthContext{UserID: uuid.New(), Role: models.RoleAdmin}
	in := validInput()
	in.Title = "Renamed meetup"

	_, err = svc.Update(ctx, policy.Anonymous, e.ID, in)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = svc.Update(ctx, member, e.ID, in)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = svc.Update(ctx, otherAdmin, e.ID, in)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = svc.Update(ctx, admin, uuid.New(), in)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	updated, err := svc.Update(ctx, admin, e.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed meetup", updated.Title)

	assert.True(t, apperr.Is(svc.Delete(ctx, otherAdmin, e.ID), apperr.KindForbidden))
	require.NoError(t, svc.Delete(ctx, admin, e.ID))
	assert.Equal(t, []uuid.UUID{e.ID}, store.deleted)

	_, err = svc.Get(ctx, admin, e.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGetHidesDraftsFromOthers(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	in := validInput()
	in.Published = false
	e, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)

	_, err = svc.Get(ctx, member, e.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = svc.Get(ctx, policy.Anonymous, e.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	d, err := svc.Get(ctx, admin, e.ID)
	require.NoError(t, err)
	assert.False(t, d.Published)
}

func TestGetDetail(t *testing.T) {
	svc, store, att := newTestService()
	ctx := context.Background()
	in := validInput()
	in.Capacity = Capacity{Set: true, Value: 10}
	e, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)
	store.users[admin.UserID] = &models.UserSummary{ID: admin.UserID, Name: "Ada"}

	att.going = 12
	att.status[member.UserID] = models.RSVPMaybe
	att.attendees = []rsvp.Attendee{{Name: "Grace Hopper"}, {Name: ""}}

	d, err := svc.Get(ctx, member, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, d.GoingCount)
	assert.Equal(t, "Ada", d.Creator.Name)
	require.NotNil(t, d.UserStatus)
	assert.Equal(t, models.RSVPMaybe, *d.UserStatus)
	assert.Equal(t, rsvp.LabelFull, d.Availability.Label)
	assert.False(t, d.IsPast)
	require.Len(t, d.Attendees, 2)
	assert.Equal(t, "Gr*******er", d.Attendees[0].Name)
	assert.Equal(t, "An*****us", d.Attendees[1].Name)

	d, err = svc.Get(ctx, policy.Anonymous, e.ID)
	require.NoError(t, err)
	assert.Nil(t, d.UserStatus)
}

func TestListScopes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	for _, start := range []string{"2025-05-01T10:00:00Z", "2025-07-01T10:00:00Z", "2025-08-01T10:00:00Z"} {
		in := validInput()
		in.StartTime = start
		in.EndTime = start
		_, err := svc.Create(ctx, admin, in)
		require.NoError(t, err)
	}
	draft := validInput()
	draft.Published = false
	_, err := svc.Create(ctx, admin, draft)
	require.NoError(t, err)

	all, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	upcoming, err := svc.List(ctx, ListQuery{Scope: ScopeUpcoming})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.True(t, upcoming[0].StartTime.Before(upcoming[1].StartTime))

	past, err := svc.List(ctx, ListQuery{Scope: ScopePast})
	require.NoError(t, err)
	assert.Len(t, past, 1)

	limited, err := svc.List(ctx, ListQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListMine(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, validInput())
	require.NoError(t, err)

	_, err = svc.ListMine(ctx, member)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	mine, err := svc.ListMine(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
