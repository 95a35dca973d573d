package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/pkg/apperr"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, Body) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, zap.NewNop(), err)

	var body Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validation("bad", nil), http.StatusBadRequest},
		{apperr.Unauthorized("login"), http.StatusUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.NotFound("gone"), http.StatusNotFound},
		{apperr.Conflict("dup"), http.StatusConflict},
		{apperr.Internal("db", errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w, body := render(t, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.False(t, body.Success)
	}
}

func TestErrorHidesInternalCause(t *testing.T) {
	_, body := render(t, apperr.Internal("load", errors.New("password=hunter2")))
	assert.Equal(t, "internal server error", body.Error)
}

func TestErrorIncludesFields(t *testing.T) {
	_, body := render(t, apperr.Validation("validation failed", map[string]string{"bio": "bio must be at least 10 characters"}))
	assert.Equal(t, "bio must be at least 10 characters", body.Fields["bio"])
}
