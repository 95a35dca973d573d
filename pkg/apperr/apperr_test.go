package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("event not found")))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("wrapped: %w", Forbidden("no"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.True(t, Is(Conflict("dup"), KindConflict))
	assert.False(t, Is(nil, KindConflict))
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("load event", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

type sample struct {
	Title string `json:"title" validate:"min=3"`
	Bio   string `json:"bio" validate:"min=10"`
	Site  string `json:"websiteUrl" validate:"omitempty,url"`
	Email string `json:"email" validate:"required,email"`
}

func TestValidateStructFieldMessages(t *testing.T) {
	err := ValidateStruct(sample{Title: "ab", Bio: "short", Site: "not a url", Email: "x"})
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, "title must be at least 3 characters", e.Fields["title"])
	assert.Equal(t, "bio must be at least 10 characters", e.Fields["bio"])
	assert.Equal(t, "websiteUrl must be a valid URL", e.Fields["websiteUrl"])
	assert.Equal(t, "email must be a valid email address", e.Fields["email"])
}

func TestValidateStructEmptyURLAllowed(t *testing.T) {
	err := ValidateStruct(sample{Title: "abc", Bio: "0123456789", Email: "a@b.co"})
	assert.NoError(t, err)
}

func TestFromValidationNonValidatorError(t *testing.T) {
	e := FromValidation(errors.New("unexpected EOF"))
	assert.Equal(t, KindValidation, e.Kind)
	assert.Nil(t, e.Fields)
}
