package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomError(t *testing.T) {
	t.Run("unwraps to the sentinel", func(t *testing.T) {
		err := NewCustomError(ErrClickCreationFailed, "could not create click")

		assert.ErrorIs(t, err, ErrClickCreationFailed)
		assert.Equal(t, "could not create click", err.Error())
	})

	t.Run("falls back to the sentinel message", func(t *testing.T) {
		err := &CustomError{Err: ErrConflict}
		assert.Equal(t, "conflict", err.Error())
	})

	t.Run("carries code and details", func(t *testing.T) {
		err := NewCustomError(ErrPartialFailure, "invitations incomplete").
			WithCode("CLICK_002").
			WithDetails(map[string]interface{}{"failed": 3})

		assert.Equal(t, "CLICK_002", err.Code)
		assert.Equal(t, 3, err.Details["failed"])
	})
}

func TestConstructors(t *testing.T) {
	assert.ErrorIs(t, NewResourceNotFoundError("missing"), ErrResourceNotFound)
	assert.ErrorIs(t, NewConflictError("taken"), ErrConflict)
	assert.ErrorIs(t, NewForbiddenError("nope"), ErrPermissionDenied)
	assert.ErrorIs(t, NewBadRequestError("bad"), ErrBadRequest)
}

func TestValidationError(t *testing.T) {
	t.Run("matches the validation sentinel", func(t *testing.T) {
		err := NewValidationError().Add("name", "must be at least 3 characters")

		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("first message per field wins", func(t *testing.T) {
		err := NewValidationError().
			Add("name", "first message").
			Add("name", "second message")

		assert.Equal(t, "first message", err.Fields["name"])
	})

	t.Run("message lists fields in order", func(t *testing.T) {
		err := NewValidationError().
			Add("name", "too short").
			Add("description", "too long")

		assert.Equal(t, "validation failed: description: too long; name: too short", err.Error())
	})

	t.Run("empty error has no violations", func(t *testing.T) {
		err := NewValidationError()

		assert.False(t, err.HasErrors())
		assert.Equal(t, "validation failed", err.Error())
	})

	t.Run("errors.As extracts the typed error", func(t *testing.T) {
		var wrapped error = NewValidationError().Add("name", "too short")

		var verr *ValidationError
		require.True(t, errors.As(wrapped, &verr))
		assert.True(t, verr.HasErrors())
	})
}
