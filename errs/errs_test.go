package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApiErr_IsSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("Blog"))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsDuplicateEmail(err))
	assert.Equal(t, http.StatusNotFound, As(err).StatusCode)
	assert.Equal(t, "Blog not found", As(err).Message)
}

func TestApiErr_CauseIsReachable(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("Error fetching blogs", cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection reset", err.Detail())
}

func TestAs_WrapsUnknownErrors(t *testing.T) {
	apiErr := As(errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.ErrorIs(t, apiErr, ErrInternal)
	assert.Equal(t, "boom", apiErr.Detail())
}

func TestWithStatus_KeepsKind(t *testing.T) {
	err := InvalidCredentials().WithStatus(http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, InvalidCredentials().StatusCode)
}

func TestBody(t *testing.T) {
	body := Validation("email", "Please provide a valid email address").Body()
	assert.Equal(t, "Please provide a valid email address", body["message"])
	assert.Equal(t, "validation error", body["error"])
	assert.Equal(t, "email", body["field"])

	_, hasField := NotFound("Blog").Body()["field"]
	assert.False(t, hasField)
}
