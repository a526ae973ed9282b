package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodesSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("optimize: %w", NoCapacity(0, 3))

	assert.True(t, Is(err, CodeNoCapacity))
	assert.False(t, Is(err, CodeNotFound))
	assert.Equal(t, CodeNoCapacity, CodeOf(err))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))
}

func TestPlainErrorsAreInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, CodeUnknown, CodeOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "load vehicles")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[INTERNAL_ERROR] load vehicles: connection refused", err.Error())
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, InvalidInput("days", "must be positive").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, InvalidCoordinate("service_request", 7).HTTPStatus)
	assert.Equal(t, http.StatusNotFound, NotFound("plan", "abc").HTTPStatus)
}
