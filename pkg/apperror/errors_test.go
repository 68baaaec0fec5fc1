package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatchingByCode(t *testing.T) {
	err := NewConfirmationError("Delete this receipt from history?")
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.NotErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("reset: %w", err)
	assert.ErrorIs(t, wrapped, ErrConfirmationRequired)
	assert.Equal(t, "Delete this receipt from history?", GetAppError(wrapped).Prompt)
}

func TestGetAppErrorFallsBackToInternal(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "boom", appErr.Message)
	assert.False(t, IsAppError(errors.New("boom")))
}

func TestUnknownFieldError(t *testing.T) {
	err := NewUnknownFieldError("colour")
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, "colour", err.Errors[0].Field)
}
