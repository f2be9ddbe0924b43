package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKindAndMessage(t *testing.T) {
	sentinel := New(KindValidation, "Please select a file first.")
	wrapped := fmt.Errorf("trigger: %w", New(KindValidation, "Please select a file first."))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, New(KindConfiguration, "Please select a file first."), sentinel)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindTranscription, cause, "Error during transcription: connection reset")

	assert.Equal(t, "Error during transcription: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindTranscription, KindOf(err))
}

func TestHTTPStatusAndCode(t *testing.T) {
	testCases := []struct {
		kind   Kind
		status int
		code   string
	}{
		{KindValidation, http.StatusUnprocessableEntity, "ERR_VALIDATION"},
		{KindConfiguration, http.StatusServiceUnavailable, "ERR_CONFIGURATION"},
		{KindUnsupportedFile, http.StatusUnsupportedMediaType, "ERR_UNSUPPORTED_FILE"},
		{KindConflict, http.StatusConflict, "ERR_CONFLICT"},
		{KindTranscription, http.StatusBadGateway, "ERR_TRANSCRIPTION"},
		{KindInternal, http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			err := New(tc.kind, "x")
			assert.Equal(t, tc.status, err.HTTPStatus())
			assert.Equal(t, tc.code, err.Code())
		})
	}
}

func TestAsWrapsForeignErrors(t *testing.T) {
	err := As(errors.New("disk full"))

	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, "disk full", err.Message)
	assert.Equal(t, KindInternal, KindOf(errors.New("other")))
}
