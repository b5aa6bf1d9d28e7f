package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"readwell/internal/assessment"
	"readwell/internal/pronunciation"
	"readwell/internal/security"
	"readwell/internal/service"
	"readwell/internal/validation"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, http.StatusTeapot, "Teapot", "", nil)

	assert.Equal(t, http.StatusTeapot, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Teapot"}`, recorder.Body.String())
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = original }()

	recorder := httptest.NewRecorder()
	respondWithError(recorder, http.StatusInternalServerError, ErrInternalServerError, "", errors.New("boom"))

	assert.Contains(t, buf.String(), ErrInternalServerError)
	assert.Contains(t, buf.String(), "boom")
	assert.NotContains(t, recorder.Body.String(), "boom")
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown assessment", service.ErrAssessmentNotFound, http.StatusNotFound},
		{"unknown exercise", service.ErrExerciseNotFound, http.StatusNotFound},
		{"unknown word", fmt.Errorf("%w: %q", service.ErrUnknownWord, "zebra"), http.StatusNotFound},
		{"bad share token", fmt.Errorf("%w: expired", security.ErrInvalidShareToken), http.StatusNotFound},
		{"not complete", service.ErrNotComplete, http.StatusConflict},
		{"exercise complete", pronunciation.ErrExerciseComplete, http.StatusConflict},
		{"unknown question", fmt.Errorf("%w: %q", assessment.ErrUnknownQuestion, "x"), http.StatusBadRequest},
		{"invalid response", assessment.ErrInvalidResponse, http.StatusBadRequest},
		{"invalid confidence", pronunciation.ErrInvalidConfidence, http.StatusBadRequest},
		{"invalid name", validation.ValidationError{Field: "childName", Message: "required"}, http.StatusBadRequest},
		{"anything else", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWithServiceError(recorder, tt.err, "test")
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}
