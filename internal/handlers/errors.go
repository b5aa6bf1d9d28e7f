package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"readwell/internal/assessment"
	"readwell/internal/pronunciation"
	"readwell/internal/security"
	"readwell/internal/service"
	"readwell/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondWithError writes a JSON error body. err, when set, is logged
// together with logMsg (or userMsg if logMsg is empty) and never sent to
// the client.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).Int("status", status).Msg(logMsg)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// decodeJSON reads a size-limited JSON request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return false
	}
	return true
}

// respondWithServiceError maps domain errors to HTTP statuses
func respondWithServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrAssessmentNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrUnknownWord):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, security.ErrInvalidShareToken):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: ErrReportNotFound})
	case errors.Is(err, service.ErrNotComplete),
		errors.Is(err, pronunciation.ErrExerciseComplete):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, assessment.ErrUnknownQuestion),
		errors.Is(err, assessment.ErrInvalidResponse),
		errors.Is(err, pronunciation.ErrInvalidConfidence),
		errors.As(err, new(validation.ValidationError)):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
