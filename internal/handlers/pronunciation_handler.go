package handlers

import (
	"errors"
	"net/http"

	"readwell/internal/models"
	"readwell/internal/pronunciation"
	"readwell/internal/service"
)

// PronunciationHandler handles read-aloud exercise HTTP requests
type PronunciationHandler struct {
	pronunciationService *service.PronunciationService
}

// NewPronunciationHandler creates a new pronunciation handler
func NewPronunciationHandler(pronunciationService *service.PronunciationService) *PronunciationHandler {
	return &PronunciationHandler{pronunciationService: pronunciationService}
}

// Words lists the exercise words
func (h *PronunciationHandler) Words(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.pronunciationService.Words())
}

type attemptRequest struct {
	SpokenText string  `json:"spokenText"`
	Confidence float64 `json:"confidence"`
}

type scoreAttemptRequest struct {
	Word string `json:"word"`
	attemptRequest
}

// Score scores one attempt against any catalog word
func (h *PronunciationHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreAttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.pronunciationService.Score(req.Word, pronunciation.Attempt{
		SpokenText: req.SpokenText,
		Confidence: req.Confidence,
	})
	if errors.Is(err, pronunciation.ErrNoSpeech) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		respondWithServiceError(w, err, "Failed to score attempt")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type startExerciseRequest struct {
	ChildName string `json:"childName"`
}

// StartExercise begins a new exercise
func (h *PronunciationHandler) StartExercise(w http.ResponseWriter, r *http.Request) {
	var req startExerciseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.pronunciationService.StartExercise(req.ChildName)
	if err != nil {
		respondWithServiceError(w, err, "Failed to start exercise")
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// GetExercise returns an exercise's progress
func (h *PronunciationHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	view, err := h.pronunciationService.GetExercise(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err, "Failed to load exercise")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SubmitAttempt scores an attempt at the exercise's current word.
// Silence is answered with 204 and nothing is recorded.
func (h *PronunciationHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var req attemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.pronunciationService.SubmitAttempt(r.PathValue("id"), pronunciation.Attempt{
		SpokenText: req.SpokenText,
		Confidence: req.Confidence,
	})
	if errors.Is(err, pronunciation.ErrNoSpeech) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		respondWithServiceError(w, err, "Failed to submit attempt")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// WordStats summarizes attempts per word
func (h *PronunciationHandler) WordStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pronunciationService.WordStats()
	if err != nil {
		respondWithServiceError(w, err, "Failed to load word stats")
		return
	}
	if stats == nil {
		stats = []models.WordStats{}
	}
	respondJSON(w, http.StatusOK, stats)
}
