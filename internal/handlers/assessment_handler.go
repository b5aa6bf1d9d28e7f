package handlers

import (
	"net/http"

	"readwell/internal/assessment"
	"readwell/internal/service"
)

// AssessmentHandler handles parent questionnaire HTTP requests
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentService *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

type categoryView struct {
	ID    assessment.Category `json:"id"`
	Label string              `json:"label"`
}

type catalogResponse struct {
	Categories []categoryView        `json:"categories"`
	Questions  []assessment.Question `json:"questions"`
	Options    []assessment.Option   `json:"options"`
}

// Questions returns the question catalog and the allowed answers
func (h *AssessmentHandler) Questions(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		Questions: assessment.Questions(),
		Options:   assessment.Options(),
	}
	for _, c := range assessment.Categories() {
		resp.Categories = append(resp.Categories, categoryView{ID: c, Label: c.Label()})
	}
	respondJSON(w, http.StatusOK, resp)
}

type startAssessmentRequest struct {
	ChildName   string `json:"childName"`
	ParentEmail string `json:"parentEmail"`
}

// Start begins a new questionnaire
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startAssessmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.assessmentService.Start(req.ChildName, req.ParentEmail)
	if err != nil {
		respondWithServiceError(w, err, "Failed to start assessment")
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// Get returns an assessment's progress and current result
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessmentService.Get(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err, "Failed to load assessment")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type recordResponseRequest struct {
	Value *int `json:"value"`
}

// RecordResponse stores the answer to one question
func (h *AssessmentHandler) RecordResponse(w http.ResponseWriter, r *http.Request) {
	var req recordResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Value == nil {
		respondWithError(w, http.StatusBadRequest, "value is required", "", nil)
		return
	}

	view, err := h.assessmentService.RecordResponse(r.Context(), r.PathValue("id"), r.PathValue("questionId"), *req.Value)
	if err != nil {
		respondWithServiceError(w, err, "Failed to record response")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Reset clears every answer of an assessment
func (h *AssessmentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessmentService.Reset(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err, "Failed to reset assessment")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Share issues a signed report link for a completed assessment
func (h *AssessmentHandler) Share(w http.ResponseWriter, r *http.Request) {
	link, err := h.assessmentService.Share(r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err, "Failed to share assessment")
		return
	}
	respondJSON(w, http.StatusCreated, link)
}

// Report resolves a share link
func (h *AssessmentHandler) Report(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessmentService.ResolveShare(r.PathValue("token"))
	if err != nil {
		respondWithServiceError(w, err, "Failed to resolve report")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

type scoreRequest struct {
	Responses assessment.Responses `json:"responses"`
}

// Score computes a result for posted answers without storing anything
func (h *AssessmentHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.assessmentService.Score(req.Responses)
	if err != nil {
		respondWithServiceError(w, err, "Failed to score responses")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
