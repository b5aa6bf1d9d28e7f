package models

import (
	"time"

	"readwell/internal/assessment"
)

// Assessment is a parent questionnaire for one child
type Assessment struct {
	ID           string
	ChildName    string
	ParentEmail  string
	Status       assessment.State
	OverallScore *float64 // set once complete
	Severity     assessment.Severity
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// IsComplete reports whether every question has been answered
func (a *Assessment) IsComplete() bool {
	return a.Status == assessment.StateComplete
}

// AssessmentResponse is one stored answer
type AssessmentResponse struct {
	AssessmentID string
	QuestionID   string
	Answer       int
	AnsweredAt   time.Time
}

// AssessmentView is an assessment together with its scored responses,
// as returned to API clients
type AssessmentView struct {
	ID              string               `json:"id"`
	ChildName       string               `json:"childName"`
	State           assessment.State     `json:"state"`
	Answered        int                  `json:"answered"`
	TotalQuestions  int                  `json:"totalQuestions"`
	CurrentQuestion *assessment.Question `json:"currentQuestion,omitempty"`
	Responses       assessment.Responses `json:"responses"`
	Result          assessment.Result    `json:"result"`
	CreatedAt       time.Time            `json:"createdAt"`
	CompletedAt     *time.Time           `json:"completedAt,omitempty"`
}
