package models

import (
	"time"

	"readwell/internal/pronunciation"
)

// PronunciationExercise tracks a child's progress through the read-aloud word list
type PronunciationExercise struct {
	ID           string
	ChildName    string
	CurrentIndex int
	TotalWords   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// PronunciationAttempt is one scored utterance
type PronunciationAttempt struct {
	ID          int64     `json:"id"`
	ExerciseID  string    `json:"exerciseId"`
	Word        string    `json:"word"`
	SpokenText  string    `json:"spokenText"`
	Confidence  float64   `json:"confidence"`
	Accuracy    float64   `json:"accuracy"`
	Passed      bool      `json:"passed"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// ExerciseView is the state of an exercise as returned to API clients
type ExerciseView struct {
	ID          string                `json:"id"`
	ChildName   string                `json:"childName"`
	Index       int                   `json:"index"`
	TotalWords  int                   `json:"totalWords"`
	Complete    bool                  `json:"complete"`
	CurrentWord *WordPrompt           `json:"currentWord,omitempty"`
	LastResult  *pronunciation.Result `json:"lastResult,omitempty"`
	Attempts    int                   `json:"attempts"`
}

// WordStats summarizes how children have done on a word across all exercises
type WordStats struct {
	Word            string  `json:"word"`
	Attempts        int     `json:"attempts"`
	Passes          int     `json:"passes"`
	AverageAccuracy float64 `json:"averageAccuracy"`
}

// WordPrompt is a word target together with its optional audio prompt
type WordPrompt struct {
	pronunciation.WordTarget
	AudioURL string `json:"audioUrl,omitempty"`
}
