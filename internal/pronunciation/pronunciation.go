// Package pronunciation scores spoken attempts at reading a target word aloud.
package pronunciation

import (
	"errors"
	"fmt"
	"strings"

	"readwell/internal/similarity"
)

const (
	// SimilarityWeight and ConfidenceWeight blend the transcript match with
	// the recognizer's own confidence.
	SimilarityWeight = 0.7
	ConfidenceWeight = 0.3

	// PassThreshold is the minimum accuracy that counts as a correct reading.
	PassThreshold = 0.7
)

var (
	// ErrNoSpeech means the recognizer produced no transcript. Callers treat
	// it as "no attempt" rather than a failure.
	ErrNoSpeech = errors.New("no speech recognized")

	// ErrInvalidConfidence means the recognizer confidence was outside [0,1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
)

// WordTarget is a word the child is asked to say, with a pronunciation hint
// shown after each attempt.
type WordTarget struct {
	Word          string `json:"word"`
	Pronunciation string `json:"pronunciation"`
}

// Attempt is one utterance as reported by the speech recognizer.
type Attempt struct {
	SpokenText string  `json:"spokenText"`
	Confidence float64 `json:"confidence"`
}

// Result is the outcome of scoring an Attempt.
type Result struct {
	Accuracy              float64 `json:"accuracy"`
	SpokenText            string  `json:"spokenText"`
	ExpectedPronunciation string  `json:"expectedPronunciation"`
	Passed                bool    `json:"passed"`
}

// Score compares an attempt against a target word.
func Score(attempt Attempt, target WordTarget) (Result, error) {
	if strings.TrimSpace(attempt.SpokenText) == "" {
		return Result{}, ErrNoSpeech
	}
	if attempt.Confidence < 0 || attempt.Confidence > 1 {
		return Result{}, fmt.Errorf("%w: got %v", ErrInvalidConfidence, attempt.Confidence)
	}

	accuracy := SimilarityWeight*similarity.Similarity(attempt.SpokenText, target.Word) +
		ConfidenceWeight*attempt.Confidence

	return Result{
		Accuracy:              accuracy,
		SpokenText:            attempt.SpokenText,
		ExpectedPronunciation: target.Pronunciation,
		Passed:                accuracy >= PassThreshold,
	}, nil
}
