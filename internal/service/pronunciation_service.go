package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"readwell/internal/database"
	"readwell/internal/models"
	"readwell/internal/pronunciation"
	"readwell/internal/repository"
	"readwell/internal/validation"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrUnknownWord      = errors.New("unknown word")
)

// PromptURLer resolves the audio prompt for a word, "" when none exists
type PromptURLer interface {
	URL(word string) string
}

// PronunciationService handles read-aloud exercise business logic
type PronunciationService struct {
	db    *database.DB
	repo  *repository.PronunciationRepository
	words []pronunciation.WordTarget
	audio PromptURLer
}

// NewPronunciationService creates a new pronunciation service over the
// default word list. audio may be nil.
func NewPronunciationService(db *database.DB, audio PromptURLer) *PronunciationService {
	return &PronunciationService{
		db:    db,
		repo:  repository.NewPronunciationRepository(db),
		words: pronunciation.Words(),
		audio: audio,
	}
}

// Words lists the exercise words in order
func (s *PronunciationService) Words() []models.WordPrompt {
	prompts := make([]models.WordPrompt, len(s.words))
	for i, w := range s.words {
		prompts[i] = s.prompt(w)
	}
	return prompts
}

func (s *PronunciationService) prompt(w pronunciation.WordTarget) models.WordPrompt {
	p := models.WordPrompt{WordTarget: w}
	if s.audio != nil {
		p.AudioURL = s.audio.URL(w.Word)
	}
	return p
}

// Score scores a single attempt against a catalog word without storing it
func (s *PronunciationService) Score(word string, attempt pronunciation.Attempt) (pronunciation.Result, error) {
	target, ok := pronunciation.FindWord(word)
	if !ok {
		return pronunciation.Result{}, fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}
	return pronunciation.Score(attempt, target)
}

// StartExercise begins a new exercise at the first word
func (s *PronunciationService) StartExercise(childName string) (*models.ExerciseView, error) {
	childName = strings.TrimSpace(childName)
	if childName != "" {
		if err := validation.ValidateChildName(childName); err != nil {
			return nil, err
		}
	}

	ex, err := s.repo.CreateExercise(uuid.NewString(), childName, len(s.words))
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	log.Info().Str("exercise_id", ex.ID).Msg("Pronunciation exercise started")
	return s.buildView(ex, pronunciation.NewExercise(s.words), 0), nil
}

// GetExercise returns the current state of an exercise
func (s *PronunciationService) GetExercise(id string) (*models.ExerciseView, error) {
	ex, err := s.repo.GetExercise(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	if ex == nil {
		return nil, ErrExerciseNotFound
	}

	attempts, err := s.repo.GetAttempts(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	view := s.buildView(ex, pronunciation.ResumeExercise(s.words, ex.CurrentIndex), len(attempts))
	if n := len(attempts); n > 0 {
		last := attempts[n-1]
		view.LastResult = &pronunciation.Result{
			Accuracy:              last.Accuracy,
			SpokenText:            last.SpokenText,
			ExpectedPronunciation: pronunciationOf(last.Word),
			Passed:                last.Passed,
		}
	}
	return view, nil
}

// SubmitAttempt scores an attempt against the exercise's current word,
// stores it and advances the exercise on a pass. A blank transcript
// returns pronunciation.ErrNoSpeech and stores nothing.
func (s *PronunciationService) SubmitAttempt(id string, attempt pronunciation.Attempt) (*models.ExerciseView, error) {
	var view *models.ExerciseView

	err := s.db.WithTx(func(tx *database.Tx) error {
		repo := repository.NewPronunciationRepository(tx)

		ex, err := repo.GetExercise(id)
		if err != nil {
			return fmt.Errorf("failed to load exercise: %w", err)
		}
		if ex == nil {
			return ErrExerciseNotFound
		}

		exercise := pronunciation.ResumeExercise(s.words, ex.CurrentIndex)
		target, _ := exercise.Current()
		result, err := exercise.Submit(attempt)
		if err != nil {
			return err
		}

		_, err = repo.RecordAttempt(models.PronunciationAttempt{
			ExerciseID: id,
			Word:       target.Word,
			SpokenText: result.SpokenText,
			Confidence: attempt.Confidence,
			Accuracy:   result.Accuracy,
			Passed:     result.Passed,
		})
		if err != nil {
			return fmt.Errorf("failed to save attempt: %w", err)
		}

		if result.Passed {
			if err := repo.UpdateProgress(id, exercise.Index(), exercise.Complete()); err != nil {
				return fmt.Errorf("failed to update progress: %w", err)
			}
		}

		attempts, err := repo.GetAttempts(id)
		if err != nil {
			return fmt.Errorf("failed to load attempts: %w", err)
		}
		if ex, err = repo.GetExercise(id); err != nil {
			return err
		}

		view = s.buildView(ex, exercise, len(attempts))
		view.LastResult = &result
		return nil
	})
	if err != nil {
		return nil, err
	}

	if view.Complete {
		log.Info().Str("exercise_id", id).Int("attempts", view.Attempts).Msg("Pronunciation exercise complete")
	}
	return view, nil
}

// WordStats summarizes attempts per word, hardest first
func (s *PronunciationService) WordStats() ([]models.WordStats, error) {
	return s.repo.GetWordStats()
}

func (s *PronunciationService) buildView(ex *models.PronunciationExercise, exercise *pronunciation.Exercise, attempts int) *models.ExerciseView {
	view := &models.ExerciseView{
		ID:         ex.ID,
		ChildName:  ex.ChildName,
		Index:      exercise.Index(),
		TotalWords: exercise.Total(),
		Complete:   exercise.Complete(),
		Attempts:   attempts,
	}
	if w, ok := exercise.Current(); ok {
		p := s.prompt(w)
		view.CurrentWord = &p
	}
	return view
}

func pronunciationOf(word string) string {
	if w, ok := pronunciation.FindWord(word); ok {
		return w.Pronunciation
	}
	return ""
}
