package repository

import (
	"database/sql"
	"time"

	"readwell/internal/database"
	"readwell/internal/models"
)

// PronunciationRepository handles read-aloud exercise database operations
type PronunciationRepository struct {
	db database.DBTX
}

// NewPronunciationRepository creates a new pronunciation repository
func NewPronunciationRepository(db database.DBTX) *PronunciationRepository {
	return &PronunciationRepository{db: db}
}

// CreateExercise starts a new exercise at the first word
func (r *PronunciationRepository) CreateExercise(id, childName string, totalWords int) (*models.PronunciationExercise, error) {
	query := `
		INSERT INTO pronunciation_exercises (id, child_name, total_words)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, childName, totalWords); err != nil {
		return nil, err
	}
	return r.GetExercise(id)
}

// GetExercise retrieves an exercise, or nil if it does not exist
func (r *PronunciationRepository) GetExercise(id string) (*models.PronunciationExercise, error) {
	query := `
		SELECT id, child_name, current_index, total_words, created_at, updated_at, completed_at
		FROM pronunciation_exercises
		WHERE id = ?
	`

	ex := &models.PronunciationExercise{}
	var completedAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&ex.ID,
		&ex.ChildName,
		&ex.CurrentIndex,
		&ex.TotalWords,
		&ex.CreatedAt,
		&ex.UpdatedAt,
		&completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		ex.CompletedAt = &completedAt.Time
	}
	return ex, nil
}

// UpdateProgress moves the exercise to a new word index, marking it complete when done
func (r *PronunciationRepository) UpdateProgress(id string, currentIndex int, complete bool) error {
	now := time.Now()
	var completedAt *time.Time
	if complete {
		completedAt = &now
	}

	query := `
		UPDATE pronunciation_exercises
		SET current_index = ?, updated_at = ?, completed_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, currentIndex, now, completedAt, id)
	return err
}

// RecordAttempt stores a scored attempt
func (r *PronunciationRepository) RecordAttempt(attempt models.PronunciationAttempt) (*models.PronunciationAttempt, error) {
	query := `
		INSERT INTO pronunciation_attempts (exercise_id, word, spoken_text, confidence, accuracy, passed, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now()
	}
	id, err := r.db.ExecReturningID(query,
		attempt.ExerciseID,
		attempt.Word,
		attempt.SpokenText,
		attempt.Confidence,
		attempt.Accuracy,
		attempt.Passed,
		attempt.AttemptedAt,
	)
	if err != nil {
		return nil, err
	}

	attempt.ID = id
	return &attempt, nil
}

// GetAttempts returns every attempt for an exercise, oldest first
func (r *PronunciationRepository) GetAttempts(exerciseID string) ([]models.PronunciationAttempt, error) {
	query := `
		SELECT id, exercise_id, word, spoken_text, confidence, accuracy, passed, attempted_at
		FROM pronunciation_attempts
		WHERE exercise_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.PronunciationAttempt
	for rows.Next() {
		var a models.PronunciationAttempt
		err := rows.Scan(
			&a.ID,
			&a.ExerciseID,
			&a.Word,
			&a.SpokenText,
			&a.Confidence,
			&a.Accuracy,
			&a.Passed,
			&a.AttemptedAt,
		)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

// GetWordStats summarizes attempts per word across all exercises
func (r *PronunciationRepository) GetWordStats() ([]models.WordStats, error) {
	query := `
		SELECT word,
		       COUNT(*) AS attempts,
		       SUM(CASE WHEN passed THEN 1 ELSE 0 END) AS passes,
		       AVG(accuracy) AS avg_accuracy
		FROM pronunciation_attempts
		GROUP BY word
		ORDER BY avg_accuracy ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.WordStats
	for rows.Next() {
		var s models.WordStats
		if err := rows.Scan(&s.Word, &s.Attempts, &s.Passes, &s.AverageAccuracy); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
