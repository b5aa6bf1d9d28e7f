package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"readwell/internal/database"
	"readwell/internal/models"
	"readwell/internal/repository"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string             `json:"version"`
	ExportedAt   time.Time          `json:"exported_at"`
	DatabaseType string             `json:"database_type"`
	Assessments  []AssessmentBackup `json:"assessments"`
	Exercises    []ExerciseBackup   `json:"exercises"`
}

// AssessmentBackup represents an assessment and its answers
type AssessmentBackup struct {
	ID           string           `json:"id"`
	ChildName    string           `json:"child_name"`
	ParentEmail  string           `json:"parent_email"`
	Status       string           `json:"status"`
	OverallScore *float64         `json:"overall_score"`
	Severity     *string          `json:"severity"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	CompletedAt  *time.Time       `json:"completed_at"`
	Responses    []ResponseBackup `json:"responses"`
}

// ResponseBackup represents one stored answer
type ResponseBackup struct {
	QuestionID string    `json:"question_id"`
	Answer     int       `json:"answer"`
	AnsweredAt time.Time `json:"answered_at"`
}

// ExerciseBackup represents a pronunciation exercise and its attempts
type ExerciseBackup struct {
	ID           string          `json:"id"`
	ChildName    string          `json:"child_name"`
	CurrentIndex int             `json:"current_index"`
	TotalWords   int             `json:"total_words"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	Attempts     []AttemptBackup `json:"attempts"`
}

// AttemptBackup represents one scored utterance
type AttemptBackup struct {
	Word        string    `json:"word"`
	SpokenText  string    `json:"spoken_text"`
	Confidence  float64   `json:"confidence"`
	Accuracy    float64   `json:"accuracy"`
	Passed      bool      `json:"passed"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// ListAssessments returns the most recently started assessments
func (s *BackupService) ListAssessments(limit int) ([]models.Assessment, error) {
	if limit <= 0 {
		limit = 20
	}
	return repository.NewAssessmentRepository(s.db).ListRecent(limit)
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Info().Msg("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(file)
	if err != nil {
		return err
	}

	log.Info().Str("path", outputPath).
		Int("assessments", len(backup.Assessments)).
		Int("exercises", len(backup.Exercises)).
		Msg("Database exported successfully")
	return nil
}

// ExportToWriter writes the backup as indented JSON to w
func (s *BackupService) ExportToWriter(w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportAssessments(backup); err != nil {
		return nil, fmt.Errorf("failed to export assessments: %w", err)
	}
	if err := s.exportExercises(backup); err != nil {
		return nil, fmt.Errorf("failed to export exercises: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	log.Info().Str("path", inputPath).Msg("Starting database import...")
	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader. The import
// runs in a single transaction.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Info().Str("version", backup.Version).Time("exported_at", backup.ExportedAt).Msg("Importing backup")

	err := s.db.WithTx(func(tx *database.Tx) error {
		if err := importAssessments(tx, backup.Assessments); err != nil {
			return fmt.Errorf("failed to import assessments: %w", err)
		}
		if err := importExercises(tx, backup.Exercises); err != nil {
			return fmt.Errorf("failed to import exercises: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Msg("Database import completed successfully")
	return nil
}

// Clear deletes every row, children first
func (s *BackupService) Clear() error {
	tables := []string{"pronunciation_attempts", "pronunciation_exercises", "assessment_responses", "assessments"}
	return s.db.WithTx(func(tx *database.Tx) error {
		for _, table := range tables {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *BackupService) exportAssessments(backup *BackupData) error {
	query := `
		SELECT id, child_name, parent_email, status, overall_score, severity, created_at, updated_at, completed_at
		FROM assessments ORDER BY created_at, id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}

	for rows.Next() {
		var a AssessmentBackup
		var overall sql.NullFloat64
		var severity sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.ChildName, &a.ParentEmail, &a.Status, &overall, &severity, &a.CreatedAt, &a.UpdatedAt, &completedAt); err != nil {
			rows.Close()
			return err
		}
		if overall.Valid {
			a.OverallScore = &overall.Float64
		}
		if severity.Valid {
			a.Severity = &severity.String
		}
		if completedAt.Valid {
			a.CompletedAt = &completedAt.Time
		}
		backup.Assessments = append(backup.Assessments, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range backup.Assessments {
		a := &backup.Assessments[i]
		responseRows, err := s.db.Query("SELECT question_id, answer, answered_at FROM assessment_responses WHERE assessment_id = ? ORDER BY question_id", a.ID)
		if err != nil {
			return err
		}
		for responseRows.Next() {
			var r ResponseBackup
			if err := responseRows.Scan(&r.QuestionID, &r.Answer, &r.AnsweredAt); err != nil {
				responseRows.Close()
				return err
			}
			a.Responses = append(a.Responses, r)
		}
		responseRows.Close()
		if err := responseRows.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *BackupService) exportExercises(backup *BackupData) error {
	query := `
		SELECT id, child_name, current_index, total_words, created_at, updated_at, completed_at
		FROM pronunciation_exercises ORDER BY created_at, id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}

	for rows.Next() {
		var e ExerciseBackup
		var completedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.ChildName, &e.CurrentIndex, &e.TotalWords, &e.CreatedAt, &e.UpdatedAt, &completedAt); err != nil {
			rows.Close()
			return err
		}
		if completedAt.Valid {
			e.CompletedAt = &completedAt.Time
		}
		backup.Exercises = append(backup.Exercises, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range backup.Exercises {
		e := &backup.Exercises[i]
		attemptRows, err := s.db.Query("SELECT word, spoken_text, confidence, accuracy, passed, attempted_at FROM pronunciation_attempts WHERE exercise_id = ? ORDER BY id", e.ID)
		if err != nil {
			return err
		}
		for attemptRows.Next() {
			var a AttemptBackup
			if err := attemptRows.Scan(&a.Word, &a.SpokenText, &a.Confidence, &a.Accuracy, &a.Passed, &a.AttemptedAt); err != nil {
				attemptRows.Close()
				return err
			}
			e.Attempts = append(e.Attempts, a)
		}
		attemptRows.Close()
		if err := attemptRows.Err(); err != nil {
			return err
		}
	}
	return nil
}

func importAssessments(tx *database.Tx, assessments []AssessmentBackup) error {
	log.Info().Int("count", len(assessments)).Msg("Importing assessments...")
	for _, a := range assessments {
		query := `
			INSERT INTO assessments (id, child_name, parent_email, status, overall_score, severity, created_at, updated_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query, a.ID, a.ChildName, a.ParentEmail, a.Status, a.OverallScore, a.Severity, a.CreatedAt, a.UpdatedAt, a.CompletedAt)
		if err != nil {
			return fmt.Errorf("failed to import assessment %s: %w", a.ID, err)
		}

		for _, r := range a.Responses {
			responseQuery := "INSERT INTO assessment_responses (assessment_id, question_id, answer, answered_at) VALUES (?, ?, ?, ?)"
			if _, err := tx.Exec(responseQuery, a.ID, r.QuestionID, r.Answer, r.AnsweredAt); err != nil {
				return fmt.Errorf("failed to import response %s for assessment %s: %w", r.QuestionID, a.ID, err)
			}
		}
	}
	return nil
}

func importExercises(tx *database.Tx, exercises []ExerciseBackup) error {
	log.Info().Int("count", len(exercises)).Msg("Importing exercises...")
	for _, e := range exercises {
		query := `
			INSERT INTO pronunciation_exercises (id, child_name, current_index, total_words, created_at, updated_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query, e.ID, e.ChildName, e.CurrentIndex, e.TotalWords, e.CreatedAt, e.UpdatedAt, e.CompletedAt)
		if err != nil {
			return fmt.Errorf("failed to import exercise %s: %w", e.ID, err)
		}

		for _, a := range e.Attempts {
			attemptQuery := `
				INSERT INTO pronunciation_attempts (exercise_id, word, spoken_text, confidence, accuracy, passed, attempted_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`
			if _, err := tx.Exec(attemptQuery, e.ID, a.Word, a.SpokenText, a.Confidence, a.Accuracy, a.Passed, a.AttemptedAt); err != nil {
				return fmt.Errorf("failed to import attempt for exercise %s: %w", e.ID, err)
			}
		}
	}
	return nil
}
