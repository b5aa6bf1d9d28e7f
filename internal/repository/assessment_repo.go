package repository

import (
	"database/sql"
	"time"

	"readwell/internal/assessment"
	"readwell/internal/database"
	"readwell/internal/models"
)

// AssessmentRepository handles questionnaire database operations
type AssessmentRepository struct {
	db database.DBTX
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db database.DBTX) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

const assessmentColumns = `id, child_name, parent_email, status, overall_score, severity,
		       created_at, updated_at, completed_at`

// Create inserts a new assessment in the collecting state
func (r *AssessmentRepository) Create(id, childName, parentEmail string) (*models.Assessment, error) {
	query := `
		INSERT INTO assessments (id, child_name, parent_email, status)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, childName, parentEmail, string(assessment.StateCollecting)); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves an assessment, or nil if it does not exist
func (r *AssessmentRepository) GetByID(id string) (*models.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = ?`

	a, err := scanAssessment(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Lock takes the assessment's row write lock for the rest of the transaction
// so concurrent writers to one assessment run one after another. It reports
// false when the assessment does not exist.
func (r *AssessmentRepository) Lock(id string) (bool, error) {
	res, err := r.db.Exec("UPDATE assessments SET updated_at = ? WHERE id = ?", time.Now(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListRecent returns the most recently created assessments
func (r *AssessmentRepository) ListRecent(limit int) ([]models.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpsertResponse stores an answer, replacing any earlier answer to the same question
func (r *AssessmentRepository) UpsertResponse(assessmentID, questionID string, answer int) error {
	if _, err := r.db.Exec(r.db.GetDialect().UpsertResponseQuery(), assessmentID, questionID, answer); err != nil {
		return err
	}
	_, err := r.db.Exec("UPDATE assessments SET updated_at = ? WHERE id = ?", time.Now(), assessmentID)
	return err
}

// GetResponses returns every stored answer for an assessment
func (r *AssessmentRepository) GetResponses(assessmentID string) (assessment.Responses, error) {
	rows, err := r.db.Query("SELECT question_id, answer FROM assessment_responses WHERE assessment_id = ?", assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := assessment.Responses{}
	for rows.Next() {
		var questionID string
		var answer int
		if err := rows.Scan(&questionID, &answer); err != nil {
			return nil, err
		}
		responses[questionID] = answer
	}
	return responses, rows.Err()
}

// ClearResponses deletes every answer and returns the assessment to collecting
func (r *AssessmentRepository) ClearResponses(assessmentID string) error {
	if _, err := r.db.Exec("DELETE FROM assessment_responses WHERE assessment_id = ?", assessmentID); err != nil {
		return err
	}
	return r.Reopen(assessmentID)
}

// MarkComplete records the final overall score and severity
func (r *AssessmentRepository) MarkComplete(assessmentID string, overallScore float64, severity assessment.Severity) error {
	query := `
		UPDATE assessments
		SET status = ?, overall_score = ?, severity = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := r.db.Exec(query, string(assessment.StateComplete), overallScore, string(severity), now, now, assessmentID)
	return err
}

// Reopen returns an assessment to the collecting state and clears its final scores
func (r *AssessmentRepository) Reopen(assessmentID string) error {
	query := `
		UPDATE assessments
		SET status = ?, overall_score = NULL, severity = NULL, completed_at = NULL, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, string(assessment.StateCollecting), time.Now(), assessmentID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner) (*models.Assessment, error) {
	a := &models.Assessment{}
	var status string
	var overall sql.NullFloat64
	var severity sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.ChildName,
		&a.ParentEmail,
		&status,
		&overall,
		&severity,
		&a.CreatedAt,
		&a.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = assessment.State(status)
	if overall.Valid {
		a.OverallScore = &overall.Float64
	}
	if severity.Valid {
		a.Severity = assessment.Severity(severity.String)
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	return a, nil
}
