package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"readwell/internal/assessment"
	"readwell/internal/database"
	"readwell/internal/models"
	"readwell/internal/repository"
	"readwell/internal/security"
	"readwell/internal/submission"
	"readwell/internal/validation"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrNotComplete        = errors.New("assessment is not complete")
)

// ReportMailer sends completed results to the parent
type ReportMailer interface {
	SendAssessmentReport(ctx context.Context, toEmail, childName string, result assessment.Result, shareURL string) error
}

// ResultSubmitter forwards completed results to an external endpoint
type ResultSubmitter interface {
	Enabled() bool
	Submit(ctx context.Context, payload any) (submission.Receipt, error)
}

// ShareLink is a signed, expiring link to a completed report
type ShareLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// submissionPayload is the JSON document forwarded on completion
type submissionPayload struct {
	AssessmentID    string              `json:"assessment_id"`
	ChildName       string              `json:"child_name"`
	OverallScore    float64             `json:"overall_score"`
	CategoryScores  map[string]float64  `json:"category_scores"`
	SeverityLevel   string              `json:"severity_level"`
	Recommendations map[string][]string `json:"recommendations"`
	CompletedAt     time.Time           `json:"completed_at"`
}

// AssessmentService handles questionnaire business logic
type AssessmentService struct {
	db        *database.DB
	repo      *repository.AssessmentRepository
	shares    *security.ShareTokens
	mailer    ReportMailer
	submitter ResultSubmitter
	baseURL   string
}

// NewAssessmentService creates a new assessment service. mailer and
// submitter may be nil.
func NewAssessmentService(db *database.DB, shares *security.ShareTokens, mailer ReportMailer, submitter ResultSubmitter, baseURL string) *AssessmentService {
	return &AssessmentService{
		db:        db,
		repo:      repository.NewAssessmentRepository(db),
		shares:    shares,
		mailer:    mailer,
		submitter: submitter,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Start creates a new assessment positioned at the first question
func (s *AssessmentService) Start(childName, parentEmail string) (*models.AssessmentView, error) {
	if err := validation.ValidateChildName(childName); err != nil {
		return nil, err
	}
	parentEmail = strings.TrimSpace(parentEmail)
	if parentEmail != "" {
		if err := validation.ValidateEmail(parentEmail); err != nil {
			return nil, err
		}
	}

	a, err := s.repo.Create(uuid.NewString(), strings.TrimSpace(childName), parentEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	log.Info().Str("assessment_id", a.ID).Msg("Assessment started")
	return buildView(a, assessment.NewAggregator()), nil
}

// Get loads an assessment and rescores its stored responses
func (s *AssessmentService) Get(id string) (*models.AssessmentView, error) {
	a, agg, err := load(s.repo, id)
	if err != nil {
		return nil, err
	}
	return buildView(a, agg), nil
}

// RecordResponse stores one answer and returns the rescored assessment.
// The first time every question has been answered the final score is
// persisted and the report is mailed and submitted.
func (s *AssessmentService) RecordResponse(ctx context.Context, id, questionID string, value int) (*models.AssessmentView, error) {
	var view *models.AssessmentView
	var completed bool

	err := s.db.WithTx(func(tx *database.Tx) error {
		repo := repository.NewAssessmentRepository(tx)

		// answers racing to complete the same assessment must each see the other's row
		found, err := repo.Lock(id)
		if err != nil {
			return fmt.Errorf("failed to lock assessment: %w", err)
		}
		if !found {
			return ErrAssessmentNotFound
		}

		a, agg, err := load(repo, id)
		if err != nil {
			return err
		}
		wasComplete := agg.State() == assessment.StateComplete

		result, err := agg.RecordResponse(questionID, value)
		if err != nil {
			return err
		}
		if err := repo.UpsertResponse(id, questionID, value); err != nil {
			return fmt.Errorf("failed to save response: %w", err)
		}

		if agg.State() == assessment.StateComplete {
			if err := repo.MarkComplete(id, result.OverallScore, result.SeverityLevel); err != nil {
				return fmt.Errorf("failed to complete assessment: %w", err)
			}
			completed = !wasComplete
		}

		a, err = repo.GetByID(id)
		if err != nil {
			return err
		}
		view = buildView(a, agg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		log.Info().Str("assessment_id", id).
			Float64("overall_score", view.Result.OverallScore).
			Str("severity", string(view.Result.SeverityLevel)).
			Msg("Assessment complete")
		s.onComplete(ctx, view)
	}
	return view, nil
}

// Reset clears every stored answer
func (s *AssessmentService) Reset(id string) (*models.AssessmentView, error) {
	err := s.db.WithTx(func(tx *database.Tx) error {
		repo := repository.NewAssessmentRepository(tx)
		found, err := repo.Lock(id)
		if err != nil {
			return fmt.Errorf("failed to lock assessment: %w", err)
		}
		if !found {
			return ErrAssessmentNotFound
		}
		return repo.ClearResponses(id)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Share issues a signed link to a completed assessment's report
func (s *AssessmentService) Share(id string) (*ShareLink, error) {
	view, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if view.State != assessment.StateComplete {
		return nil, ErrNotComplete
	}

	token, expiresAt, err := s.shares.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("failed to issue share token: %w", err)
	}
	return &ShareLink{Token: token, URL: s.shareURL(token), ExpiresAt: expiresAt}, nil
}

// ResolveShare returns the report behind a share token
func (s *AssessmentService) ResolveShare(token string) (*models.AssessmentView, error) {
	id, err := s.shares.Verify(token)
	if err != nil {
		return nil, err
	}
	view, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if view.State != assessment.StateComplete {
		// reset after the link was issued
		return nil, ErrNotComplete
	}
	return view, nil
}

// Score computes a result for a full set of answers without storing anything
func (s *AssessmentService) Score(responses assessment.Responses) (assessment.Result, error) {
	agg, err := assessment.Restore(responses)
	if err != nil {
		return assessment.Result{}, err
	}
	return agg.Result(), nil
}

func (s *AssessmentService) shareURL(token string) string {
	return s.baseURL + "/api/reports/" + token
}

func (s *AssessmentService) onComplete(ctx context.Context, view *models.AssessmentView) {
	a, err := s.repo.GetByID(view.ID)
	if err != nil || a == nil {
		log.Error().Err(err).Str("assessment_id", view.ID).Msg("Failed to reload completed assessment")
		return
	}

	if s.mailer != nil && a.ParentEmail != "" {
		link := ""
		if share, err := s.Share(a.ID); err == nil {
			link = share.URL
		} else {
			log.Warn().Err(err).Str("assessment_id", a.ID).Msg("Failed to create share link for report email")
		}
		if err := s.mailer.SendAssessmentReport(ctx, a.ParentEmail, a.ChildName, view.Result, link); err != nil {
			log.Error().Err(err).Str("assessment_id", a.ID).Msg("Failed to send assessment report")
		}
	}

	if s.submitter != nil && s.submitter.Enabled() {
		completedAt := time.Now()
		if a.CompletedAt != nil {
			completedAt = *a.CompletedAt
		}
		receipt, err := s.submitter.Submit(ctx, submissionPayload{
			AssessmentID:    a.ID,
			ChildName:       a.ChildName,
			OverallScore:    view.Result.OverallScore,
			CategoryScores:  view.Result.CategoryScores,
			SeverityLevel:   string(view.Result.SeverityLevel),
			Recommendations: view.Result.Recommendations,
			CompletedAt:     completedAt,
		})
		if err != nil {
			log.Error().Err(err).Str("assessment_id", a.ID).Msg("Failed to submit assessment result")
			return
		}
		log.Info().Str("assessment_id", a.ID).Str("user_id", receipt.UserID).Msg("Assessment result submitted")
	}
}

func load(repo *repository.AssessmentRepository, id string) (*models.Assessment, *assessment.Aggregator, error) {
	a, err := repo.GetByID(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	if a == nil {
		return nil, nil, ErrAssessmentNotFound
	}

	responses, err := repo.GetResponses(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load responses: %w", err)
	}
	agg, err := assessment.Restore(responses)
	if err != nil {
		return nil, nil, fmt.Errorf("stored responses for %s are invalid: %w", id, err)
	}
	return a, agg, nil
}

func buildView(a *models.Assessment, agg *assessment.Aggregator) *models.AssessmentView {
	view := &models.AssessmentView{
		ID:             a.ID,
		ChildName:      a.ChildName,
		State:          agg.State(),
		Answered:       agg.Answered(),
		TotalQuestions: len(assessment.Questions()),
		Responses:      agg.Responses(),
		Result:         agg.Result(),
		CreatedAt:      a.CreatedAt,
		CompletedAt:    a.CompletedAt,
	}
	if q, ok := agg.CurrentQuestion(); ok {
		view.CurrentQuestion = &q
	}
	return view
}
