package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"readwell/internal/assessment"
	"readwell/internal/database"
	"readwell/internal/security"
	"readwell/internal/submission"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations("../../migrations"))
	return db
}

type sentReport struct {
	to, childName, shareURL string
	result                  assessment.Result
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentReport
}

func (m *fakeMailer) SendAssessmentReport(ctx context.Context, toEmail, childName string, result assessment.Result, shareURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentReport{to: toEmail, childName: childName, shareURL: shareURL, result: result})
	return nil
}

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []any
	err      error
}

func (s *fakeSubmitter) Enabled() bool { return true }

func (s *fakeSubmitter) Submit(ctx context.Context, payload any) (submission.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return submission.Receipt{}, s.err
	}
	return submission.Receipt{UserID: "42"}, nil
}

func newTestAssessmentService(t *testing.T) (*AssessmentService, *fakeMailer, *fakeSubmitter) {
	t.Helper()
	db := openTestDB(t)

	shares, err := security.NewShareTokens("test-secret", time.Hour)
	require.NoError(t, err)

	mailer := &fakeMailer{}
	submitter := &fakeSubmitter{}
	return NewAssessmentService(db, shares, mailer, submitter, "https://readwell.example/"), mailer, submitter
}

func answerAll(t *testing.T, svc *AssessmentService, id string, value int) {
	t.Helper()
	for _, q := range assessment.Questions() {
		_, err := svc.RecordResponse(context.Background(), id, q.ID, value)
		require.NoError(t, err)
	}
}
