package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readwell/internal/assessment"
	"readwell/internal/database"
	"readwell/internal/models"
	"readwell/internal/security"
	"readwell/internal/service"
)

func newTestServer(t *testing.T, limiter *security.RateLimiter) *httptest.Server {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	original := log.Logger
	log.Logger = zerolog.Nop()
	t.Cleanup(func() { log.Logger = original })

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations("../../migrations"))

	shares, err := security.NewShareTokens("test-secret", time.Hour)
	require.NoError(t, err)

	status := NewStartupStatus(StepDatabase, StepReady)
	status.MarkReady()

	api := API{
		Assessments:   NewAssessmentHandler(service.NewAssessmentService(db, shares, nil, nil, "http://localhost")),
		Pronunciation: NewPronunciationHandler(service.NewPronunciationService(db, nil)),
		Health:        NewHealthHandler(status, db),
		Limiter:       limiter,
	}

	srv := httptest.NewServer(api.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestQuestionnaireFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	var catalog catalogResponse
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/questions", nil, &catalog))
	assert.Len(t, catalog.Questions, 18)
	assert.Len(t, catalog.Categories, 6)
	assert.Len(t, catalog.Options, 5)

	var started models.AssessmentView
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/api/assessments",
		map[string]string{"childName": "Sam"}, &started))
	base := srv.URL + "/api/assessments/" + started.ID

	var errBody errorResponse
	assert.Equal(t, http.StatusConflict, do(t, http.MethodPost, base+"/share", nil, &errBody))

	for _, q := range catalog.Questions {
		var view models.AssessmentView
		require.Equal(t, http.StatusOK, do(t, http.MethodPut, base+"/responses/"+q.ID, map[string]int{"value": 100}, &view))
	}

	var done models.AssessmentView
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, base, nil, &done))
	assert.Equal(t, assessment.StateComplete, done.State)
	assert.Equal(t, assessment.SeverityStrong, done.Result.SeverityLevel)
	assert.Len(t, done.Result.Recommendations["Spelling"], 3)

	var link service.ShareLink
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, base+"/share", nil, &link))

	var report models.AssessmentView
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/reports/"+link.Token, nil, &report))
	assert.Equal(t, started.ID, report.ID)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/api/reports/garbage", nil, &errBody))
	assert.Equal(t, ErrReportNotFound, errBody.Error)

	var reset models.AssessmentView
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, base+"/reset", nil, &reset))
	assert.Equal(t, 0, reset.Answered)
}

func TestQuestionnaireErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, srv.URL+"/api/assessments",
		map[string]string{"childName": ""}, &errBody))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/api/assessments/nope", nil, &errBody))

	var started models.AssessmentView
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/api/assessments",
		map[string]string{"childName": "Sam"}, &started))
	base := srv.URL + "/api/assessments/" + started.ID

	tests := []struct {
		name     string
		question string
		body     any
		status   int
	}{
		{"unknown question", "zz1", map[string]int{"value": 50}, http.StatusBadRequest},
		{"value off the scale", "pa1", map[string]int{"value": 60}, http.StatusBadRequest},
		{"missing value", "pa1", map[string]string{}, http.StatusBadRequest},
		{"unknown field", "pa1", map[string]int{"score": 50}, http.StatusBadRequest},
		{"valid", "pa1", map[string]int{"value": 50}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out json.RawMessage
			assert.Equal(t, tt.status, do(t, http.MethodPut, base+"/responses/"+tt.question, tt.body, &out))
		})
	}
}

func TestStatelessScore(t *testing.T) {
	srv := newTestServer(t, nil)

	var result assessment.Result
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/assessments/score",
		map[string]any{"responses": map[string]int{"pa1": 100, "vp1": 0}}, &result))
	assert.InDelta(t, 50.0, result.OverallScore, 1e-9)
	assert.Equal(t, assessment.SeverityModerate, result.SeverityLevel)
	assert.Equal(t, []string{assessment.GenericEncouragement}, result.Recommendations["Visual Processing"])
}

func TestPronunciationEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	var words []models.WordPrompt
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/pronunciation/words", nil, &words))
	require.NotEmpty(t, words)

	var scored map[string]any
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/pronunciation/score",
		map[string]any{"word": "cat", "spokenText": "cot", "confidence": 1.0}, &scored))
	assert.Equal(t, false, scored["passed"])

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodPost, srv.URL+"/api/pronunciation/score",
		map[string]any{"word": "cat", "spokenText": "", "confidence": 0.0}, nil))

	var errBody errorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, srv.URL+"/api/pronunciation/score",
		map[string]any{"word": "cat", "spokenText": "cat", "confidence": 1.5}, &errBody))

	var ex models.ExerciseView
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/api/pronunciation/exercises",
		map[string]string{"childName": "Sam"}, &ex))
	attempts := srv.URL + "/api/pronunciation/exercises/" + ex.ID + "/attempts"

	var after models.ExerciseView
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, attempts,
		map[string]any{"spokenText": "cat", "confidence": 0.9}, &after))
	assert.Equal(t, 1, after.Index)
	require.NotNil(t, after.LastResult)
	assert.True(t, after.LastResult.Passed)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodPost, attempts,
		map[string]any{"spokenText": " ", "confidence": 0.0}, nil))

	var got models.ExerciseView
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/pronunciation/exercises/"+ex.ID, nil, &got))
	assert.Equal(t, 1, got.Attempts)

	var stats []models.WordStats
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/pronunciation/stats", nil, &stats))
	assert.Len(t, stats, 1)
}

func TestHealthAndRateLimit(t *testing.T) {
	srv := newTestServer(t, security.NewRateLimiter(1, time.Minute))

	var health healthResponse
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/healthz", nil, &health))
	assert.True(t, health.Ready)
	assert.Equal(t, "ok", health.Database)

	var out json.RawMessage
	assert.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/api/assessments",
		map[string]string{"childName": "Sam"}, &out))
	assert.Equal(t, http.StatusTooManyRequests, do(t, http.MethodPost, srv.URL+"/api/assessments",
		map[string]string{"childName": "Sam"}, nil))
}

func TestHealthWhileStarting(t *testing.T) {
	status := NewStartupStatus(StepDatabase, StepMigrations)
	status.CompleteStep(StepDatabase)

	h := NewHealthHandler(status, pingFunc(func() error { return nil }))
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "starting", resp.Status)
	assert.Equal(t, 50, resp.Progress)
}

func TestHealthHidesDatabaseError(t *testing.T) {
	status := NewStartupStatus(StepDatabase)
	status.CompleteStep(StepDatabase)
	status.MarkReady()

	h := NewHealthHandler(status, pingFunc(func() error {
		return errors.New("dial tcp 10.1.2.3:5432: connect: connection refused")
	}))
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.1.2.3")
	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "unavailable", resp.Database)
}
