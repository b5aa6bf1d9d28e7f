package handlers

import (
	"net/http"

	"readwell/internal/security"
)

// API bundles the handlers served by the HTTP server
type API struct {
	Assessments   *AssessmentHandler
	Pronunciation *PronunciationHandler
	Health        *HealthHandler
	Limiter       *security.RateLimiter
	StaticDir     string
}

// Routes builds the server's handler, wrapped with recovery and request logging
func (a API) Routes() http.Handler {
	limit := func(h http.HandlerFunc) http.HandlerFunc { return h }
	if a.Limiter != nil {
		limit = a.Limiter.Middleware
	}

	mux := http.NewServeMux()

	if a.StaticDir != "" {
		fs := http.FileServer(http.Dir(a.StaticDir))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	}

	mux.HandleFunc("GET /healthz", a.Health.Health)

	// Parent questionnaire
	mux.HandleFunc("GET /api/questions", a.Assessments.Questions)
	mux.HandleFunc("POST /api/assessments", limit(a.Assessments.Start))
	mux.HandleFunc("POST /api/assessments/score", limit(a.Assessments.Score))
	mux.HandleFunc("GET /api/assessments/{id}", a.Assessments.Get)
	mux.HandleFunc("PUT /api/assessments/{id}/responses/{questionId}", limit(a.Assessments.RecordResponse))
	mux.HandleFunc("POST /api/assessments/{id}/reset", limit(a.Assessments.Reset))
	mux.HandleFunc("POST /api/assessments/{id}/share", limit(a.Assessments.Share))
	mux.HandleFunc("GET /api/reports/{token}", a.Assessments.Report)

	// Read-aloud exercises
	mux.HandleFunc("GET /api/pronunciation/words", a.Pronunciation.Words)
	mux.HandleFunc("GET /api/pronunciation/stats", a.Pronunciation.WordStats)
	mux.HandleFunc("POST /api/pronunciation/score", limit(a.Pronunciation.Score))
	mux.HandleFunc("POST /api/pronunciation/exercises", limit(a.Pronunciation.StartExercise))
	mux.HandleFunc("GET /api/pronunciation/exercises/{id}", a.Pronunciation.GetExercise)
	mux.HandleFunc("POST /api/pronunciation/exercises/{id}/attempts", limit(a.Pronunciation.SubmitAttempt))

	return Logging(Recover(mux))
}
