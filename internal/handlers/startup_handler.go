package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Startup step names
const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepServices   = "Initializing services"
	StepAudio      = "Generating audio files"
	StepReady      = "Server ready"
)

// StartupStatus tracks the initialization progress
type StartupStatus struct {
	mu       sync.RWMutex
	ready    bool
	current  string
	progress int
	steps    []StartupStep
}

type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// NewStartupStatus creates a status tracker with the given steps pending
func NewStartupStatus(steps ...string) *StartupStatus {
	s := &StartupStatus{current: "Initializing..."}
	for _, name := range steps {
		s.steps = append(s.steps, StartupStep{Name: name})
	}
	return s
}

// SetCurrentStep updates the current initialization step
func (s *StartupStatus) SetCurrentStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = step
}

// CompleteStep marks a step as completed and updates progress
func (s *StartupStatus) CompleteStep(stepName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed := 0
	for i := range s.steps {
		if s.steps[i].Name == stepName {
			s.steps[i].Completed = true
		}
		if s.steps[i].Completed {
			completed++
		}
	}
	if len(s.steps) > 0 {
		s.progress = (completed * 100) / len(s.steps)
	}
}

// MarkReady marks the server as fully initialized
func (s *StartupStatus) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.current = StepReady
	s.progress = 100
	for i := range s.steps {
		s.steps[i].Completed = true
	}
}

// IsReady returns whether the server is fully initialized
func (s *StartupStatus) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and startup progress
type HealthHandler struct {
	status *StartupStatus
	db     Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(status *StartupStatus, db Pinger) *HealthHandler {
	return &HealthHandler{status: status, db: db}
}

type healthResponse struct {
	Status   string        `json:"status"`
	Ready    bool          `json:"ready"`
	Current  string        `json:"current"`
	Progress int           `json:"progress"`
	Steps    []StartupStep `json:"steps"`
	Database string        `json:"database"`
}

// Health reports 200 once startup finished and the database answers a ping
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.status.mu.RLock()
	resp := healthResponse{
		Status:   "ok",
		Ready:    h.status.ready,
		Current:  h.status.current,
		Progress: h.status.progress,
		Steps:    append([]StartupStep(nil), h.status.steps...),
		Database: "ok",
	}
	h.status.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check database ping failed")
		resp.Database = "unavailable"
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	} else if !resp.Ready {
		resp.Status = "starting"
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}
