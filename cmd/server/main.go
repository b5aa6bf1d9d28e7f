package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"readwell/internal/audio"
	"readwell/internal/config"
	"readwell/internal/database"
	"readwell/internal/handlers"
	"readwell/internal/pronunciation"
	"readwell/internal/security"
	"readwell/internal/service"
	"readwell/internal/submission"
)

func main() {
	// Load configuration
	cfg := config.Load()
	setupLogging(cfg)

	if cfg.AppSecret == "change-me-in-production" {
		log.Warn().Msg("APP_SECRET is not set, share links are signed with the default secret")
	}

	status := handlers.NewStartupStatus(
		handlers.StepDatabase,
		handlers.StepMigrations,
		handlers.StepServices,
		handlers.StepAudio,
		handlers.StepReady,
	)

	// Initialize database with config (supports sqlite, postgres, mysql)
	status.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()
	status.CompleteStep(handlers.StepDatabase)

	log.Info().Str("type", cfg.DatabaseType).Msg("Database connection established")

	// Run migrations
	status.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	status.CompleteStep(handlers.StepMigrations)

	log.Info().Msg("Migrations completed successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	status.SetCurrentStep(handlers.StepServices)
	shares, err := security.NewShareTokens(cfg.AppSecret, cfg.ShareLinkTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to derive share link key")
	}

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize email service")
	}

	submitter := submission.NewClient(submission.Config{
		Endpoint:     cfg.SubmissionURL,
		TokenURL:     cfg.SubmissionTokenURL,
		ClientID:     cfg.SubmissionClientID,
		ClientSecret: cfg.SubmissionClientSecret,
	})
	if submitter.Enabled() {
		log.Info().Str("endpoint", cfg.SubmissionURL).Msg("Result submission enabled")
	}

	ttsService := audio.NewTTSService(filepath.Join(cfg.StaticFilesPath, "audio"), "/static/audio")

	assessmentService := service.NewAssessmentService(db, shares, emailService, submitter, cfg.AppBaseURL)
	pronunciationService := service.NewPronunciationService(db, ttsService)
	status.CompleteStep(handlers.StepServices)

	// Generate any missing audio prompts in the background
	if cfg.GenerateAudio {
		go generatePromptAudio(ctx, ttsService, status)
	} else {
		status.CompleteStep(handlers.StepAudio)
	}

	api := handlers.API{
		Assessments:   handlers.NewAssessmentHandler(assessmentService),
		Pronunciation: handlers.NewPronunciationHandler(pronunciationService),
		Health:        handlers.NewHealthHandler(status, db),
		StaticDir:     cfg.StaticFilesPath,
	}
	// RATE_LIMIT=0 disables limiting
	if cfg.RateLimit > 0 {
		limiter := security.NewRateLimiter(cfg.RateLimit, time.Minute)
		if err := limiter.TrustProxies(cfg.TrustedProxies); err != nil {
			log.Fatal().Err(err).Msg("Invalid TRUSTED_PROXIES")
		}
		api.Limiter = limiter
	}

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      api.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	if !cfg.GenerateAudio {
		status.MarkReady()
	}

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.PrettyLog {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func generatePromptAudio(ctx context.Context, tts *audio.TTSService, status *handlers.StartupStatus) {
	status.SetCurrentStep(handlers.StepAudio)

	var words []string
	for _, w := range pronunciation.Words() {
		words = append(words, w.Word)
	}

	generated, err := tts.BatchGenerateAudio(ctx, words)
	if err != nil {
		log.Warn().Err(err).Msg("Some audio prompts could not be generated")
	}
	log.Info().Int("generated", len(generated)).Int("words", len(words)).Msg("Audio prompts ready")

	status.CompleteStep(handlers.StepAudio)
	status.MarkReady()
}
