package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Database
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	StaticFilesPath string
	GenerateAudio   bool

	// Signing and links
	AppSecret    string
	AppBaseURL   string
	ShareLinkTTL time.Duration

	// Report email (Amazon SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// Remote result submission
	SubmissionURL          string
	SubmissionTokenURL     string
	SubmissionClientID     string
	SubmissionClientSecret string

	RateLimit      int
	TrustedProxies []string
	PrettyLog      bool
	Debug          bool
}

// Load reads configuration from the environment, after loading a .env file
// if one is present, with sensible defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	return &Config{
		ServerPort:             getEnv("PORT", "8080"),
		DatabaseType:           getEnv("DB_TYPE", "sqlite"),
		DatabasePath:           getEnv("DB_PATH", "./readwell.db"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		MigrationsPath:         getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath:        getEnv("STATIC_PATH", "./static"),
		GenerateAudio:          getEnvBool("GENERATE_AUDIO", false),
		AppSecret:              getEnv("APP_SECRET", "change-me-in-production"),
		AppBaseURL:             getEnv("APP_BASE_URL", "http://localhost:8080"),
		ShareLinkTTL:           getEnvDuration("SHARE_LINK_TTL", 7*24*time.Hour),
		AWSRegion:              getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:           getEnv("SES_FROM_EMAIL", ""),
		SESFromName:            getEnv("SES_FROM_NAME", "ReadWell"),
		SubmissionURL:          getEnv("SUBMISSION_URL", ""),
		SubmissionTokenURL:     getEnv("SUBMISSION_TOKEN_URL", ""),
		SubmissionClientID:     getEnv("SUBMISSION_CLIENT_ID", ""),
		SubmissionClientSecret: getEnv("SUBMISSION_CLIENT_SECRET", ""),
		RateLimit:              getEnvInt("RATE_LIMIT", 60),
		TrustedProxies:         getEnvList("TRUSTED_PROXIES"),
		PrettyLog:              getEnvBool("PRETTY_LOG", false),
		Debug:                  getEnvBool("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid boolean, using default")
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}
