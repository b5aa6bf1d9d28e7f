package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultEndpoint is Google Translate's text-to-speech endpoint
const DefaultEndpoint = "https://translate.google.com/translate_tts"

const ttsRequestTimeout = 10 * time.Second

// TTSService renders word prompts to MP3 files in a static directory
type TTSService struct {
	audioDir  string
	urlPrefix string
	endpoint  string
	client    *http.Client
}

// NewTTSService creates a new TTS service writing into audioDir. Files are
// addressed by clients under urlPrefix.
func NewTTSService(audioDir, urlPrefix string) *TTSService {
	return &TTSService{
		audioDir:  audioDir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		endpoint:  DefaultEndpoint,
		client:    &http.Client{Timeout: ttsRequestTimeout},
	}
}

// WithEndpoint points the service at a different TTS endpoint
func (s *TTSService) WithEndpoint(endpoint string) *TTSService {
	s.endpoint = endpoint
	return s
}

// Filename is the file a word's prompt is stored under
func Filename(word string) string {
	sanitized := strings.ToLower(strings.TrimSpace(word))
	sanitized = strings.ReplaceAll(sanitized, " ", "_")
	return fmt.Sprintf("word_%s.mp3", sanitized)
}

// URL returns the public URL of a word's prompt, or "" if it has not been generated
func (s *TTSService) URL(word string) string {
	filename := Filename(word)
	if _, err := os.Stat(filepath.Join(s.audioDir, filename)); err != nil {
		return ""
	}
	return s.urlPrefix + "/" + filename
}

// GenerateAudioFile converts text to speech and saves it as MP3.
// Returns the filename (not full path) on success.
func (s *TTSService) GenerateAudioFile(ctx context.Context, text string) (string, error) {
	filename := Filename(text)
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := s.fetch(ctx, text, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	return filename, nil
}

func (s *TTSService) fetch(ctx context.Context, text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// required by Google
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// a failed copy must not leave a truncated prompt behind
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".tts-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return os.Rename(tmp.Name(), outputPath)
}

// BatchGenerateAudio generates audio files for multiple words. It keeps
// going past failures and returns the first error.
func (s *TTSService) BatchGenerateAudio(ctx context.Context, words []string) (map[string]string, error) {
	results := make(map[string]string)
	var firstErr error

	for _, word := range words {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		filename, err := s.GenerateAudioFile(ctx, word)
		if err != nil {
			log.Warn().Err(err).Str("word", word).Msg("Audio generation failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to generate audio for '%s': %w", word, err)
			}
			continue
		}
		results[word] = filename
	}

	return results, firstErr
}
