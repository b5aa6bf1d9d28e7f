package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "word_cat.mp3", Filename("cat"))
	assert.Equal(t, "word_ice_cream.mp3", Filename(" Ice Cream "))
}

func TestGenerateAudioFile(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "cat", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	svc := NewTTSService(dir, "/static/audio/").WithEndpoint(srv.URL)

	assert.Empty(t, svc.URL("cat"))

	filename, err := svc.GenerateAudioFile(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, "word_cat.mp3", filename)

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))
	assert.Equal(t, "/static/audio/word_cat.mp3", svc.URL("cat"))

	// cached
	_, err = svc.GenerateAudioFile(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBatchGenerateAudioContinuesPastFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "dog" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	svc := NewTTSService(dir, "/static/audio").WithEndpoint(srv.URL)

	results, err := svc.BatchGenerateAudio(context.Background(), []string{"cat", "dog", "sun"})
	assert.ErrorContains(t, err, "dog")
	assert.Equal(t, map[string]string{"cat": "word_cat.mp3", "sun": "word_sun.mp3"}, results)

	_, statErr := os.Stat(filepath.Join(dir, "word_dog.mp3"))
	assert.True(t, os.IsNotExist(statErr))
}
