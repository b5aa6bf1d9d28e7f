package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readwell/internal/pronunciation"
)

type fakePrompts map[string]string

func (f fakePrompts) URL(word string) string { return f[word] }

func TestPronunciationWords(t *testing.T) {
	svc := NewPronunciationService(nil, fakePrompts{"cat": "/static/audio/word_cat.mp3"})

	words := svc.Words()
	require.Len(t, words, len(pronunciation.Words()))
	assert.Equal(t, "cat", words[0].Word)
	assert.Equal(t, "/static/audio/word_cat.mp3", words[0].AudioURL)
	assert.Empty(t, words[1].AudioURL)
}

func TestPronunciationScore(t *testing.T) {
	svc := NewPronunciationService(nil, nil)

	result, err := svc.Score("CAT", pronunciation.Attempt{SpokenText: "cat", Confidence: 1})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.InDelta(t, 1.0, result.Accuracy, 1e-9)
	assert.Equal(t, "kat", result.ExpectedPronunciation)

	_, err = svc.Score("zebra", pronunciation.Attempt{SpokenText: "zebra", Confidence: 1})
	assert.ErrorIs(t, err, ErrUnknownWord)

	_, err = svc.Score("cat", pronunciation.Attempt{SpokenText: "  ", Confidence: 1})
	assert.ErrorIs(t, err, pronunciation.ErrNoSpeech)
}

func TestExerciseFlow(t *testing.T) {
	svc := NewPronunciationService(openTestDB(t), nil)

	view, err := svc.StartExercise("Sam")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Index)
	assert.False(t, view.Complete)
	require.NotNil(t, view.CurrentWord)
	assert.Equal(t, "cat", view.CurrentWord.Word)

	// a miss stays on the same word
	missed, err := svc.SubmitAttempt(view.ID, pronunciation.Attempt{SpokenText: "dog", Confidence: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0, missed.Index)
	require.NotNil(t, missed.LastResult)
	assert.False(t, missed.LastResult.Passed)
	assert.Equal(t, 1, missed.Attempts)

	// silence records nothing
	_, err = svc.SubmitAttempt(view.ID, pronunciation.Attempt{SpokenText: "", Confidence: 0})
	assert.ErrorIs(t, err, pronunciation.ErrNoSpeech)

	passed, err := svc.SubmitAttempt(view.ID, pronunciation.Attempt{SpokenText: "cat", Confidence: 0.9})
	require.NoError(t, err)
	assert.Equal(t, 1, passed.Index)
	assert.True(t, passed.LastResult.Passed)
	assert.Equal(t, 2, passed.Attempts)
	assert.Equal(t, "dog", passed.CurrentWord.Word)

	resumed, err := svc.GetExercise(view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed.Index)
	assert.Equal(t, 2, resumed.Attempts)
	require.NotNil(t, resumed.LastResult)
	assert.Equal(t, "kat", resumed.LastResult.ExpectedPronunciation)

	for _, w := range pronunciation.Words()[1:] {
		_, err := svc.SubmitAttempt(view.ID, pronunciation.Attempt{SpokenText: w.Word, Confidence: 1})
		require.NoError(t, err)
	}

	done, err := svc.GetExercise(view.ID)
	require.NoError(t, err)
	assert.True(t, done.Complete)
	assert.Nil(t, done.CurrentWord)

	_, err = svc.SubmitAttempt(view.ID, pronunciation.Attempt{SpokenText: "cat", Confidence: 1})
	assert.ErrorIs(t, err, pronunciation.ErrExerciseComplete)

	stats, err := svc.WordStats()
	require.NoError(t, err)
	require.NotEmpty(t, stats)
	// cat has the lowest average accuracy
	assert.Equal(t, "cat", stats[0].Word)
	assert.Equal(t, 2, stats[0].Attempts)
	assert.Equal(t, 1, stats[0].Passes)
}

func TestGetUnknownExercise(t *testing.T) {
	svc := NewPronunciationService(openTestDB(t), nil)

	_, err := svc.GetExercise("missing")
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	_, err = svc.SubmitAttempt("missing", pronunciation.Attempt{SpokenText: "cat", Confidence: 1})
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
