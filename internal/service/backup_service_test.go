package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readwell/internal/models"
	"readwell/internal/pronunciation"
)

func TestBackupRoundTrip(t *testing.T) {
	assessments, _, _ := newTestAssessmentService(t)
	db := assessments.db
	exercises := NewPronunciationService(db, nil)
	backups := NewBackupService(db)

	done, err := assessments.Start("Sam", "parent@example.com")
	require.NoError(t, err)
	answerAll(t, assessments, done.ID, 50)

	partial, err := assessments.Start("Alex", "")
	require.NoError(t, err)
	_, err = assessments.RecordResponse(context.Background(), partial.ID, "rf2", 75)
	require.NoError(t, err)

	ex, err := exercises.StartExercise("Sam")
	require.NoError(t, err)
	_, err = exercises.SubmitAttempt(ex.ID, pronunciation.Attempt{SpokenText: "cat", Confidence: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	backup, err := backups.ExportToWriter(&buf)
	require.NoError(t, err)
	assert.Len(t, backup.Assessments, 2)
	assert.Len(t, backup.Exercises, 1)

	before, err := assessments.Get(done.ID)
	require.NoError(t, err)

	require.NoError(t, backups.Clear())
	_, err = assessments.Get(done.ID)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)

	require.NoError(t, backups.ImportFromReader(&buf))

	after, err := assessments.Get(done.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Result, after.Result)
	assert.Equal(t, before.State, after.State)

	restored, err := assessments.Get(partial.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Answered)

	exAfter, err := exercises.GetExercise(ex.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, exAfter.Index)
	assert.Equal(t, 1, exAfter.Attempts)
}

func TestImportRejectsGarbage(t *testing.T) {
	backups := NewBackupService(openTestDB(t))
	assert.Error(t, backups.ImportFromReader(bytes.NewBufferString("not json")))
}

func TestListAssessments(t *testing.T) {
	assessments, _, _ := newTestAssessmentService(t)
	backups := NewBackupService(assessments.db)

	empty, err := backups.ListAssessments(10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	var ids []string
	for _, name := range []string{"Sam", "Alex", "Jo"} {
		view, err := assessments.Start(name, "")
		require.NoError(t, err)
		ids = append(ids, view.ID)
	}
	answerAll(t, assessments, ids[0], 25)

	all, err := backups.ListAssessments(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	byID := map[string]models.Assessment{}
	for _, a := range all {
		byID[a.ID] = a
	}
	assert.True(t, byID[ids[0]].IsComplete())
	assert.False(t, byID[ids[1]].IsComplete())

	limited, err := backups.ListAssessments(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
