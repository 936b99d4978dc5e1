package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelscope/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func TestAnalysisLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(openTestDB(t))

	a, err := repo.Create(ctx, "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, models.StatusProcessing, a.Status)

	err = repo.MarkCompleted(ctx, a.ID, &models.CompletedFields{
		Title:          strPtr("A video"),
		Uploader:       strPtr("someone"),
		Caption:        strPtr("caption text"),
		Summary:        "a short summary",
		Translation:    "a short summary",
		KeyTopics:      []string{"cooking", "travel"},
		MentionedResources: []models.Resource{
			{Type: "song", Name: "Some Track"},
		},
		FullTranscript: "hello world",
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "A video", *got.Title)
	assert.Equal(t, []string{"cooking", "travel"}, got.KeyTopics)
	require.Len(t, got.MentionedResources, 1)
	assert.Equal(t, "song", got.MentionedResources[0].Type)
	assert.Equal(t, "a short summary", *got.Summary)
	assert.Equal(t, "hello world", *got.FullTranscript)
}

func TestAnalysisTerminalStatesAreFinal(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(openTestDB(t))

	a, err := repo.Create(ctx, "https://example.com/v")
	require.NoError(t, err)

	require.NoError(t, repo.MarkFailed(ctx, a.ID))

	// A terminal record cannot transition again.
	assert.Error(t, repo.MarkFailed(ctx, a.ID))
	assert.Error(t, repo.MarkCompleted(ctx, a.ID, &models.CompletedFields{}))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Nil(t, got.Summary)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewAnalysisRepository(openTestDB(t))
	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFailStale(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(openTestDB(t))

	stale, err := repo.Create(ctx, "https://example.com/stale")
	require.NoError(t, err)
	fresh, err := repo.Create(ctx, "https://example.com/fresh")
	require.NoError(t, err)

	// Only rows older than the cutoff are swept.
	n, err := repo.FailStale(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.FailStale(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, id := range []string{stale.ID, fresh.ID} {
		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, got.Status)
	}
}

func TestChatMessages(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	analyses := NewAnalysisRepository(db)
	chats := NewChatRepository(db)

	a, err := analyses.Create(ctx, "https://example.com/v")
	require.NoError(t, err)

	first, err := chats.Create(ctx, a.ID, "Initial analysis summary", "the summary")
	require.NoError(t, err)
	_, err = chats.Create(ctx, a.ID, "what song is playing?", "Some Track")
	require.NoError(t, err)

	list, err := chats.ListByAnalysis(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "the summary", list[0].Reply)
}
