package worker

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelscope/internal/models"
	"reelscope/internal/storage"
)

func TestSweeperFailsStaleProcessingRecords(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	analyses := storage.NewAnalysisRepository(db)
	record, err := analyses.Create(context.Background(), "https://example.com/video")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSweeper(analyses, time.Minute, time.Minute, logger)

	// cutoff in the past: the fresh record must survive
	s.maxAge = time.Hour
	s.sweep(context.Background())
	fresh, err := analyses.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, fresh.Status)

	// cutoff in the future: the record is stale now
	s.maxAge = -time.Hour
	s.sweep(context.Background())
	stale, err := analyses.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, stale.Status)
}

func TestSweeperStartStop(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSweeper(storage.NewAnalysisRepository(db), 10*time.Millisecond, time.Hour, logger)

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()
}
