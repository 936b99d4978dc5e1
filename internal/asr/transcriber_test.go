package asr

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTranscribeWithoutAudioReturnsPlaceholder(t *testing.T) {
	tr := NewTranscriber("", testLogger())

	assert.False(t, tr.Available())
	assert.Equal(t, PlaceholderTranscript, tr.Transcribe(""))
}

func TestTranscribeMissingFileReturnsPlaceholder(t *testing.T) {
	tr := NewTranscriber("", testLogger())
	assert.Equal(t, PlaceholderTranscript, tr.Transcribe("/nonexistent/audio.mp3"))
}

func TestTranscriberUnavailableWithMissingModel(t *testing.T) {
	// An empty model directory fails initialization once; calls still
	// return the placeholder instead of retrying.
	tr := NewTranscriber(t.TempDir(), testLogger())
	assert.False(t, tr.Available())

	audio := filepath.Join(t.TempDir(), "audio.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("fake audio"), 0644))
	assert.Equal(t, PlaceholderTranscript, tr.Transcribe(audio))
}

func TestNewConfigMissingFiles(t *testing.T) {
	_, err := NewConfig(t.TempDir())
	assert.Error(t, err)
}
