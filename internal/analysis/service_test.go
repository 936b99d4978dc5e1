package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelscope/internal/analyzer"
	"reelscope/internal/asr"
	"reelscope/internal/media"
	"reelscope/internal/models"
	"reelscope/internal/storage"
)

type fakeDownloader struct {
	result *media.DownloadResult
	err    error

	gotClass media.Classification
	gotURL   string
}

func (f *fakeDownloader) Download(ctx context.Context, class media.Classification, url string, ws *media.Workspace) (*media.DownloadResult, error) {
	f.gotClass = class
	f.gotURL = url
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeExtractor struct {
	result *media.ExtractionResult
}

func (f *fakeExtractor) Extract(videoPath string, ws *media.Workspace) *media.ExtractionResult {
	return f.result
}

type fakeTranscriber struct {
	transcript string
}

func (f *fakeTranscriber) Transcribe(audioPath string) string {
	return f.transcript
}

type fakeAnalyzer struct {
	result *analyzer.Result
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, audioPath string, framePaths []string, caption string, metadata map[string]string) *analyzer.Result {
	return f.result
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T, dl downloader, ex extractor, tr transcriber, an contentAnalyzer) (*Service, *storage.AnalysisRepository, *storage.ChatRepository) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	analyses := storage.NewAnalysisRepository(db)
	chats := storage.NewChatRepository(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(analyses, chats, dl, ex, tr, an, "", logger)
	return svc, analyses, chats
}

func TestRunGenericSourceCompletes(t *testing.T) {
	frames := []string{"frames/frame-001.png", "frames/frame-002.png"}
	dl := &fakeDownloader{result: &media.DownloadResult{
		VideoPath: "video.mp4",
		Title:     strPtr("A title"),
		Uploader:  strPtr("someone"),
		Caption:   strPtr("a caption"),
	}}
	ex := &fakeExtractor{result: &media.ExtractionResult{AudioPath: "audio.mp3", FramePaths: frames}}
	tr := &fakeTranscriber{transcript: "hello world transcript"}
	an := &fakeAnalyzer{result: &analyzer.Result{
		Summary:     "A short summary.",
		Translation: "A short summary.",
		KeyTopics:   []string{"cooking"},
		MentionedResources: []models.Resource{
			{Type: "product", Name: "pan"},
		},
	}}

	svc, analyses, chats := newTestService(t, dl, ex, tr, an)

	record, err := svc.Run(context.Background(), "https://example.com/watch?v=abc")
	require.NoError(t, err)

	assert.Equal(t, media.SourceGeneric, dl.gotClass.Kind)
	assert.Equal(t, models.StatusCompleted, record.Status)
	require.NotNil(t, record.Summary)
	assert.Equal(t, "A short summary.", *record.Summary)
	require.NotNil(t, record.FullTranscript)
	assert.Equal(t, "hello world transcript", *record.FullTranscript)
	assert.Equal(t, []string{"cooking"}, record.KeyTopics)

	stored, err := analyses.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	// completion seeds the first chat turn from the summary
	messages, err := chats.ListByAnalysis(context.Background(), record.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, seedChatMessage, messages[0].Message)
	assert.Equal(t, "A short summary.", messages[0].Reply)
}

func TestRunDownloadFailureMarksFailed(t *testing.T) {
	dlErr := &media.DownloadError{Kind: media.FailureRateLimited, Err: errors.New("rate-limit reached")}
	dl := &fakeDownloader{err: dlErr}
	svc, analyses, _ := newTestService(t, dl,
		&fakeExtractor{result: &media.ExtractionResult{}},
		&fakeTranscriber{transcript: asr.PlaceholderTranscript},
		&fakeAnalyzer{result: analyzer.Fallback()},
	)

	_, err := svc.Run(context.Background(), "https://www.instagram.com/reel/xyz/")
	require.Error(t, err)

	var de *media.DownloadError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, media.FailureRateLimited, de.Kind)
	assert.Equal(t, media.SourceRestrictedSocial, dl.gotClass.Kind)

	records, err := analyses.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusFailed, records[0].Status)
	assert.Nil(t, records[0].Summary)
	assert.Nil(t, records[0].FullTranscript)
}

func TestRunDegradedStagesStillComplete(t *testing.T) {
	// no ffmpeg, no audio, no frames: record still completes with
	// the placeholder transcript and fallback analysis
	dl := &fakeDownloader{result: &media.DownloadResult{VideoPath: "video.mp4"}}
	svc, _, _ := newTestService(t, dl,
		&fakeExtractor{result: &media.ExtractionResult{}},
		&fakeTranscriber{transcript: asr.PlaceholderTranscript},
		&fakeAnalyzer{result: analyzer.Fallback()},
	)

	record, err := svc.Run(context.Background(), "https://example.com/video")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, record.Status)
	require.NotNil(t, record.FullTranscript)
	assert.Equal(t, asr.PlaceholderTranscript, *record.FullTranscript)
	assert.Equal(t, []string{"video", "content", "analysis"}, record.KeyTopics)
	require.Len(t, record.MentionedResources, 1)
}

func TestRunDirectFileSynthesizedMetadata(t *testing.T) {
	size := 2048
	dl := &fakeDownloader{result: &media.DownloadResult{
		VideoPath: "video.mp4",
		Title:     strPtr("report.mp4"),
		Uploader:  strPtr("Google Drive User"),
		Caption:   strPtr(fmt.Sprintf("Video file downloaded from Google Drive (%d bytes)", size)),
	}}
	svc, _, _ := newTestService(t, dl,
		&fakeExtractor{result: &media.ExtractionResult{}},
		&fakeTranscriber{transcript: asr.PlaceholderTranscript},
		&fakeAnalyzer{result: analyzer.Fallback()},
	)

	record, err := svc.Run(context.Background(), "https://drive.google.com/file/d/abc123/view")
	require.NoError(t, err)

	assert.Equal(t, media.SourceDirectFile, dl.gotClass.Kind)
	require.NotNil(t, record.Caption)
	assert.Contains(t, *record.Caption, "bytes")
	require.NotNil(t, record.Uploader)
	assert.Equal(t, "Google Drive User", *record.Uploader)
}

func TestRunWorkspaceReleasedOnEveryPath(t *testing.T) {
	var root string
	dl := &fakeDownloader{err: &media.DownloadError{Kind: media.FailureOther, Err: errors.New("boom")}}
	svc, _, _ := newTestService(t, dl,
		&fakeExtractor{result: &media.ExtractionResult{}},
		&fakeTranscriber{transcript: ""},
		&fakeAnalyzer{result: analyzer.Fallback()},
	)
	svc.newWorkspace = func() (*media.Workspace, error) {
		ws, err := media.NewWorkspace()
		if err == nil {
			root = ws.Root()
		}
		return ws, err
	}

	_, err := svc.Run(context.Background(), "https://example.com/video")
	require.Error(t, err)

	require.NotEmpty(t, root)
	_, statErr := os.Stat(root)
	assert.True(t, os.IsNotExist(statErr))
}
