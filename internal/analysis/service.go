// Package analysis runs the acquisition pipeline for one URL: download,
// extract, transcribe, analyze, persist. The orchestrator owns the
// record's state machine; each stage degrades per its own contract and
// only download and persistence failures abort a run.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"reelscope/internal/analyzer"
	"reelscope/internal/media"
	"reelscope/internal/models"
	"reelscope/internal/storage"
)

// seedChatMessage labels the chat turn created on completion so the
// assistant has context before the first real question.
const seedChatMessage = "Initial analysis summary"

type downloader interface {
	Download(ctx context.Context, class media.Classification, url string, ws *media.Workspace) (*media.DownloadResult, error)
}

type extractor interface {
	Extract(videoPath string, ws *media.Workspace) *media.ExtractionResult
}

type transcriber interface {
	Transcribe(audioPath string) string
}

type contentAnalyzer interface {
	Analyze(ctx context.Context, audioPath string, framePaths []string, caption string, metadata map[string]string) *analyzer.Result
}

// Service wires the pipeline stages together. Independent runs may
// execute concurrently; they share nothing but the database.
type Service struct {
	analyses    *storage.AnalysisRepository
	chats       *storage.ChatRepository
	downloader  downloader
	extractor   extractor
	transcriber transcriber
	analyzer    contentAnalyzer
	cookieFile  string
	logger      *slog.Logger

	newWorkspace func() (*media.Workspace, error)
}

func NewService(
	analyses *storage.AnalysisRepository,
	chats *storage.ChatRepository,
	dl downloader,
	ex extractor,
	tr transcriber,
	an contentAnalyzer,
	cookieFile string,
	logger *slog.Logger,
) *Service {
	return &Service{
		analyses:     analyses,
		chats:        chats,
		downloader:   dl,
		extractor:    ex,
		transcriber:  tr,
		analyzer:     an,
		cookieFile:   cookieFile,
		logger:       logger,
		newWorkspace: media.NewWorkspace,
	}
}

// Run executes one pipeline run for url. The record is persisted in
// processing state before any network I/O so a crash leaves a durable
// row for the sweeper to reconcile. On success the returned record is
// completed with all derived fields; on failure the record is marked
// failed and the original error is returned for the boundary layer to
// translate.
func (s *Service) Run(ctx context.Context, url string) (*models.Analysis, error) {
	record, err := s.analyses.Create(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis record: %w", err)
	}
	logger := s.logger.With("analysis_id", record.ID)
	logger.Info("analysis started", "url", url)

	ws, err := s.newWorkspace()
	if err != nil {
		s.fail(ctx, record.ID, logger)
		return nil, err
	}
	defer ws.Release()

	class := media.Classify(url, s.cookieFile)
	logger.Info("source classified", "kind", class.Kind, "cookie_available", class.CookieAvailable)

	download, err := s.downloader.Download(ctx, class, url, ws)
	if err != nil {
		logger.Error("download failed", "error", err)
		s.fail(ctx, record.ID, logger)
		return nil, err
	}

	extraction := s.extractor.Extract(download.VideoPath, ws)
	transcript := s.transcriber.Transcribe(extraction.AudioPath)

	metadata := map[string]string{}
	if download.Title != nil {
		metadata["title"] = *download.Title
	}
	if download.Uploader != nil {
		metadata["uploader"] = *download.Uploader
	}
	caption := ""
	if download.Caption != nil {
		caption = *download.Caption
	}

	result := s.analyzer.Analyze(ctx, extraction.AudioPath, extraction.FramePaths, caption, metadata)

	fields := &models.CompletedFields{
		Title:              download.Title,
		Uploader:           download.Uploader,
		Caption:            download.Caption,
		Summary:            result.Summary,
		Translation:        result.Translation,
		KeyTopics:          result.KeyTopics,
		MentionedResources: result.MentionedResources,
		FullTranscript:     transcript,
	}
	if err := s.analyses.MarkCompleted(ctx, record.ID, fields); err != nil {
		logger.Error("failed to persist completed analysis", "error", err)
		s.fail(ctx, record.ID, logger)
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}

	if _, err := s.chats.Create(ctx, record.ID, seedChatMessage, result.Summary); err != nil {
		// non-fatal, the analysis itself is already durable
		logger.Warn("failed to seed initial chat turn", "error", err)
	}

	stored, err := s.analyses.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload analysis: %w", err)
	}
	logger.Info("analysis completed", "frames", len(extraction.FramePaths))
	return stored, nil
}

// fail flips the record to failed, best effort.
func (s *Service) fail(ctx context.Context, id string, logger *slog.Logger) {
	if err := s.analyses.MarkFailed(ctx, id); err != nil {
		logger.Error("failed to mark analysis as failed", "error", err)
	}
}
