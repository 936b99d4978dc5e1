// Package handlers exposes the JSON API.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"reelscope/internal/media"
	"reelscope/internal/models"
	"reelscope/internal/storage"
)

// pipelineRunner runs one analysis for a URL.
type pipelineRunner interface {
	Run(ctx context.Context, url string) (*models.Analysis, error)
}

// languageService is the translation collaborator surface the API needs.
type languageService interface {
	Detect(text string) *string
	Translate(ctx context.Context, text, targetLanguage string) *string
	SupportedLanguages() map[string]string
}

// AnalysisHandler serves the analysis endpoints.
type AnalysisHandler struct {
	pipeline   pipelineRunner
	repo       *storage.AnalysisRepository
	translator languageService
}

func NewAnalysisHandler(pipeline pipelineRunner, repo *storage.AnalysisRepository, translator languageService) *AnalysisHandler {
	return &AnalysisHandler{pipeline: pipeline, repo: repo, translator: translator}
}

// AnalyzeRequest is the analysis creation request.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// Create runs the full pipeline for a URL and returns the stored record.
func (h *AnalysisHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.URL) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url is required"})
	}

	record, err := h.pipeline.Run(ctx, req.URL)
	if err != nil {
		status, message := downloadErrorResponse(err)
		return c.JSON(status, map[string]string{"error": message})
	}

	return c.JSON(http.StatusOK, h.response(record))
}

// Get returns a stored analysis by id.
func (h *AnalysisHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	record, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "analysis not found"})
	}

	return c.JSON(http.StatusOK, h.response(record))
}

// List returns recent analyses, newest first.
func (h *AnalysisHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.repo.ListRecent(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	responses := make([]*AnalysisResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, h.response(record))
	}
	return c.JSON(http.StatusOK, responses)
}

// TranslationRequest selects the target language for a transcript.
type TranslationRequest struct {
	TargetLanguage string `json:"target_language"`
}

// TranslationResponse carries a translated transcript.
type TranslationResponse struct {
	AnalysisID         string            `json:"analysisId"`
	OriginalText       string            `json:"originalText"`
	TranslatedText     string            `json:"translatedText"`
	SourceLanguage     *string           `json:"sourceLanguage,omitempty"`
	TargetLanguage     string            `json:"targetLanguage"`
	SupportedLanguages map[string]string `json:"supportedLanguages"`
	TranslationType    string            `json:"translationType"`
	Summary            *string           `json:"summary,omitempty"`
}

// Translate renders a stored transcript into the requested language.
func (h *AnalysisHandler) Translate(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req TranslationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if _, ok := h.translator.SupportedLanguages()[req.TargetLanguage]; !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported target language"})
	}

	record, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "analysis not found"})
	}
	if record.FullTranscript == nil || strings.TrimSpace(*record.FullTranscript) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "analysis has no transcript to translate"})
	}

	translated := h.translator.Translate(ctx, *record.FullTranscript, req.TargetLanguage)
	if translated == nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "translation failed"})
	}

	return c.JSON(http.StatusOK, &TranslationResponse{
		AnalysisID:         record.ID,
		OriginalText:       *record.FullTranscript,
		TranslatedText:     *translated,
		SourceLanguage:     h.translator.Detect(*record.FullTranscript),
		TargetLanguage:     req.TargetLanguage,
		SupportedLanguages: h.translator.SupportedLanguages(),
		TranslationType:    "transcript",
		Summary:            record.Summary,
	})
}

// Languages lists the supported translation targets.
func (h *AnalysisHandler) Languages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"supportedLanguages": h.translator.SupportedLanguages(),
	})
}

// AnalysisMetadata groups the video metadata fields.
type AnalysisMetadata struct {
	Title    *string `json:"title,omitempty"`
	Uploader *string `json:"uploader,omitempty"`
	Caption  *string `json:"caption,omitempty"`
}

// AnalysisContent groups the AI-produced fields.
type AnalysisContent struct {
	Summary            *string           `json:"summary,omitempty"`
	Translation        *string           `json:"translation,omitempty"`
	KeyTopics          []string          `json:"keyTopics,omitempty"`
	MentionedResources []models.Resource `json:"mentionedResources,omitempty"`
}

// AnalysisResponse is the wire shape of a stored analysis.
type AnalysisResponse struct {
	AnalysisID         string            `json:"analysisId"`
	OriginalURL        string            `json:"originalUrl"`
	Status             string            `json:"status"`
	Metadata           *AnalysisMetadata `json:"metadata,omitempty"`
	Content            *AnalysisContent  `json:"content,omitempty"`
	FullTranscript     *string           `json:"fullTranscript,omitempty"`
	DetectedLanguage   *string           `json:"detectedLanguage,omitempty"`
	SupportedLanguages map[string]string `json:"supportedLanguages,omitempty"`
	CreatedAt          string            `json:"createdAt"`
}

func (h *AnalysisHandler) response(record *models.Analysis) *AnalysisResponse {
	resp := &AnalysisResponse{
		AnalysisID:     record.ID,
		OriginalURL:    record.OriginalURL,
		Status:         record.Status,
		FullTranscript: record.FullTranscript,
		CreatedAt:      record.CreatedAt.Format(time.RFC3339),
	}
	if record.Title != nil || record.Uploader != nil || record.Caption != nil {
		resp.Metadata = &AnalysisMetadata{
			Title:    record.Title,
			Uploader: record.Uploader,
			Caption:  record.Caption,
		}
	}
	if record.Status == models.StatusCompleted {
		resp.Content = &AnalysisContent{
			Summary:            record.Summary,
			Translation:        record.Translation,
			KeyTopics:          record.KeyTopics,
			MentionedResources: record.MentionedResources,
		}
		resp.SupportedLanguages = h.translator.SupportedLanguages()
		if record.FullTranscript != nil {
			resp.DetectedLanguage = h.translator.Detect(*record.FullTranscript)
		}
	}
	return resp
}

// downloadErrorResponse maps a pipeline failure to an HTTP status and a
// user-facing message.
func downloadErrorResponse(err error) (int, string) {
	var de *media.DownloadError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, "Analysis failed"
	}
	switch de.Kind {
	case media.FailureRestricted:
		return http.StatusForbidden, "This content is restricted and cannot be analyzed"
	case media.FailureRateLimited:
		return http.StatusTooManyRequests, "The source is rate-limiting downloads, please retry later"
	case media.FailureNotFound:
		return http.StatusNotFound, "Video not found, please check the URL"
	default:
		return http.StatusInternalServerError, "Failed to download the video"
	}
}
