package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"reelscope/internal/models"
	"reelscope/internal/storage"
)

// chatService answers a question grounded on stored analysis context.
type chatService interface {
	Chat(ctx context.Context, analysisContext, message string) string
}

// ChatHandler serves follow-up questions about analyzed videos.
type ChatHandler struct {
	ai       chatService
	analyses *storage.AnalysisRepository
	chats    *storage.ChatRepository
}

func NewChatHandler(ai chatService, analyses *storage.AnalysisRepository, chats *storage.ChatRepository) *ChatHandler {
	return &ChatHandler{ai: ai, analyses: analyses, chats: chats}
}

// ChatRequest is a chat turn about an existing analysis.
type ChatRequest struct {
	AnalysisID string `json:"analysisId"`
	Message    string `json:"message"`
}

// Chat answers a message using the stored analysis as context and
// persists the exchange.
func (h *ChatHandler) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.AnalysisID == "" || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "analysisId and message are required"})
	}

	record, err := h.analyses.GetByID(ctx, req.AnalysisID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "analysis not found"})
	}

	reply := h.ai.Chat(ctx, analysisContext(record), req.Message)

	if _, err := h.chats.Create(ctx, record.ID, req.Message, reply); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}

// History returns the stored chat turns for an analysis, oldest first.
func (h *ChatHandler) History(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	record, err := h.analyses.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "analysis not found"})
	}

	messages, err := h.chats.ListByAnalysis(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, messages)
}

// analysisContext flattens the stored analysis into the prompt context
// the model answers from.
func analysisContext(record *models.Analysis) string {
	summary := "None"
	if record.Summary != nil {
		summary = *record.Summary
	}
	topics := "None"
	if len(record.KeyTopics) > 0 {
		topics = strings.Join(record.KeyTopics, ", ")
	}
	resources := "None"
	if len(record.MentionedResources) > 0 {
		parts := make([]string, 0, len(record.MentionedResources))
		for _, r := range record.MentionedResources {
			parts = append(parts, fmt.Sprintf("%s: %s", r.Type, r.Name))
		}
		resources = strings.Join(parts, ", ")
	}
	transcript := "None"
	if record.FullTranscript != nil && strings.TrimSpace(*record.FullTranscript) != "" {
		transcript = *record.FullTranscript
	}
	return fmt.Sprintf("Video Summary: %s\nVideo Topics: %s\nVideo Resources: %s\nVideo Transcript: %s", summary, topics, resources, transcript)
}
