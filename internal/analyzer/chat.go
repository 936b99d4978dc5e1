package analyzer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ChatFallbackReply is returned when the model cannot be reached so the
// chat endpoint never surfaces an upstream failure.
const ChatFallbackReply = "I'm sorry, but I'm currently unable to process your request. This is a sample response when the AI service is unavailable."

// Chat answers a follow-up question about a previously analyzed video.
// analysisContext carries the stored summary and transcript; the reply
// is plain text. Never fails.
func (a *Analyzer) Chat(ctx context.Context, analysisContext, message string) string {
	parts := []*genai.Part{
		{Text: "You are a helpful assistant answering questions about a video that was analyzed earlier. Answer concisely using only the analysis context below."},
		{Text: fmt.Sprintf("Analysis context:\n%s", analysisContext)},
		{Text: fmt.Sprintf("Question: %s", message)},
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	// Chat replies are free-form text, no response MIME type.
	raw, err := a.generate(ctx, contents, nil)
	if err != nil {
		a.logger.Error("chat request failed, using fallback reply", "error", err)
		return ChatFallbackReply
	}
	reply := strings.TrimSpace(raw)
	if reply == "" {
		return ChatFallbackReply
	}
	return reply
}
