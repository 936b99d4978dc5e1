package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelscope/internal/models"
)

type fakeChatAI struct {
	reply      string
	gotContext string
	gotMessage string
}

func (f *fakeChatAI) Chat(ctx context.Context, analysisContext, message string) string {
	f.gotContext = analysisContext
	f.gotMessage = message
	return f.reply
}

func newChatEcho(h *ChatHandler) *echo.Echo {
	e := echo.New()
	e.POST("/api/v1/chat", h.Chat)
	e.GET("/api/v1/analyze/:id/chat", h.History)
	return e
}

func TestChatRepliesAndPersists(t *testing.T) {
	analyses, chats := openTestRepos(t)
	record := completedAnalysis(t, analyses)
	ai := &fakeChatAI{reply: "It is about cooking."}
	h := NewChatHandler(ai, analyses, chats)

	rec := doJSON(t, newChatEcho(h), http.MethodPost, "/api/v1/chat",
		`{"analysisId":"`+record.ID+`","message":"what is it about?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "It is about cooking.", resp["reply"])

	assert.Equal(t, "what is it about?", ai.gotMessage)
	assert.Contains(t, ai.gotContext, "A summary.")
	assert.Contains(t, ai.gotContext, "hello transcript")

	messages, err := chats.ListByAnalysis(context.Background(), record.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "what is it about?", messages[0].Message)
	assert.Equal(t, "It is about cooking.", messages[0].Reply)
}

func TestChatUnknownAnalysis(t *testing.T) {
	analyses, chats := openTestRepos(t)
	h := NewChatHandler(&fakeChatAI{}, analyses, chats)

	rec := doJSON(t, newChatEcho(h), http.MethodPost, "/api/v1/chat",
		`{"analysisId":"nope","message":"hello"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatMissingFields(t *testing.T) {
	analyses, chats := openTestRepos(t)
	h := NewChatHandler(&fakeChatAI{}, analyses, chats)

	rec := doJSON(t, newChatEcho(h), http.MethodPost, "/api/v1/chat", `{"message":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, newChatEcho(h), http.MethodPost, "/api/v1/chat", `{"analysisId":"x","message":" "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHistory(t *testing.T) {
	analyses, chats := openTestRepos(t)
	record := completedAnalysis(t, analyses)
	_, err := chats.Create(context.Background(), record.ID, "first", "reply one")
	require.NoError(t, err)
	_, err = chats.Create(context.Background(), record.ID, "second", "reply two")
	require.NoError(t, err)
	h := NewChatHandler(&fakeChatAI{}, analyses, chats)

	rec := doJSON(t, newChatEcho(h), http.MethodGet, "/api/v1/analyze/"+record.ID+"/chat", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var messages []models.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Message)
	assert.Equal(t, "second", messages[1].Message)
}

func TestChatHistoryUnknownAnalysis(t *testing.T) {
	analyses, chats := openTestRepos(t)
	h := NewChatHandler(&fakeChatAI{}, analyses, chats)

	rec := doJSON(t, newChatEcho(h), http.MethodGet, "/api/v1/analyze/nope/chat", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
