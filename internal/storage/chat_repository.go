package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reelscope/internal/models"
)

// ChatRepository is the data access layer for chat messages.
type ChatRepository struct {
	db *DB
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create stores one question/answer turn.
func (r *ChatRepository) Create(ctx context.Context, analysisID, message, reply string) (*models.ChatMessage, error) {
	m := &models.ChatMessage{
		ID:         uuid.New().String(),
		AnalysisID: analysisID,
		Message:    message,
		Reply:      reply,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, analysis_id, message, reply, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.AnalysisID, m.Message, m.Reply, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}
	return m, nil
}

// ListByAnalysis returns all turns for an analysis, oldest first.
func (r *ChatRepository) ListByAnalysis(ctx context.Context, analysisID string) ([]*models.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, analysis_id, message, reply, created_at
		 FROM chat_messages WHERE analysis_id = ? ORDER BY created_at ASC`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.AnalysisID, &m.Message, &m.Reply, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}
