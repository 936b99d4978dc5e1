package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reelscope/internal/models"
)

// AnalysisRepository is the data access layer for analysis records.
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new AnalysisRepository.
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create inserts a new record in the processing state and returns it.
// The record is durable before the pipeline touches the network, so a
// crash mid-run leaves a processing row behind for the sweeper.
func (r *AnalysisRepository) Create(ctx context.Context, url string) (*models.Analysis, error) {
	now := time.Now().UTC()
	a := &models.Analysis{
		ID:          uuid.New().String(),
		OriginalURL: url,
		Status:      models.StatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO analyses (id, original_url, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.OriginalURL, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis: %w", err)
	}
	return a, nil
}

// GetByID fetches a record by ID. Returns nil when not found.
func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*models.Analysis, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, original_url, status, title, uploader, caption, summary,
		        translation, key_topics, mentioned_resources, full_transcript,
		        created_at, updated_at
		 FROM analyses WHERE id = ?`, id)
	return scanAnalysis(row)
}

// ListRecent returns the most recently created records, newest first.
func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*models.Analysis, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, original_url, status, title, uploader, caption, summary,
		        translation, key_topics, mentioned_resources, full_transcript,
		        created_at, updated_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// MarkCompleted transitions a processing record to completed, writing all
// derived fields in a single update.
func (r *AnalysisRepository) MarkCompleted(ctx context.Context, id string, fields *models.CompletedFields) error {
	topics, err := json.Marshal(fields.KeyTopics)
	if err != nil {
		return fmt.Errorf("failed to encode key topics: %w", err)
	}
	resources, err := json.Marshal(fields.MentionedResources)
	if err != nil {
		return fmt.Errorf("failed to encode mentioned resources: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE analyses
		 SET status = ?, title = ?, uploader = ?, caption = ?, summary = ?,
		     translation = ?, key_topics = ?, mentioned_resources = ?,
		     full_transcript = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		models.StatusCompleted, fields.Title, fields.Uploader, fields.Caption,
		fields.Summary, fields.Translation, string(topics), string(resources),
		fields.FullTranscript, time.Now().UTC(), id, models.StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to complete analysis: %w", err)
	}
	return requireTransition(res, id)
}

// MarkFailed transitions a processing record to failed. Content fields are
// left null.
func (r *AnalysisRepository) MarkFailed(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE analyses SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		models.StatusFailed, time.Now().UTC(), id, models.StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to mark analysis failed: %w", err)
	}
	return requireTransition(res, id)
}

// FailStale marks processing records older than the cutoff as failed and
// returns how many were swept.
func (r *AnalysisRepository) FailStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE analyses SET status = ?, updated_at = ? WHERE status = ? AND updated_at < ?`,
		models.StatusFailed, time.Now().UTC(), models.StatusProcessing, cutoff.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// requireTransition rejects updates that matched no processing row: the
// status machine only moves processing -> completed|failed, once.
func requireTransition(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("analysis %s is not in processing state", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	var a models.Analysis
	var topics, resources sql.NullString
	err := row.Scan(
		&a.ID, &a.OriginalURL, &a.Status, &a.Title, &a.Uploader, &a.Caption,
		&a.Summary, &a.Translation, &topics, &resources, &a.FullTranscript,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if topics.Valid && topics.String != "" {
		if err := json.Unmarshal([]byte(topics.String), &a.KeyTopics); err != nil {
			return nil, fmt.Errorf("failed to decode key topics: %w", err)
		}
	}
	if resources.Valid && resources.String != "" {
		if err := json.Unmarshal([]byte(resources.String), &a.MentionedResources); err != nil {
			return nil, fmt.Errorf("failed to decode mentioned resources: %w", err)
		}
	}
	return &a, nil
}
