package models

import "time"

// Analysis is the persistent record for one pipeline run.
// It is created in StatusProcessing before any external I/O and
// transitions exactly once to StatusCompleted or StatusFailed.
type Analysis struct {
	ID                 string     `json:"analysisId"`
	OriginalURL        string     `json:"originalUrl"`
	Status             string     `json:"status"`
	Title              *string    `json:"title,omitempty"`
	Uploader           *string    `json:"uploader,omitempty"`
	Caption            *string    `json:"caption,omitempty"`
	Summary            *string    `json:"summary,omitempty"`
	Translation        *string    `json:"translation,omitempty"`
	KeyTopics          []string   `json:"keyTopics,omitempty"`
	MentionedResources []Resource `json:"mentionedResources,omitempty"`
	FullTranscript     *string    `json:"fullTranscript,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Resource is something mentioned in the video (a product, song, place, ...).
type Resource struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ChatMessage is one question/answer turn about an analysis.
type ChatMessage struct {
	ID         string    `json:"id"`
	AnalysisID string    `json:"analysisId"`
	Message    string    `json:"message"`
	Reply      string    `json:"reply"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Analysis status
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// CompletedFields carries everything written to the record when a run
// finishes successfully. All fields are persisted in a single update.
type CompletedFields struct {
	Title              *string
	Uploader           *string
	Caption            *string
	Summary            string
	Translation        string
	KeyTopics          []string
	MentionedResources []Resource
	FullTranscript     string
}
