package types

import "time"

// GenerationKind distinguishes a fresh generation from a modification pass.
type GenerationKind string

const (
	GenerationGenerate   GenerationKind = "generate"
	GenerationRegenerate GenerationKind = "regenerate"
)

// GenerationOutcome is the state of a single generation request.
type GenerationOutcome string

const (
	OutcomePending GenerationOutcome = "pending"
	OutcomeSuccess GenerationOutcome = "success"
	OutcomeFailed  GenerationOutcome = "failed"
)

// GenerationRequest describes one in-flight generate/regenerate call.
// It is never persisted.
type GenerationRequest struct {
	ID        string            `json:"id"`
	ProjectID int64             `json:"project_id"`
	Kind      GenerationKind    `json:"kind"`
	Payload   string            `json:"payload"`
	IssuedAt  time.Time         `json:"issued_at"`
	Outcome   GenerationOutcome `json:"outcome"`
	Duration  time.Duration     `json:"duration,omitempty"`
}

// HistoryEntry is one row of a project's generation history.
type HistoryEntry struct {
	ID             int64   `json:"id"`
	Prompt         string  `json:"prompt"`
	GenerationTime float64 `json:"generation_time"`
	Success        bool    `json:"success"`
	ErrorMessage   *string `json:"error_message"`
	CreatedAt      string  `json:"created_at"`
}
