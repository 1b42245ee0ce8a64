package store

import (
	"context"
	"time"
)

// LLMRequestEventData captures the data for a single LLM request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string

	// Timestamp is set when reading the log back; it is ignored on append.
	Timestamp time.Time
}

// EventRepo provides append access to the AI request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

var _ EventRepo = (*Store)(nil)
