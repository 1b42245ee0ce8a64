package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type llmRequestRow struct {
	ID           string `db:"id"`
	Provider     string `db:"provider"`
	Model        string `db:"model"`
	Purpose      string `db:"purpose"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	LatencyMs    int64  `db:"latency_ms"`
	Success      bool   `db:"success"`
	ErrorMessage string `db:"error_message"`
	CreatedAt    string `db:"created_at"`
}

func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	row := llmRequestRow{
		ID:           uuid.NewString(),
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		CreatedAt:    formatTime(s.now()),
	}
	_, err = db.NamedExecContext(ctx, `INSERT INTO llm_requests
		(id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at)
		VALUES (:id, :provider, :model, :purpose, :input_tokens, :output_tokens, :latency_ms, :success, :error_message, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// LLMRequests returns the most recent AI request log entries, newest first.
func (s *Store) LLMRequests(ctx context.Context, limit int) ([]LLMRequestEventData, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	var rows []llmRequestRow
	err = db.SelectContext(ctx, &rows, `SELECT id, provider, model, purpose, input_tokens, output_tokens,
		latency_ms, success, error_message, created_at
		FROM llm_requests ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	out := make([]LLMRequestEventData, 0, len(rows))
	for _, r := range rows {
		ts, err := parseTime("created_at", r.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, LLMRequestEventData{
			Provider:     r.Provider,
			Model:        r.Model,
			Purpose:      r.Purpose,
			InputTokens:  r.InputTokens,
			OutputTokens: r.OutputTokens,
			LatencyMs:    r.LatencyMs,
			Success:      r.Success,
			ErrorMessage: r.ErrorMessage,
			Timestamp:    ts,
		})
	}
	return out, nil
}
