package llm

import (
	"context"
	"time"

	"github.com/wayss000/Inner-See-sub000/internal/logger"
	"github.com/wayss000/Inner-See-sub000/internal/store"
)

// LoggingProvider is a decorator that records every LLM request in the AI
// request log.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Provider with request logging. provider names the
// backend ("openai", "anthropic", ...) in the log.
func WithLogging(p Provider, provider string, repo store.EventRepo, log *logger.Logger) Provider {
	return &LoggingProvider{inner: p, provider: provider, eventRepo: repo, log: logger.OrNop(log)}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	model := l.inner.ModelID()
	if req.Model != "" {
		model = req.Model
	}
	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     model,
		Purpose:   purpose,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("LLM request failed",
			"provider", l.provider,
			"model", data.Model,
			"purpose", purpose,
			"status", StatusCode(err),
			"error", err.Error(),
		)
	} else {
		l.log.Debug("LLM request completed",
			"provider", l.provider,
			"model", data.Model,
			"purpose", purpose,
			"latency_ms", data.LatencyMs,
			"output_tokens", data.OutputTokens,
		)
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		l.log.Warn("failed to log LLM request event", "error", logErr.Error())
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
