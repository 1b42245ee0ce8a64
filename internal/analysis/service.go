// Package analysis runs the AI interpretation of a completed test and parses
// the reply into its sections.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/wayss000/Inner-See-sub000/internal/llm"
	"github.com/wayss000/Inner-See-sub000/internal/logger"
	"github.com/wayss000/Inner-See-sub000/internal/metrics"
)

// ErrEmptyResponse is returned when the model replied without content.
var ErrEmptyResponse = errors.New("AI returned an empty response")

// StatusError reports a non-2xx answer from the AI endpoint.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("AI request failed with status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Service sends analysis requests to an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates an analysis service.
func NewService(provider llm.Provider, cfg Config, opts ...Option) *Service {
	s := &Service{provider: provider, cfg: cfg}
	for _, o := range opts {
		o(s)
	}
	s.log = logger.OrNop(s.log)
	return s
}

// Analyze asks the model to interpret req and returns the reply text. The
// returned text always contains the disclaimer.
func (s *Service) Analyze(ctx context.Context, req Request) (string, error) {
	ctx = llm.WithPurpose(ctx, "analysis")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Model:       req.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", s.fail(err)
	}

	s.metrics.ObserveAI("success")
	s.log.Debug("analysis completed", "model", resp.Model, "output_tokens", resp.Usage.OutputTokens)
	return ensureDisclaimer(resp.Text), nil
}

func (s *Service) fail(err error) error {
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		s.metrics.ObserveAI("empty")
		return fmt.Errorf("%w: %w", ErrEmptyResponse, err)
	case llm.StatusCode(err) > 0:
		s.metrics.ObserveAI("error")
		return &StatusError{StatusCode: llm.StatusCode(err), Err: err}
	default:
		s.metrics.ObserveAI("error")
		return fmt.Errorf("AI analysis: %w", err)
	}
}
