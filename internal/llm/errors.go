package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyResponse indicates the provider answered without any text content.
var ErrEmptyResponse = errors.New("LLM returned an empty response")

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	StatusCode int
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
// StatusCode is zero when no HTTP response was received.
type ErrProviderUnavailable struct {
	StatusCode int
	Err        error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRequestFailed indicates the provider rejected the request with a 4xx
// status other than 429. Retrying will not help.
type ErrRequestFailed struct {
	StatusCode int
	Err        error
}

func (e *ErrRequestFailed) Error() string {
	return fmt.Sprintf("LLM request rejected with status %d: %v", e.StatusCode, e.Err)
}

func (e *ErrRequestFailed) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status carried by a provider error, or 0.
func StatusCode(err error) int {
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return rl.StatusCode
	}
	var rf *ErrRequestFailed
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	var pu *ErrProviderUnavailable
	if errors.As(err, &pu) {
		return pu.StatusCode
	}
	return 0
}

// classifyStatus maps an HTTP status from a provider SDK error to the typed
// errors above.
func classifyStatus(status int, err error) error {
	switch {
	case status == 429:
		return &ErrRateLimit{StatusCode: status, Err: err}
	case status >= 400 && status < 500:
		return &ErrRequestFailed{StatusCode: status, Err: err}
	default:
		return &ErrProviderUnavailable{StatusCode: status, Err: err}
	}
}
