package apiclient

import (
	"fmt"
	"time"
)

// NetworkError is a transport-level failure: the request never produced an
// HTTP response (connection refused, DNS, reset, per-attempt timeout).
// It is the only error class the client retries.
type NetworkError struct {
	Method  string
	URL     string
	Timeout time.Duration // non-zero when the attempt timed out
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("network request failed: %s %s: timed out after %s", e.Method, e.URL, e.Timeout)
	}
	return fmt.Sprintf("network request failed: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response whose status is outside 2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP error! status: %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

// EnvelopeError is a 2xx response whose envelope code is not 200.
// Its message is exactly the server-provided message.
type EnvelopeError struct {
	Code    int
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with code %d", e.Code)
	}
	return e.Message
}

// DecodeError is a response body (or envelope data) that is not valid JSON
// for the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
