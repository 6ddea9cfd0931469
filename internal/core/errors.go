package core

import (
	"errors"
)

var (
	// ErrInvalidInput is returned when content is empty or whitespace only
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfiguration is returned when a provider name or API key is missing
	ErrConfiguration = errors.New("configuration error")
	// ErrProvider is returned for network, timeout and unexpected transport failures
	ErrProvider = errors.New("provider error")
	// ErrAuth is returned when a provider rejects the credentials (401)
	ErrAuth = errors.New("authentication failed")
	// ErrRateLimit is returned when a provider throttles the caller (429)
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrUpstreamUnavailable is returned for 5xx provider responses
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrFormat is returned when a model response fails schema validation
	ErrFormat = errors.New("invalid response format")
	// ErrAnalysis marks failures raised while orchestrating an LLM analysis
	ErrAnalysis = errors.New("analysis failed")
	// ErrNotFound is returned when an entry does not exist
	ErrNotFound = errors.New("entry not found")
)

// AnalysisError wraps the cause of a failed LLM analysis.
// errors.Is matches both ErrAnalysis and the wrapped cause.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return "analysis failed: " + e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func (e *AnalysisError) Is(target error) bool {
	return target == ErrAnalysis
}
