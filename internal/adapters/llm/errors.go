package llm

import (
	"fmt"
	"net/http"

	"github.com/mikey/moodiary/internal/core"
)

// StatusError maps a non-success HTTP status to the core error taxonomy.
// messages holds the provider specific description of each status.
func StatusError(provider string, status int, messages map[int]string, cause error) error {
	msg, ok := messages[status]
	if !ok {
		msg = http.StatusText(status)
	}

	var kind error
	switch {
	case status == http.StatusUnauthorized:
		kind = core.ErrAuth
	case status == http.StatusTooManyRequests:
		kind = core.ErrRateLimit
	case status >= 500:
		kind = core.ErrUpstreamUnavailable
	default:
		kind = core.ErrProvider
	}

	if cause == nil {
		return fmt.Errorf("%w: %s returned status %d: %s", kind, provider, status, msg)
	}
	return fmt.Errorf("%w: %s returned status %d: %s: %w", kind, provider, status, msg, cause)
}

// TransportError wraps a failure that produced no HTTP status (network, timeout, decoding)
func TransportError(provider string, cause error) error {
	return fmt.Errorf("%w: %s request failed: %w", core.ErrProvider, provider, cause)
}

// EmptyResponseError reports a completion without text
func EmptyResponseError(provider string) error {
	return fmt.Errorf("%w: empty response from %s", core.ErrProvider, provider)
}

// MissingKeyError reports an absent API key
func MissingKeyError(provider string) error {
	return fmt.Errorf("%w: %s API key is required", core.ErrConfiguration, provider)
}
