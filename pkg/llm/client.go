// Package llm provides the text generation backends for the counseling
// features and the resilience wrapper that keeps the API answering when a
// backend is degraded or down.
package llm

import "fmt"

// Canned degradation messages. Handlers return these with a 200 status
// while the model backend is unhealthy.
const (
	// FallbackEmptyResponse replaces an empty model completion.
	FallbackEmptyResponse = "I apologize, but I couldn't generate a response at this time."

	// FallbackServiceUnavailable replaces a non-200 backend reply.
	FallbackServiceUnavailable = "I'm currently unable to connect to the AI service. Please try again later."

	// FallbackTechnicalDifficulties replaces transport failures and
	// circuit-breaker rejections.
	FallbackTechnicalDifficulties = "I'm experiencing technical difficulties. Please try again later."
)

// IsFallback reports whether text is one of the canned degradation
// messages rather than real model output. Fallbacks are never cached.
func IsFallback(text string) bool {
	switch text {
	case FallbackEmptyResponse, FallbackServiceUnavailable, FallbackTechnicalDifficulties:
		return true
	}
	return false
}

// StatusError reports a non-200 response from a model backend.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.Code)
}
