package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network activity when the
// generative provider's key is not configured.
var ErrMissingAPIKey = errors.New("generative API key is not configured")

// ErrTimeout is returned when a single generation call exceeds the deadline.
var ErrTimeout = errors.New("generation timed out")

// GenerationTerminatedError carries the provider's finish reason when a
// response stopped for any reason other than normal completion (safety
// filter, length cap). The reason is surfaced verbatim so the user can see
// why.
type GenerationTerminatedError struct {
	Reason string
}

func (e *GenerationTerminatedError) Error() string {
	return fmt.Sprintf("generation terminated: %s", e.Reason)
}

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}
