package llm

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf16"
)

// MaxMessageLength bounds a single chat message, in UTF-16 code units.
const MaxMessageLength = 1000

// NoResponse is the reply used when the upstream returns no text.
const NoResponse = "No response"

var (
	ErrMissingAPIKey = errors.New("missing API key")
	ErrCircuitOpen   = errors.New("circuit breaker open")
)

// Generator turns one prompt into one reply. No conversation state is kept.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API Error: %d", e.Provider, e.Status)
}

// Retryable reports whether the status points at provider health rather than the request.
func (e *UpstreamError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}

// MessageLength counts UTF-16 code units, so characters outside the BMP
// (most emoji) count twice, as they do for the browser widget.
func MessageLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
