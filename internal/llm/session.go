// Package llm provides the refinement session: a local language model that
// rewrites a raw transcript before injection.
package llm

import "context"

// Session is a loaded refinement model
type Session interface {
	// Clear drops any conversational state so the next Send starts fresh
	Clear()

	// Send submits prompt and returns the model's reply
	Send(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)

	// Close releases the session
	Close() error
}
