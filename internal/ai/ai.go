// Package ai defines the text-completion gateway contract. The core never
// inspects gateway internals; it only consumes the returned text.
package ai

import "context"

// CompletionRequest carries one prompt to the completion gateway.
type CompletionRequest struct {
	// System is the system instruction establishing the assistant persona.
	System string
	// Prompt is the rendered user prompt.
	Prompt string
	// Temperature controls sampling randomness.
	Temperature float32
}

// Completer produces text for a rendered prompt. Implementations own their
// timeout and retry policy; callers treat any failure as a single error kind.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
