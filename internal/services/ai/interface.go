// File: internal/services/ai/interface.go
package ai

import "context"

// CompletionProvider turns submitted text into assistant reply text.
// Implementations make exactly one external call per invocation and
// normalize every failure mode into an *AIError; they never panic and
// never surface raw SDK errors.
type CompletionProvider interface {
	GetCompletion(ctx context.Context, prompt string) (string, error)
}
