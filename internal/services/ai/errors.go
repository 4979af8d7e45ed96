// File: internal/services/ai/errors.go
package ai

import (
	"context"
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeTimeout    ErrorType = "TIMEOUT"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type AIError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

func NewTimeoutError(operation string, cause error) *AIError {
	return &AIError{Type: ErrTypeTimeout, Operation: operation, Message: "the request timed out", Cause: cause}
}

// Reason maps any generation failure to a short, displayable reason.
// The UI never sees a raw transport error.
func Reason(err error) string {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		switch aiErr.Type {
		case ErrTypeTimeout:
			return "the reply took too long to generate"
		case ErrTypeNetwork:
			return "the assistant service could not be reached"
		case ErrTypeProvider:
			return "the assistant service returned an error"
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "the reply took too long to generate"
	}
	return "an unexpected error occurred"
}
