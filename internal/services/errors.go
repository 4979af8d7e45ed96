// File: internal/services/errors.go
package services

import "fmt"

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeStorage    ErrorType = "STORAGE"
)

// ConversationError carries the operation and thread context of a
// failure inside the conversation services.
type ConversationError struct {
	Type      ErrorType
	Operation string
	Message   string
	ThreadID  uint
	Cause     error
}

func (e *ConversationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Conversation %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Conversation %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ConversationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *ConversationError {
	return &ConversationError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation string, threadID uint) *ConversationError {
	return &ConversationError{
		Type:      ErrTypeNotFound,
		Operation: operation,
		Message:   "thread not found",
		ThreadID:  threadID,
	}
}

func NewStorageError(operation, msg string, cause error) *ConversationError {
	return &ConversationError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}

// IsValidation reports whether err should surface as a 4xx-class error.
func IsValidation(err error) bool {
	ce, ok := err.(*ConversationError)
	return ok && ce.Type == ErrTypeValidation
}

// IsNotFound reports whether err names a missing thread or message.
func IsNotFound(err error) bool {
	ce, ok := err.(*ConversationError)
	return ok && ce.Type == ErrTypeNotFound
}
