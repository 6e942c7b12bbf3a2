// Package errors provides the standardized error taxonomy shared by the
// elicitation workflows and the transport layer.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodePokemonNotFound     ErrorCode = "POKEMON_NOT_FOUND"
	ErrCodeUnknownType         ErrorCode = "UNKNOWN_TYPE"
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeMalformedState      ErrorCode = "MALFORMED_STATE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidInputError creates a non-retryable caller input error. The
// caller recovers by answering the follow-up elicitation, not by retrying
// the same call.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Malformed caller input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPokemonNotFoundError creates a non-retryable lookup error.
func NewPokemonNotFoundError(token string) *StandardError {
	return &StandardError{
		Code:      ErrCodePokemonNotFound,
		Message:   "No Pokémon matches the given name or id",
		Details:   fmt.Sprintf("token: %s", token),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownTypeError creates a non-retryable normalization error.
func NewUnknownTypeError(attempt string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownType,
		Message:   "Free-text input does not match any Pokémon type",
		Details:   fmt.Sprintf("attempt: %s", attempt),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUnavailableError creates a retryable upstream error.
func NewProviderUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   "PokéAPI provider unreachable or failing",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedStateError creates the only conversation-fatal error: a
// state blob that does not match the invoking workflow's shape.
func NewMalformedStateError(workflow, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedState,
		Message:   "Conversation state blob does not match the workflow shape",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"workflow": workflow},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return code == ErrCodeProviderUnavailable
}

// IsConversationFatal reports whether the code terminates a conversation
// involuntarily. Every other code surfaces as a re-elicitation.
func IsConversationFatal(code ErrorCode) bool {
	return code == ErrCodeMalformedState
}
