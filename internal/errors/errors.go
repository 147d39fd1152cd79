// Package errors defines the typed errors shared across plus-cli.
package errors

import (
	"errors"
	"fmt"
)

// UserError represents an error caused by user input or configuration.
// Suggestion can provide a concrete fix for the user.
type UserError struct {
	Message    string
	Suggestion string
	Err        error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a UserError with a message and optional suggestion.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// AuthError represents authentication failures.
type AuthError struct {
	Reason     string
	Suggestion string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AuthRequiredError wraps an error with an authentication required message.
func AuthRequiredError(err error) error {
	return &AuthError{
		Reason:     "authentication required",
		Suggestion: "Run 'plus auth login' to configure your artisan.plus account",
		Err:        err,
	}
}

// TransportError represents a connection, timeout or TLS failure on an
// outbound call. These are always propagated so the caller can decide
// whether to retry at a higher level.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Type checkers
func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

func IsUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// UserSuggestion returns a suggestion string if err carries one.
func UserSuggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Suggestion
	}
	return ""
}

// ContextualError wraps an error with HTTP request context for debugging.
type ContextualError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

// WrapContext wraps an error with HTTP request context.
// StatusCode can be 0 if the request never completed.
// Returns nil if err is nil.
func WrapContext(method, url string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &ContextualError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

func (e *ContextualError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s (%d): %s", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *ContextualError) Unwrap() error {
	return e.Err
}
