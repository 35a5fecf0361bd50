package go_duka

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ValidationError indicates that a request is missing required fields or contains invalid data.
// It is raised locally, before any network call.
type ValidationError struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation error"
	}
	if len(e.Fields) == 1 {
		fe := e.Fields[0]
		if fe.Field == "" {
			return fmt.Sprintf("validation error: %s", fe.Message)
		}
		return fmt.Sprintf("validation error: %s: %s", fe.Field, fe.Message)
	}
	return fmt.Sprintf("validation error: %d fields", len(e.Fields))
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// IsValidationError checks whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrAuthRequired means an authenticated endpoint was called without a
// stored credential. The call never reaches the network; callers should
// send the user to sign-in.
var ErrAuthRequired = errors.New("authentication required: sign in first")

// ErrMissingOrderID means the checkout endpoint answered 2xx but did
// not return an order identifier. Treated as a failure, never a success.
var ErrMissingOrderID = errors.New("checkout response is missing order id")

// ErrMissingOrder means the order endpoint answered without an order body.
var ErrMissingOrder = errors.New("order response is missing order")

// AuthError means the server rejected the stored credential (401/404).
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e == nil {
		return "authentication rejected"
	}
	if e.Message != "" {
		return fmt.Sprintf("authentication rejected: %s", e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication rejected: status %d", e.StatusCode)
	}
	return "authentication rejected"
}

// APIMessage returns the server-provided message, if any.
func (e *AuthError) APIMessage() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// IsAuthRequired reports whether err means the user has to (re-)sign in.
func IsAuthRequired(err error) bool {
	if errors.Is(err, ErrAuthRequired) {
		return true
	}
	var ae *AuthError
	return errors.As(err, &ae)
}

// APIError represents a non-2xx response from the Duka API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e == nil {
		return "duka api error"
	}
	if e.Message != "" {
		return fmt.Sprintf("duka api error: status %d: %s", e.StatusCode, e.Message)
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("duka api error: status %d", e.StatusCode)
	}
	b := e.Body
	if len(b) > 1024 {
		b = b[:1024]
	}
	return fmt.Sprintf("duka api error: status %d: %s", e.StatusCode, string(b))
}

// APIMessage returns the server-provided message, if any.
func (e *APIError) APIMessage() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// NetworkError means the request produced no usable HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e == nil || e.Err == nil {
		return "network unavailable"
	}
	return fmt.Sprintf("network unavailable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UserMessage maps any SDK error to the single message a UI should show.
// Server-provided messages are surfaced verbatim; everything else gets a
// category-appropriate generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if IsAuthRequired(err) {
		return "Please sign in to continue."
	}
	var ae *APIError
	if errors.As(err, &ae) {
		if ae.Message != "" {
			return ae.Message
		}
		return "Something went wrong. Please try again."
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Cannot reach the store. Check your connection and try again."
	}
	return "Something went wrong. Please try again."
}

// parseAPIMessage pulls the human-readable message out of an error body.
func parseAPIMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
