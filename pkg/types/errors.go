package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure the client can report.
type ErrorKind string

const (
	// KindValidation is a local, pre-network input error.
	KindValidation ErrorKind = "validation"
	// KindNetwork means no response was received.
	KindNetwork ErrorKind = "network"
	// KindUnauthorized is a 401, or a call attempted without a session.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindServer is any other 4xx/5xx, or an undecodable response.
	KindServer ErrorKind = "server"
	// KindGeneration is a domain rule violation around generation.
	KindGeneration ErrorKind = "generation"
)

// APIError is the single error type returned by client operations.
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Details    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.UserMessage()
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage returns the human-readable message for the error, chosen by
// kind and, for server errors, by status code.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindUnauthorized:
		return "Authentication failed. Please login again."
	case KindNetwork:
		return "Network error. Please check your connection."
	case KindServer:
		switch e.StatusCode {
		case http.StatusBadRequest:
			return orDefault(e.Message, "Invalid request. Please check your input.")
		case http.StatusInternalServerError:
			return orDefault(e.Message, "Server error. Please try again later.")
		default:
			return fmt.Sprintf("Error %d: %s", e.StatusCode, orDefault(e.Message, "Unknown error"))
		}
	default:
		return orDefault(e.Message, "Something went wrong. Please try again.")
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ValidationError returns a local validation error.
func ValidationError(format string, args ...any) *APIError {
	return &APIError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// GenerationError returns a generation rule violation.
func GenerationError(format string, args ...any) *APIError {
	return &APIError{Kind: KindGeneration, Message: fmt.Sprintf(format, args...)}
}

// NetworkError wraps a transport failure where no response was received.
func NetworkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: "request failed", Err: err}
}

// UnauthorizedError returns an unauthorized error with the given message.
func UnauthorizedError(msg string) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: msg, StatusCode: http.StatusUnauthorized}
}

// ServerError returns a remote error for the given status.
func ServerError(status int, msg, details string) *APIError {
	return &APIError{Kind: KindServer, Message: msg, StatusCode: status, Details: details}
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindServer && apiErr.StatusCode == http.StatusNotFound
}

// UserMessage returns the user-facing message for any error.
func UserMessage(err error) string {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.UserMessage()
	}
	return err.Error()
}
