// Package errors provides the error taxonomy for pricemap.
// Every failure a visitor can trigger falls into one of four kinds: the
// backend could not be reached, the backend answered with a non-success
// status, the input failed validation, or the backend rejected a duplicate.
// All four collapse to one short user-visible message; the typed errors
// exist so that callers can log and map them precisely.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are the standard library functions, re-exported so callers
// need only one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates the backend rejected a duplicate row
	ErrConflict = errors.New("conflict")

	// ErrUnavailable indicates the backend could not be reached or failed
	ErrUnavailable = errors.New("backend unavailable")

	// ErrRateLimited indicates that the backend rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrCanceled indicates that an operation was canceled or superseded
	ErrCanceled = errors.New("operation canceled")

	// ErrNotLoaded indicates that no directory snapshot has been loaded yet
	ErrNotLoaded = errors.New("directory not loaded")
)

// User-visible messages. These mirror the copy on the public site.
const (
	MsgLoadFailed       = "載入失敗，請稍後再試"
	MsgSubmitFailed     = "送出失敗，請稍後再試。"
	MsgNameRequired     = "請填寫診所名稱。"
	MsgPriceRequired    = "請至少填寫一個劑量的價格。"
	MsgReasonRequired   = "請填寫刪除原因。"
	MsgTargetRequired   = "Missing target id."
	MsgDeletionPending  = "此資料已經有人申請刪除，正在審核中。"
	MsgNotFound         = "找不到資料"
	MsgInvalidParameter = "參數錯誤"
)

// Kind classifies an error into the taxonomy shared by the API and CLI.
type Kind string

const (
	// KindNone is returned for a nil error.
	KindNone Kind = ""
	// KindNetwork is a transport failure (DNS, connect, TLS, timeout).
	KindNetwork Kind = "network"
	// KindStatus is a non-success HTTP status from the backend.
	KindStatus Kind = "status"
	// KindValidation is a rejected user input, caught before any network call.
	KindValidation Kind = "validation"
	// KindConflict is a duplicate pending row rejected by the backend.
	KindConflict Kind = "conflict"
	// KindNotFound is a missing location.
	KindNotFound Kind = "not_found"
	// KindCanceled is an abandoned request.
	KindCanceled Kind = "canceled"
	// KindInternal is anything else.
	KindInternal Kind = "internal"
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure. Message is the
// short text shown to the visitor.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents a non-success response from the backend.
type APIError struct {
	Table      string
	Method     string
	StatusCode int
	Code       string // backend error code, e.g. a Postgres SQLSTATE
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	target := e.Table
	if e.Method != "" {
		target = e.Method + " " + e.Table
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend error from %s (status %d): %s", target, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error from %s: %s", target, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrUnavailable
	case e.StatusCode == http.StatusNotFound:
		return target == ErrNotFound
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(table string, statusCode int, message string) *APIError {
	return &APIError{
		Table:      table,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NetworkError represents a transport failure talking to the backend.
type NetworkError struct {
	Operation string
	URL       string
	Err       error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s %s: %v", e.Operation, e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *NetworkError) Is(target error) bool {
	return target == ErrUnavailable
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, url string, err error) *NetworkError {
	return &NetworkError{Operation: operation, URL: url, Err: err}
}

// ConflictError indicates a duplicate row, e.g. a second pending
// deletion request for the same location.
type ConflictError struct {
	Resource string
	ID       string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("conflict on %s %s: %s", e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError creates a new ConflictError
func NewConflictError(resource, id, message string, err error) *ConflictError {
	return &ConflictError{Resource: resource, ID: id, Message: message, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when decoding backend payloads
type ParseError struct {
	Format  string // "json", "yaml", ...
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConflict checks if an error is a duplicate/conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsUnavailable checks if the backend could not serve the request
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Classify returns the Kind of err.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var (
		validation *ValidationError
		conflict   *ConflictError
		notFound   *NotFoundError
		network    *NetworkError
		api        *APIError
	)
	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &conflict):
		return KindConflict
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.Is(err, ErrCanceled):
		return KindCanceled
	case errors.As(err, &network):
		return KindNetwork
	case errors.As(err, &api):
		return KindStatus
	}
	return KindInternal
}

// UserMessage collapses err to the single short message a visitor sees.
// Validation errors keep their own message since it names the missing field.
func UserMessage(err error) string {
	var validation *ValidationError
	switch Classify(err) {
	case KindNone:
		return ""
	case KindValidation:
		if errors.As(err, &validation) && validation.Message != "" {
			return validation.Message
		}
		return MsgInvalidParameter
	case KindConflict:
		return MsgDeletionPending
	case KindNotFound:
		return MsgNotFound
	}
	return MsgSubmitFailed
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(table string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Table:      table,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
