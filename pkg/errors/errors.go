package errors

import (
	"errors"
	"fmt"
)

// ErrorType is the closed set of failure categories surfaced by unit loading
type ErrorType string

const (
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeValidation ErrorType = "validation"
)

// Context keys used by the typed helpers
const (
	ContextPath  = "path"
	ContextChunk = "chunk"
	ContextField = "field"
)

// DomainError represents a structured error with type and context
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if path := e.Path(); path != "" {
		msg += fmt.Sprintf(" (path: %s", path)
		if chunk := e.Chunk(); chunk > 0 {
			msg += fmt.Sprintf(", document: %d", chunk)
		}
		msg += ")"
	}
	if field := e.Field(); field != "" {
		msg += fmt.Sprintf(" [field: %s]", field)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	if other, ok := target.(*DomainError); ok {
		return e.Type == other.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithPath records the file or directory the error originates from
func (e *DomainError) WithPath(path string) *DomainError {
	return e.WithContext(ContextPath, path)
}

// WithChunk records the 1-based document index within a manifest file
func (e *DomainError) WithChunk(chunk int) *DomainError {
	return e.WithContext(ContextChunk, chunk)
}

// WithField records the unit field that failed
func (e *DomainError) WithField(field string) *DomainError {
	return e.WithContext(ContextField, field)
}

func (e *DomainError) Path() string {
	path, _ := e.Context[ContextPath].(string)
	return path
}

// Chunk returns the document index, or 0 when not applicable
func (e *DomainError) Chunk() int {
	chunk, _ := e.Context[ContextChunk].(int)
	return chunk
}

func (e *DomainError) Field() string {
	field, _ := e.Context[ContextField].(string)
	return field
}

// NewDomainError creates a new domain error
func NewDomainError(errorType ErrorType, message string, cause error) *DomainError {
	return &DomainError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

func NewIOError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeIO, message, cause)
}

func NewParseError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeParse, message, cause)
}

func NewValidationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, cause)
}

// Error checking helpers
func IsIOError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeIO
}

func IsParseError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeParse
}

func IsValidationError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Type == ErrorTypeValidation
}

// TypeOf returns the category of the outermost domain error in the chain
func TypeOf(err error) (ErrorType, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type, true
	}
	return "", false
}

// AsDomainError finds the first DomainError in the chain
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
