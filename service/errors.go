package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine readable category of a service error
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindState       ErrorKind = "state"
	KindConflict    ErrorKind = "conflict"
	KindGeneration  ErrorKind = "generation"
	KindPersistence ErrorKind = "persistence"
)

// Error is a structured service error with a caller-facing message
type Error struct {
	Kind    ErrorKind
	Message string // shown to the caller
	Err     error  // underlying cause, logged only
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed input
func ValidationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

// NotFoundError reports an unknown game, ticket, club or config
func NotFoundError(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// StateError reports an operation not allowed in the current game or club state
func StateError(format string, args ...interface{}) *Error {
	return newError(KindState, format, args...)
}

// ConflictError reports an operation that was already performed
func ConflictError(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// GenerationError reports that a unique ticket could not be produced
func GenerationError(format string, args ...interface{}) *Error {
	return newError(KindGeneration, format, args...)
}

// PersistenceError wraps a store failure
func PersistenceError(err error, message string) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf returns the kind of err, treating unknown errors as persistence failures
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindPersistence
}

// IsKind reports whether err is a service error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}
