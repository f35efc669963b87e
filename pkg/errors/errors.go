// Package errors defines the typed error taxonomy shared by the ryst SDK.
//
// Every failure surfaced by the SDK is one of three types:
//
//   - InvalidArgumentError: caller-supplied configuration is known to be
//     invalid, or the remote service rejected the request with a 4xx status.
//   - InvalidStateError: required configuration is missing, or a response
//     body could not be parsed as the expected JSON document.
//   - InternalError: the remote service failed with a non-4xx status, or
//     the transport itself failed. Always carries the underlying cause
//     when one exists.
//
// Callers branch on the concrete type with errors.As.
package errors

import "fmt"

// InternalError is returned for failures internal to an operation: a
// non-4xx remote failure or a transport-level error.
type InternalError struct {
	Message string
	Source  error
}

// NewInternalError creates an InternalError with a message and no source.
func NewInternalError(message string) *InternalError {
	return &InternalError{Message: message}
}

// InternalErrorFromSource creates an InternalError wrapping an underlying
// cause, such as a network or TLS failure.
func InternalErrorFromSource(source error) *InternalError {
	return &InternalError{Source: source}
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	switch {
	case e.Message != "" && e.Source != nil:
		return fmt.Sprintf("%s: %s", e.Message, e.Source)
	case e.Source != nil:
		return e.Source.Error()
	default:
		return e.Message
	}
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *InternalError) Unwrap() error {
	return e.Source
}

// InvalidArgumentError is returned when an argument passed to an operation
// does not match the expected format. Param names the offending argument.
type InvalidArgumentError struct {
	Param   string
	Message string
}

// NewInvalidArgumentError creates an InvalidArgumentError for the given
// parameter.
func NewInvalidArgumentError(param, message string) *InvalidArgumentError {
	return &InvalidArgumentError{Param: param, Message: message}
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s (param: %s)", e.Message, e.Param)
	}
	return e.Message
}

// InvalidStateError is returned when an operation cannot be completed
// because required state is missing or inconsistent.
type InvalidStateError struct {
	Message string
}

// NewInvalidStateError creates an InvalidStateError with the given message.
func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

// Error implements the error interface.
func (e *InvalidStateError) Error() string {
	return e.Message
}
