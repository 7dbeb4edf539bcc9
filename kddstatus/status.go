// Package kddstatus defines the closed error taxonomy carried at every
// public boundary of the engine (§6/§7 of the engine's design).
package kddstatus

import "fmt"

// Code is a closed set of upper-snake-case error codes returned to callers.
type Code string

const (
	NodeNotFound               Code = "NODE_NOT_FOUND"
	QueryTooShort              Code = "QUERY_TOO_SHORT"
	UnknownKind                Code = "UNKNOWN_KIND"
	ManifestNotFound           Code = "MANIFEST_NOT_FOUND"
	IncompatibleVersion        Code = "INCOMPATIBLE_VERSION"
	IncompatibleEmbeddingModel Code = "INCOMPATIBLE_EMBEDDING_MODEL"
	IncompatibleStructure      Code = "INCOMPATIBLE_STRUCTURE"
	ConflictRejected           Code = "CONFLICT_REJECTED"
	InsufficientSources        Code = "INSUFFICIENT_SOURCES"
	NoLocalIndex               Code = "NO_LOCAL_INDEX"
	TransportError             Code = "TRANSPORT_ERROR"
	AgentError                 Code = "AGENT_ERROR"
	DocumentNotFound           Code = "DOCUMENT_NOT_FOUND"
)

// Error is the typed error returned at public boundaries. It always carries
// a Code and a human-readable Message, and may wrap an underlying cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an Error that carries an underlying external-service cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Is reports whether err is a *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if as, ok := err.(*Error); ok {
		e = as
	} else {
		return false
	}
	return e.Code == code
}
