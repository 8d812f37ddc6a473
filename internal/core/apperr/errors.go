// Package apperr defines the error taxonomy the core surfaces to the HTTP
// layer. Failures cross the core boundary as typed values from this package,
// never as panics; the route layer owns status-code mapping.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a core failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindExternalService
	KindParseDegraded
	KindRender
)

// Sentinel conditions that callers branch on with errors.Is.
var (
	// ErrModelOverloaded marks a model invocation rejected for capacity
	// reasons; it is the only model error that triggers the fallback model.
	ErrModelOverloaded = errors.New("model overloaded")

	// ErrTemplateNotFound marks a render against an unregistered template id.
	ErrTemplateNotFound = errors.New("template not found")
)

// Error carries a kind, a human-readable message and, for external failures,
// the identity of the collaborator that failed.
type Error struct {
	Kind    Kind
	Service string
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Service != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	default:
		return e.Msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a KindValidation error for malformed caller input.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error for a missing referenced entity.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// External builds a KindExternalService error naming the failed collaborator.
func External(service, msg string, err error) *Error {
	return &Error{Kind: KindExternalService, Service: service, Msg: msg, Err: err}
}

// ParseDegraded signals that the model response parser fell back to a default
// or partial document. Not a hard failure: generation may still succeed, the
// caller is informed content may be incomplete.
func ParseDegraded(format string, args ...any) *Error {
	return &Error{Kind: KindParseDegraded, Msg: fmt.Sprintf(format, args...)}
}

// Render builds a KindRender error. Pass ErrTemplateNotFound as err for the
// unknown-template case so callers can branch on it.
func Render(msg string, err error) *Error {
	return &Error{Kind: KindRender, Msg: msg, Err: err}
}

// KindOf extracts the Kind from any error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool       { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool         { return KindOf(err) == KindNotFound }
func IsParseDegraded(err error) bool    { return KindOf(err) == KindParseDegraded }
func IsTemplateNotFound(err error) bool { return errors.Is(err, ErrTemplateNotFound) }
