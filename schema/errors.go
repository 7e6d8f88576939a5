package schema

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

// Evaluation error kinds. Every kind is also a KindModel error,
// and the data-not-ready and missing-argument kinds are KindSource errors.
const (
	KindModel ErrorKind = iota
	KindVariable
	KindSource
	KindDataNotReady
	KindMissedQueryArguments
)

// Sentinels for errors.Is checks.
var (
	ErrModel                = &Error{Kind: KindModel, Msg: "evaluation model error"}
	ErrVariable             = &Error{Kind: KindVariable, Msg: "evaluation variable error"}
	ErrSource               = &Error{Kind: KindSource, Msg: "evaluation source error"}
	ErrDataNotReady         = &Error{Kind: KindDataNotReady, Msg: "data not ready"}
	ErrMissedQueryArguments = &Error{Kind: KindMissedQueryArguments, Msg: "missed query arguments"}
)

// Error is the single error type raised inside the evaluation boundary.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches e against a sentinel by kind, honoring the kind hierarchy.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindModel:
		return true
	case KindSource:
		return e.Kind == KindSource || e.Kind == KindDataNotReady || e.Kind == KindMissedQueryArguments
	default:
		return e.Kind == t.Kind
	}
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ModelError builds a generic model error.
func ModelError(format string, args ...any) error { return newError(KindModel, format, args...) }

// VariableError builds a variable precondition error.
func VariableError(format string, args ...any) error {
	return newError(KindVariable, format, args...)
}

// SourceError builds a source precondition error.
func SourceError(format string, args ...any) error { return newError(KindSource, format, args...) }

// DataNotReady builds an error for data that is not collected yet.
func DataNotReady(format string, args ...any) error {
	return newError(KindDataNotReady, format, args...)
}

// MissedQueryArguments builds an error for a query that was not scoped.
func MissedQueryArguments(format string, args ...any) error {
	return newError(KindMissedQueryArguments, format, args...)
}

// WrapModel turns a foreign error into a model error, keeping its text.
// Errors that already belong to the evaluation taxonomy are returned as is.
func WrapModel(err error) error {
	if err == nil || IsEvaluationError(err) {
		return err
	}
	return &Error{Kind: KindModel, Msg: "evaluation failed", Err: err}
}

// IsEvaluationError reports whether err carries an evaluation error kind.
func IsEvaluationError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
