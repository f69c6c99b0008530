package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a pipeline step failed.
type ErrorKind string

const (
	// KindNetwork: the model could not be reached or answered non-2xx.
	KindNetwork ErrorKind = "NetworkError"
	// KindParse: no JSON fragment in the answer, or the fragment is not JSON.
	KindParse ErrorKind = "ParseError"
	// KindValidation: valid JSON with the wrong shape or missing fields.
	KindValidation ErrorKind = "ValidationError"
)

// Error is the typed failure produced inside the pipeline. It never leaves
// the package through the public operations; they log it and fall back.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind carried by err, or "" when err is not a pipeline error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
