package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store and validation failures
type ErrorKind int

const (
	KindInternal     ErrorKind = iota // anything not classified below
	KindInvalidInput                  // item text failed validation
	KindInvalidID                     // id is malformed for the backend
	KindNotFound                      // a record that must exist is absent
	KindUnavailable                   // the store cannot be reached
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindInvalidID:
		return "invalid id"
	case KindNotFound:
		return "not found"
	case KindUnavailable:
		return "store unavailable"
	default:
		return "internal error"
	}
}

// Error is the error type returned across the store and web boundary
type Error struct {
	Kind ErrorKind
	Op   string // operation that failed, e.g. "create"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, KindInternal if err carries none
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client facing message of err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindInvalidInput && e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.String()
	}
	return KindInternal.String()
}
