// util/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies service errors. Controllers never branch on raw errors;
// the respond package maps a Kind to an HTTP status exactly once.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Message is the user-facing text, without any wrapped cause.
func (e *Error) Message() string { return e.msg }

func New(k Kind, msg string) error { return &Error{kind: k, msg: msg} }

func Newf(k Kind, format string, args ...any) error {
	return &Error{kind: k, msg: fmt.Sprintf(format, args...)}
}

func Wrap(k Kind, msg string, err error) error {
	return &Error{kind: k, msg: msg, err: err}
}

// KindOf extracts the kind from anywhere in the chain. Plain errors count as
// internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return KindInternal
}

// UserMessage is the message safe to surface to clients. Internal errors get
// a generic one.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.kind != KindInternal {
		return ae.msg
	}
	return "internal error"
}
