package apperr

import (
	"errors"
	"fmt"
)

/**
 * @file: apperr.go
 * @description: typed errors carried from services to the router layer
 */

type Kind int

const (
	KindInternal Kind = iota
	KindOAuth
	KindAuthentication
	KindPermission
	KindNotFound
	KindValidation
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func OAuth(msg string, err error) *Error {
	return Wrap(KindOAuth, msg, err)
}

func Authentication(msg string) *Error {
	return New(KindAuthentication, msg)
}

func Permission(msg string) *Error {
	return New(KindPermission, msg)
}

func NotFound(msg string) *Error {
	return New(KindNotFound, msg)
}

func Validation(msg string) *Error {
	return New(KindValidation, msg)
}

// KindOf extracts the kind of err, defaulting to KindInternal for
// untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
