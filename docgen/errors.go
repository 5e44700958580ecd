package docgen

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines document generation error kinds.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindUnavailable ErrorKind = "unavailable"
	KindUpstream    ErrorKind = "upstream"
	KindTimeout     ErrorKind = "timeout"
	KindCanceled    ErrorKind = "canceled"
	KindInternal    ErrorKind = "internal"
	KindNotImpl     ErrorKind = "not_implemented"
)

// DocError wraps errors with a kind and, for validation failures, the
// offending field names.
type DocError struct {
	Kind   ErrorKind
	Msg    string
	Err    error
	Fields []string
}

func (e *DocError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *DocError) Unwrap() error {
	return e.Err
}

// NewError creates a new document error.
func NewError(kind ErrorKind, msg string, err error) *DocError {
	return &DocError{Kind: kind, Msg: msg, Err: err}
}

// NewValidationError creates a validation error naming the failing fields.
func NewValidationError(msg string, fields ...string) *DocError {
	return &DocError{Kind: KindValidation, Msg: msg, Fields: append([]string(nil), fields...)}
}

// FieldsFromError returns the field names attached to a validation error.
func FieldsFromError(err error) []string {
	var docErr *DocError
	if errors.As(err, &docErr) {
		return docErr.Fields
	}
	return nil
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()

	var docErr *DocError
	if errors.As(err, &docErr) {
		kind = docErr.Kind
		if docErr.Msg != "" {
			msg = docErr.Msg
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		kind = KindCanceled
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindUnavailable:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("rendering_unavailable")
	case KindUpstream:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("upstream")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its document error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var docErr *DocError
	if errors.As(err, &docErr) {
		return docErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}
