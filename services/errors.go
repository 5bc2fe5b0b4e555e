package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure so transport layers can pick a
// status code and a safe user-facing message without inspecting internals.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindOwnership
	KindConflict
	KindAuthentication
	KindInternal
)

// Error is the uniform failure value returned by every service operation.
// MessageKey and Fields carry translation keys, never final strings: the
// transport resolves them against the viewer's language.
type Error struct {
	Kind       ErrorKind
	MessageKey string
	// Fields maps input field names to per-field translation keys for
	// validation failures surfaced back to the user.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.MessageKey, e.Err)
	}
	return e.MessageKey
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports bad input shape with a single message key.
func Validation(key string) error {
	return &Error{Kind: KindValidation, MessageKey: key}
}

// FieldValidation reports per-field validation failures.
func FieldValidation(fields map[string]string) error {
	return &Error{Kind: KindValidation, MessageKey: "validation.failed", Fields: fields}
}

// NotFound reports an absent resource.
func NotFound(key string) error {
	return &Error{Kind: KindNotFound, MessageKey: key}
}

// Ownership reports an authenticated but unauthorized mutation attempt.
func Ownership(key string) error {
	return &Error{Kind: KindOwnership, MessageKey: key}
}

// Conflict reports a uniqueness violation, optionally pinned to one field.
func Conflict(key, field string) error {
	e := &Error{Kind: KindConflict, MessageKey: key}
	if field != "" {
		e.Fields = map[string]string{field: key}
	}
	return e
}

// Authentication reports a missing or invalid identity.
func Authentication(key string) error {
	return &Error{Kind: KindAuthentication, MessageKey: key}
}

// Internal wraps an unexpected failure. Detail stays server-side; callers
// only ever see the generic message key.
func Internal(err error) error {
	return &Error{Kind: KindInternal, MessageKey: "errors.internal", Err: err}
}

// KindOf extracts the kind from any error in the chain, defaulting to
// KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageKeyOf returns the translation key for err, or the generic internal
// key when err did not originate in a service.
func MessageKeyOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.MessageKey
	}
	return "errors.internal"
}

// FieldsOf returns per-field translation keys when present.
func FieldsOf(err error) map[string]string {
	var se *Error
	if errors.As(err, &se) {
		return se.Fields
	}
	return nil
}
