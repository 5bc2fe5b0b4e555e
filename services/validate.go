package services

import (
	"net/mail"
	"regexp"
	"strings"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 100
	MinPasswordLen = 8

	// Feed pagination bounds. Out-of-range values are clamped, not rejected.
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateUsername enforces 3-100 chars of [A-Za-z0-9_-].
func ValidateUsername(username string) error {
	if l := len(username); l < MinUsernameLen || l > MaxUsernameLen {
		return Validation("validation.username_length")
	}
	if !usernamePattern.MatchString(username) {
		return Validation("validation.username_format")
	}
	return nil
}

// ValidateEmail requires an RFC-parseable address with no display name.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Validation("validation.email_format")
	}
	return nil
}

// ValidatePassword enforces the canonical minimum length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return Validation("validation.password_length")
	}
	return nil
}

// ValidateContent trims and rejects blank post/comment bodies. The trimmed
// content is what gets persisted.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", Validation("validation.empty_content")
	}
	return trimmed, nil
}

// ClampPage bounds limit to [1,MaxPageLimit] and offset to >= 0.
func ClampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
