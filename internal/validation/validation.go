// Package validation holds the pure form validators. Each validator takes the
// raw submitted fields and returns either a typed record or FieldErrors.
package validation

import (
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// Input is raw form data keyed by field name.
type Input map[string]string

// FieldErrors maps a field name to the message shown next to that field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// RuleError is a business rule violation surfaced as a notification rather
// than inline next to a field.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }

// Password change rule violations.
var (
	ErrCurrentPasswordIncorrect = &RuleError{Message: "Current password is incorrect"}
	ErrPasswordTooShort         = &RuleError{Message: msgPasswordLength}
	ErrPasswordMismatch         = &RuleError{Message: msgPasswordMismatch}
)

const (
	minNameLength     = 2
	minUsernameLength = 2
	minPasswordLength = 6

	msgNameRequired     = "Full name is required"
	msgEmailInvalid     = "Enter a valid email"
	msgUsernameRequired = "Username is required"
	msgPasswordLength   = "Password must be at least 6 characters"
	msgConfirmRequired  = "Confirm password"
	msgPasswordMismatch = "Passwords do not match"
	msgRoleInvalid      = "Select a valid role"
)

// result collects field errors while a validator walks its rules.
type result FieldErrors

func (r result) minLength(in Input, field string, n int, msg string) string {
	v := in[field]
	if utf8.RuneCountInString(v) < n {
		r[field] = msg
	}
	return v
}

func (r result) email(in Input, field string) string {
	v := in[field]
	if !validEmail(v) {
		r[field] = msgEmailInvalid
	}
	return v
}

func (r result) err() error {
	if len(r) == 0 {
		return nil
	}
	return FieldErrors(r)
}

func validEmail(v string) bool {
	if v == "" || strings.TrimSpace(v) != v {
		return false
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return false
	}
	at := strings.LastIndexByte(v, '@')
	domain := v[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
