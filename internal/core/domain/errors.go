package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrCurrentPasswordMismatch = errors.New("current password is incorrect")
var ErrAccountDisabled = errors.New("user account is disabled")
var ErrForbidden = errors.New("access forbidden")

// ValidationError reports one or more per-field input violations. All
// violations are collected before returning so a client can render every
// problem at once.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func NewValidationError(field string, reasons ...string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: reasons}}
}

// Add appends reasons for a field, creating the entry when absent.
func (e *ValidationError) Add(field string, reasons ...string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], reasons...)
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
