// SPDX-License-Identifier: MIT

// Package validate accumulates configuration validation errors so that a
// single run reports every problem at once.
package validate

import (
	"fmt"
	"strings"
)

// Error is one failed rule.
type Error struct {
	Field   string
	Value   any
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// ValidationError is returned by Validator.Err and carries every failure.
type ValidationError struct {
	errors []Error
}

func (e ValidationError) Errors() []Error {
	return e.errors
}

func (e ValidationError) Error() string {
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validator collects failures. The zero value is ready to use.
type Validator struct {
	errors []Error
}

func New() *Validator {
	return &Validator{}
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string, value any) {
	v.errors = append(v.errors, Error{Field: field, Value: value, Message: message})
}

func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

func (v *Validator) Errors() []Error {
	return v.errors
}

// Err returns nil when valid, otherwise a ValidationError holding a copy of
// the failures collected so far.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return ValidationError{errors: append([]Error(nil), v.errors...)}
}
