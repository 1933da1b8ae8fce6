// Package common defines shared sentinel errors and the backend-agnostic
// constraint violation type used across itemkeeper layers. Callers should
// use errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrConstraintViolation is matched by every *ConstraintViolation,
	// whatever backend produced it.
	ErrConstraintViolation = errors.New("constraint violation")

	// Service-level errors.
	ErrorValidation = errors.New("validation error")

	// Wiring errors.
	ErrUnknownBackend = errors.New("unknown backend")
)

// ConstraintViolation reports a uniqueness conflict detected by the storage
// engine. Err keeps the original driver error.
type ConstraintViolation struct {
	Constraint string
	Message    string
	Err        error
}

// NewConstraintViolation wraps a driver error.
func NewConstraintViolation(constraint, message string, err error) *ConstraintViolation {
	return &ConstraintViolation{Constraint: constraint, Message: message, Err: err}
}

func (e *ConstraintViolation) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Constraint != "" {
		return fmt.Sprintf("constraint violation (%s): %s", e.Constraint, msg)
	}
	return fmt.Sprintf("constraint violation: %s", msg)
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConstraintViolation) true for any violation.
func (e *ConstraintViolation) Is(target error) bool {
	return target == ErrConstraintViolation
}

// IsConstraintViolation reports whether err (or anything it wraps) is a
// uniqueness conflict.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}
