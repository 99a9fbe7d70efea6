package services

import (
	"fmt"
)

// UnauthorizedError is returned when the authorization policy denies an
// action. No store state is touched when it is returned.
type UnauthorizedError struct {
	Action string
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s (%s)", e.Action, e.Reason)
}

// NotFoundError is returned when a referenced user or role does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError is returned on uniqueness violations and on guard
// violations (role still referenced, last remaining admin).
type ConflictError struct {
	Field  string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Reason)
}

// ValidationError is returned when a payload fails shape or format checks.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}
