package service

import (
	"errors"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("already exists")
	ErrChecklistIncomplete = errors.New("mandatory checklists incomplete")
)

// ValidationError carries the per-item validation messages of a rejected
// response submission. The messages are meant for the caller verbatim.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
