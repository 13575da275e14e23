package errors

import "errors"

// Common errors used throughout the application
var (
	// Store errors
	ErrNoteNotFound = errors.New("note not found")

	// Validation errors
	ErrEmptyNote             = errors.New("note needs a title or a body")
	ErrInvalidBoolean        = errors.New("invalid boolean value (use true/false)")
	ErrUnknownConfigKey      = errors.New("unknown configuration key")
	ErrInvalidNoteID         = errors.New("invalid note ID")
	ErrInvalidEmptyQueryMode = errors.New("invalid empty query mode (use none/all)")
	ErrInvalidLimit          = errors.New("limit must not be negative")
	ErrInvalidLogFormat      = errors.New("invalid log format (use console/json)")
)
