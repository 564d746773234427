// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Input errors.
	ErrMalformedInput    = errors.New("malformed input")
	ErrUnparseableField  = errors.New("unparseable field")
	ErrEmptyInput        = errors.New("empty input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidFilter     = errors.New("invalid filter")

	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MalformedInputError reports an export that cannot be processed at all.
type MalformedInputError struct {
	Err     error
	Missing []string
}

func (e *MalformedInputError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing required column(s): %s", ErrMalformedInput, strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrMalformedInput, e.Err)
	}
	return ErrMalformedInput.Error()
}

// Is makes errors.Is(err, ErrMalformedInput) hold for every MalformedInputError.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// NewMissingColumnsError creates a MalformedInputError naming the absent columns.
func NewMissingColumnsError(missing []string) error {
	return &MalformedInputError{Missing: missing}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
