package directory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("user not found")
	ErrNotReady       = errors.New("directory is not ready")
	ErrAlreadyLoaded  = errors.New("directory load already started")
	ErrUnknownField   = errors.New("unknown field")
	ErrNoConfirmation = errors.New("no confirmation prompt")
)

// ValidationError lists the required fields a draft is missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: required fields missing: %s", ErrValidation, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FetchError wraps a failed initial load. It is recorded and logged, never returned to callers.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error fetching users: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
