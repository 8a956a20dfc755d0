package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedContentType is returned when the content type is not recognized
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrInvalidURL is returned when a URL is malformed or not http(s)
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidAddress is returned when an Ethereum address is malformed
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnsupportedImageType is returned when the image type is not in the allow-list
	ErrUnsupportedImageType = errors.New("unsupported image type")

	// ErrImageTooLarge is returned when the image exceeds the size ceiling
	ErrImageTooLarge = errors.New("image exceeds maximum size")

	// ErrEmptyImage is returned when the image payload is empty
	ErrEmptyImage = errors.New("image is empty")

	// ErrMissingPrimaryURL is returned when metadata is built before the image is stored
	ErrMissingPrimaryURL = errors.New("image primary URL is missing")

	// ErrDuplicateExact is returned when an identical Evermark already exists
	ErrDuplicateExact = errors.New("an Evermark for this content already exists")

	// ErrDuplicateNeedsOverride is returned when a likely duplicate exists and the caller did not override
	ErrDuplicateNeedsOverride = errors.New("a likely duplicate Evermark exists")

	// ErrRecordNotFound is returned when an Evermark record is not in the index store
	ErrRecordNotFound = errors.New("evermark not found")

	// ErrSecondaryBackendDisabled is returned when content-addressed replication is not configured
	ErrSecondaryBackendDisabled = errors.New("content-addressed backend disabled")
)

// ValidationError is returned for input that is rejected before any network call
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConfigurationError is returned when a component is misconfigured. It is fatal.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s configuration: %s", e.Component, e.Reason)
}

// StorageError wraps an upload failure. Fatal is false when only the
// secondary backend failed.
type StorageError struct {
	Backend string
	Op      string
	Fatal   bool
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps an index store write failure. It never fails the pipeline.
type PersistenceError struct {
	TokenID string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist evermark %s: %v", e.TokenID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// DuplicateError carries the verdict that blocked a creation
type DuplicateError struct {
	Verdict DuplicateVerdict
}

func (e *DuplicateError) Error() string {
	if e.Verdict.Confidence == DuplicateConfidenceExact {
		return ErrDuplicateExact.Error()
	}
	return ErrDuplicateNeedsOverride.Error()
}

func (e *DuplicateError) Unwrap() error {
	if e.Verdict.Confidence == DuplicateConfidenceExact {
		return ErrDuplicateExact
	}
	return ErrDuplicateNeedsOverride
}
