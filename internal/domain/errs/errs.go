package errs

import (
	"errors"
	"fmt"
)

// NotFoundError represents an entity not found error
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s with ID %v not found", e.Entity, e.ID)
}

// InvalidArgumentError is returned when a caller supplied value breaks a field rule
type InvalidArgumentError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// LimitExceededError is returned when a value is above a configured ceiling
type LimitExceededError struct {
	Field   string
	Value   int
	Limit   int
	Subject string
}

func (e *LimitExceededError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s (%d) exceeds %s (%d) for %s", e.Field, e.Value, limitName(e.Field), e.Limit, e.Subject)
	}
	return fmt.Sprintf("%s (%d) exceeds limit (%d)", e.Field, e.Value, e.Limit)
}

func limitName(field string) string {
	if field == "quantity" {
		return "max_occurrence"
	}
	return "limit"
}

// ConflictError represents a data conflict error
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// UnsupportedMediaError is returned for uploads outside the allow-list
type UnsupportedMediaError struct {
	ContentType string
	Allowed     []string
}

func (e *UnsupportedMediaError) Error() string {
	return fmt.Sprintf("unsupported file type %q, allowed: %v", e.ContentType, e.Allowed)
}

// PayloadTooLargeError is returned for uploads above the size ceiling
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("file too large (%d bytes), maximum size: %d bytes", e.Size, e.Limit)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInvalidArgument checks if an error is an InvalidArgumentError
func IsInvalidArgument(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// IsLimitExceeded checks if an error is a LimitExceededError
func IsLimitExceeded(err error) bool {
	var target *LimitExceededError
	return errors.As(err, &target)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsRejectedUpload reports whether err is an upload type or size rejection
func IsRejectedUpload(err error) bool {
	var media *UnsupportedMediaError
	var size *PayloadTooLargeError
	return errors.As(err, &media) || errors.As(err, &size)
}

// IsClientError reports whether err is caused by the request rather than the system
func IsClientError(err error) bool {
	return IsInvalidArgument(err) || IsLimitExceeded(err) || IsRejectedUpload(err)
}
