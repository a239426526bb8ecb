package storage

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Sentinel errors for download failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrNotFound indicates the object key or bucket does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrAccessDenied indicates valid credentials without permission.
	ErrAccessDenied = errors.New("access denied")

	// ErrAuth indicates missing or rejected credentials.
	ErrAuth = errors.New("authentication failed")

	// ErrThrottled indicates the provider is rate limiting requests.
	ErrThrottled = errors.New("rate limited")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrUnavailable covers every other upstream failure.
	ErrUnavailable = errors.New("storage unavailable")
)

// StorageError wraps an underlying error with a classification sentinel.
// The original error stays in the chain for errors.As inspection.
type StorageError struct {
	// Kind is the sentinel error for classification (e.g. ErrNotFound).
	Kind error
	// Op is the operation that failed.
	Op string
	// Key is the object key involved, if any.
	Key string
	// Err is the underlying error.
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Key, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *StorageError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// NewStorageError creates a classified storage error.
func NewStorageError(kind error, op, key string, err error) *StorageError {
	return &StorageError{
		Kind: kind,
		Op:   op,
		Key:  key,
		Err:  err,
	}
}

// classify maps an S3 request error to a sentinel. Typed smithy API
// errors are matched by code; anything else falls through on the
// Timeout() interface and then ErrUnavailable.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return ErrNotFound
		case "AccessDenied", "Forbidden":
			return ErrAccessDenied
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "Unauthorized":
			return ErrAuth
		case "SlowDown", "TooManyRequests", "Throttling":
			return ErrThrottled
		case "RequestTimeout":
			return ErrTimeout
		}
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrTimeout
	}

	return ErrUnavailable
}
