package fit

import (
	"errors"
	"fmt"
)

// Sentinel errors for decode failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrHeaderInvalid indicates the file header violates a structural
	// invariant: bad size byte, missing ".FIT" tag, or a stored header
	// checksum that does not match the header bytes.
	ErrHeaderInvalid = errors.New("invalid file header")

	// ErrTruncated indicates the input ended before the header-declared
	// data size could be read.
	ErrTruncated = errors.New("truncated file")

	// ErrUndefinedLocalMessage indicates a data message referenced a local
	// message number with no prior definition message.
	ErrUndefinedLocalMessage = errors.New("undefined local message type")

	// ErrSizeMismatch indicates a data message payload whose length does
	// not equal the sum of its definition's declared field sizes.
	ErrSizeMismatch = errors.New("field size mismatch")
)

// MalformedMessageError reports a structurally invalid record and the file
// offset of its header byte. It wraps the underlying cause, so callers can
// classify it with errors.Is against the sentinel errors above.
type MalformedMessageError struct {
	Offset int
	Err    error
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("malformed message at byte %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *MalformedMessageError) Unwrap() error {
	return e.Err
}

func malformed(offset int, err error) error {
	return &MalformedMessageError{Offset: offset, Err: err}
}
