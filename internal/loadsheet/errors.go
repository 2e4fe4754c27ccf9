package loadsheet

import (
	"errors"
	"fmt"
)

// Document-level failures. These are the only errors that leave the package;
// field-level problems degrade to empty or zero values instead.
var (
	ErrUnreadableDocument   = errors.New("document cannot be read")
	ErrEmptyDocument        = errors.New("document has no extractable text")
	ErrInsufficientDocument = errors.New("document has too few lines")
)

// DocumentError describes why a whole document was rejected
type DocumentError struct {
	Kind     error // one of the Err*Document sentinels
	Lines    int
	Required int
	Err      error // underlying cause, if any
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	switch {
	case e.Kind == ErrInsufficientDocument:
		return fmt.Sprintf("%s: got %d, need at least %d", e.Kind, e.Lines, e.Required)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

// Unwrap exposes both the sentinel kind and the underlying cause to errors.Is
func (e *DocumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unreadable wraps a decoding failure as ErrUnreadableDocument
func Unreadable(err error) error {
	return &DocumentError{Kind: ErrUnreadableDocument, Err: err}
}

// MissReason explains why a locator produced no tokens
type MissReason int

const (
	MissOutOfRange MissReason = iota
	MissNoKeyword
)

// String returns a string representation of the MissReason
func (r MissReason) String() string {
	switch r {
	case MissOutOfRange:
		return "OUT_OF_RANGE"
	case MissNoKeyword:
		return "NO_KEYWORD_MATCH"
	default:
		return "UNKNOWN"
	}
}

// Miss records a locator that found nothing. It is informational only.
type Miss struct {
	Locator string
	Reason  MissReason
}
