package report

import (
	"errors"

	"github.com/google/uuid"

	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
)

// Request is an uploaded document plus the operator inputs
type Request struct {
	Data     []byte
	FileName string
	Inputs   loadsheet.Inputs
	Profile  string // empty selects the default profile
}

// FileRequest addresses a document inside the document directory
type FileRequest struct {
	Path    string
	Inputs  loadsheet.Inputs
	Profile string
}

// Result is a processed report
type Result struct {
	RequestID   uuid.UUID
	Profile     string
	Record      loadsheet.TypedRecord
	Misses      []loadsheet.Miss
	Pages       int
	FailedPages []int
	Lines       int
}

// IsClientError reports whether err was caused by the request or the
// document rather than by the service.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		loadsheet.ErrUnreadableDocument,
		loadsheet.ErrEmptyDocument,
		loadsheet.ErrInsufficientDocument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
