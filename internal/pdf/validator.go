package pdf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileTooLarge is returned for documents over the configured size limit
var ErrFileTooLarge = errors.New("file too large")

// Validator checks uploads before they are parsed
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new upload validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateUpload rejects empty, oversized and non-PDF uploads. The name is
// only checked when the client sent one.
func (v *Validator) ValidateUpload(info UploadInfo) error {
	if info.Size == 0 {
		return fmt.Errorf("file is empty")
	}

	if info.Size > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, info.Size, v.maxFileSize)
	}

	if info.Name != "" && !strings.HasSuffix(strings.ToLower(info.Name), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", info.Name)
	}

	return nil
}

// MaxFileSize returns the configured upload limit
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}
