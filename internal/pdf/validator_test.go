package pdf

import (
	"strings"
	"testing"
)

func TestValidator_ValidateUpload(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit

	tests := []struct {
		name        string
		info        UploadInfo
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid upload",
			info: UploadInfo{Name: "loadsheet.pdf", Size: 2048},
		},
		{
			name: "upper case extension",
			info: UploadInfo{Name: "LOADSHEET.PDF", Size: 2048},
		},
		{
			name: "no name sent",
			info: UploadInfo{Size: 2048},
		},
		{
			name:        "empty file",
			info:        UploadInfo{Name: "loadsheet.pdf", Size: 0},
			expectError: true,
			errorMsg:    "file is empty",
		},
		{
			name:        "too large",
			info:        UploadInfo{Name: "loadsheet.pdf", Size: 2 * 1024 * 1024},
			expectError: true,
			errorMsg:    "file too large",
		},
		{
			name:        "wrong extension",
			info:        UploadInfo{Name: "loadsheet.txt", Size: 10},
			expectError: true,
			errorMsg:    "file is not a PDF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateUpload(tt.info)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	if validator.MaxFileSize() != 1024*1024 {
		t.Errorf("unexpected max file size %d", validator.MaxFileSize())
	}
}
