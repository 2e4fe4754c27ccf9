package pdf

import "github.com/a3tai/loadsheet-reader/internal/loadsheet"

// ReadResult is the extracted text of a PDF
type ReadResult struct {
	Document    loadsheet.Document
	Pages       int
	FailedPages []int // 1-based pages whose text could not be extracted
}

// UploadInfo describes an uploaded file before it is read
type UploadInfo struct {
	Name string
	Size int64
}
