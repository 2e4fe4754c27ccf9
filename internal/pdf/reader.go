package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
)

// Reader turns PDF bytes into line-ordered page text
type Reader struct {
	maxFileSize int64
	validate    bool
	logger      *slog.Logger
}

// NewReader creates a new PDF reader with the specified constraints. With
// validate set, documents must pass pdfcpu's relaxed validation first.
func NewReader(maxFileSize int64, validate bool, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		maxFileSize: maxFileSize,
		validate:    validate,
		logger:      logger,
	}
}

// ReadFile reads a PDF from disk
func (r *Reader) ReadFile(path string) (*ReadResult, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if fileInfo.Size() > r.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, fileInfo.Size(), r.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	return r.Read(data)
}

// Read extracts the text of every page. Pages whose text cannot be
// extracted become nil pages; a document that cannot be opened at all is
// reported as loadsheet.ErrUnreadableDocument.
func (r *Reader) Read(data []byte) (*ReadResult, error) {
	if len(data) == 0 {
		return nil, loadsheet.Unreadable(fmt.Errorf("file is empty"))
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, len(data), r.maxFileSize)
	}

	if r.validate {
		conf := model.NewDefaultConfiguration()
		conf.ValidationMode = model.ValidationRelaxed
		if err := api.Validate(bytes.NewReader(data), conf); err != nil {
			return nil, loadsheet.Unreadable(fmt.Errorf("validation failed: %w", err))
		}
	}

	pdfReader, err := openReader(data)
	if err != nil {
		return nil, loadsheet.Unreadable(err)
	}

	return r.extractPages(pdfReader), nil
}

// openReader guards against panics inside the parser on malformed input
func openReader(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reader, err = nil, fmt.Errorf("failed to open PDF: %v", rec)
		}
	}()

	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return reader, nil
}

func (r *Reader) extractPages(pdfReader *pdf.Reader) *ReadResult {
	numPages := pdfReader.NumPage()
	result := &ReadResult{
		Document: loadsheet.Document{Pages: make([]*string, numPages)},
		Pages:    numPages,
	}

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		text, err := pageText(pdfReader, pageNum)
		if err != nil {
			// Continue with other pages even if one fails
			r.logger.Debug("page text unavailable", "page", pageNum, "error", err)
			result.FailedPages = append(result.FailedPages, pageNum)
			continue
		}
		result.Document.Pages[pageNum-1] = &text
	}

	return result
}

// pageText returns the plain text stream of one page. Every text object
// starts on a new line, so the newline opening the first one is dropped.
func pageText(pdfReader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: %v", pageNum, rec)
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: no page object", pageNum)
	}

	plain, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", pageNum, err)
	}
	return strings.TrimPrefix(plain, "\n"), nil
}
