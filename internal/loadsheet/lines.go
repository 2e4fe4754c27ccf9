package loadsheet

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Document is the extracted text of a report, one entry per page in reading
// order. A nil page means text extraction failed for that page.
type Document struct {
	Pages []*string
}

// NewDocument builds a Document from page texts; every page is present.
func NewDocument(pages ...string) Document {
	doc := Document{Pages: make([]*string, len(pages))}
	for i := range pages {
		p := pages[i]
		doc.Pages[i] = &p
	}
	return doc
}

// LineSequence is the ordered line view of a Document
type LineSequence []string

// BuildLines concatenates the lines of every page in order. Blank lines are
// kept; pages without text contribute nothing.
func BuildLines(doc Document) LineSequence {
	lines := LineSequence{}
	for _, page := range doc.Pages {
		if page == nil || *page == "" {
			continue
		}
		lines = append(lines, splitLines(*page)...)
	}
	return lines
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	parts := strings.Split(text, "\n")
	for i, p := range parts {
		// PDF fonts emit ligatures and full-width digits
		parts[i] = norm.NFKC.String(p)
	}
	return parts
}

// Tokens splits a line on runs of whitespace
func Tokens(line string) []string {
	return strings.Fields(line)
}
