package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
)

// Text renders the record as an aligned two-column table
type Text struct{}

func (Text) Name() string        { return "text" }
func (Text) Extension() string   { return "txt" }
func (Text) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements Renderer
func (Text) Render(w io.Writer, record loadsheet.TypedRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, entry := range record {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", entry.Label, entry.Value); err != nil {
			return err
		}
	}
	return tw.Flush()
}
