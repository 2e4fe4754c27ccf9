package render

import (
	"encoding/json"
	"io"

	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
)

// JSON renders the record as an ordered array of {label, value} objects.
// Integer values stay JSON numbers.
type JSON struct{}

func (JSON) Name() string        { return "json" }
func (JSON) Extension() string   { return "json" }
func (JSON) ContentType() string { return "application/json" }

// Render implements Renderer
func (JSON) Render(w io.Writer, record loadsheet.TypedRecord) error {
	if record == nil {
		record = loadsheet.TypedRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
