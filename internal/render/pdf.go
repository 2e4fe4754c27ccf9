package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
)

// PDF layout constants, in points on an A4 portrait page
const (
	pdfTableWidth  = 360
	pdfLineHeight  = 20
	pdfFontSize    = 11
	pdfPageMargin  = 48
	pdfBorderWidth = 1
)

// PDF renders the record as a single-page report: a two-column table with
// a black grid, centered cells and no header row.
type PDF struct{}

func (PDF) Name() string        { return "pdf" }
func (PDF) Extension() string   { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }

// layout mirrors the subset of pdfcpu's JSON page description used here
type pdfLayout struct {
	Paper  string             `json:"paper"`
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfContent struct {
	Table []pdfTable `json:"table"`
}

type pdfTable struct {
	Values     [][]string `json:"values"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Width      float64    `json:"width"`
	LineHeight int        `json:"lheight"`
	Anchor     string     `json:"anchor"`
	ColAnchors []string   `json:"colAnchors"`
	Grid       bool       `json:"grid"`
	Font       pdfFont    `json:"font"`
	Border     pdfBorder  `json:"border"`
	Margin     pdfMargin  `json:"margin"`
}

type pdfFont struct {
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Color string `json:"col"`
}

type pdfBorder struct {
	Width int    `json:"width"`
	Color string `json:"col"`
}

type pdfMargin struct {
	Width float64 `json:"width"`
}

// Render implements Renderer
func (PDF) Render(w io.Writer, record loadsheet.TypedRecord) error {
	values := make([][]string, 0, len(record))
	for _, entry := range record {
		values = append(values, []string{entry.Label, entry.Value.String()})
	}

	// pdfcpu tables need at least one row
	rows := max(len(values), 1)

	layout := pdfLayout{
		Paper:  "A4",
		Origin: "UpperLeft",
		Pages: map[string]pdfPage{
			"1": {Content: pdfContent{Table: []pdfTable{{
				Values:     values,
				Rows:       rows,
				Cols:       2,
				Width:      pdfTableWidth,
				LineHeight: pdfLineHeight,
				Anchor:     "tc",
				ColAnchors: []string{"Center", "Center"},
				Grid:       true,
				Font:       pdfFont{Name: "Helvetica", Size: pdfFontSize, Color: "Black"},
				Border:     pdfBorder{Width: pdfBorderWidth, Color: "Black"},
				Margin:     pdfMargin{Width: pdfPageMargin},
			}}}},
		},
	}

	desc, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("pdf layout: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.Create(nil, bytes.NewReader(desc), w, conf); err != nil {
		return fmt.Errorf("pdf create: %w", err)
	}
	return nil
}
