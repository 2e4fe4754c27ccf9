// Package render turns a TypedRecord into a downloadable document.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
)

// Renderer writes a record in one output format
type Renderer interface {
	Name() string
	ContentType() string
	Extension() string
	Render(w io.Writer, record loadsheet.TypedRecord) error
}

// Default is the format used when a request names none
const Default = "pdf"

var renderers = map[string]Renderer{
	"pdf":  PDF{},
	"xlsx": XLSX{},
	"json": JSON{},
	"text": Text{},
}

// ByName returns the renderer for a format name. The empty name selects
// Default.
func ByName(name string) (Renderer, error) {
	if name == "" {
		name = Default
	}
	r, ok := renderers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return r, nil
}

// Names lists the supported formats
func Names() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
