// Package crew loads the crew reference list and resolves per-registration
// DOI codes from flat CSV tables or a SQLite database.
package crew

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// DOIColumn is the zero-based column holding the DOI code in a crew table
const DOIColumn = 5

// Provider resolves a DOI code for a crew identifier on a registration.
// Absence of a table or a row is reported with ok=false, never an error.
type Provider interface {
	Lookup(ctx context.Context, registration, crewID string) (doi string, ok bool)
}

// LoadReferenceList returns the first column of every row of the crew
// reference file in file order. Blank first cells are skipped and a missing
// file yields an empty list.
func LoadReferenceList(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open crew list: %w", err)
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read crew list %s: %w", path, err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		ids = append(ids, row[0])
	}
	return ids, nil
}

// readRows reads a whole CSV stream, allowing rows of differing width
func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// findDOI returns the DOI of the first row whose first column equals crewID
func findDOI(rows [][]string, crewID string) (string, bool) {
	for _, row := range rows {
		if len(row) == 0 || row[0] != crewID {
			continue
		}
		if len(row) <= DOIColumn {
			return "", false
		}
		return row[DOIColumn], true
	}
	return "", false
}
