package crew

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/a3tai/loadsheet-reader/internal/security"
)

// CSVProvider reads <registration>.csv tables from a directory. Tables are
// read on every lookup so edits take effect without a restart.
type CSVProvider struct {
	paths  *security.PathValidator
	logger *slog.Logger
}

// NewCSVProvider creates a provider over the given table directory
func NewCSVProvider(dir string, logger *slog.Logger) (*CSVProvider, error) {
	paths, err := security.NewPathValidator(dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVProvider{paths: paths, logger: logger}, nil
}

// Lookup implements Provider
func (p *CSVProvider) Lookup(_ context.Context, registration, crewID string) (string, bool) {
	path, err := p.paths.ResolveFile(registration + ".csv")
	if err != nil {
		p.logger.Debug("crew table name rejected", "registration", registration, "error", err)
		return "", false
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false
	}
	if err != nil {
		p.logger.Warn("cannot open crew table", "path", path, "error", err)
		return "", false
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		p.logger.Warn("cannot read crew table", "path", path, "error", err)
		return "", false
	}

	return findDOI(rows, crewID)
}

// Tables returns the registrations that have a CSV table in the directory
func (p *CSVProvider) Tables() ([]string, error) {
	entries, err := os.ReadDir(p.paths.GetConfiguredDirectory())
	if err != nil {
		return nil, err
	}

	var regs []string
	for _, e := range entries {
		reg, ok := strings.CutSuffix(e.Name(), ".csv")
		if e.IsDir() || !ok || reg == "" {
			continue
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// ReadTable returns all rows of a registration's table
func (p *CSVProvider) ReadTable(registration string) ([][]string, error) {
	path, err := p.paths.ResolveFile(registration + ".csv")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readRows(f)
}
