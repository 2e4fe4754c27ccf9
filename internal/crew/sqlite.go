package crew

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS crew_codes (
	registration TEXT    NOT NULL,
	position     INTEGER NOT NULL,
	crew_id      TEXT    NOT NULL,
	doi          TEXT,
	PRIMARY KEY (registration, position)
);
CREATE INDEX IF NOT EXISTS crew_codes_lookup ON crew_codes (registration, crew_id, position);
`

// SQLiteProvider serves crew tables imported into a SQLite database
type SQLiteProvider struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single connection keeps :memory: databases coherent
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create crew schema: %w", err)
	}

	logger.Debug("crew database ready", "path", path)
	return &SQLiteProvider{db: db, logger: logger}, nil
}

// Close releases the database
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

// Lookup implements Provider. The first row in table order wins, and a
// matching row without a DOI column yields no result.
func (p *SQLiteProvider) Lookup(ctx context.Context, registration, crewID string) (string, bool) {
	var doi sql.NullString
	err := p.db.QueryRowContext(ctx,
		`SELECT doi FROM crew_codes WHERE registration = ? AND crew_id = ? ORDER BY position LIMIT 1`,
		registration, crewID,
	).Scan(&doi)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false
	case err != nil:
		p.logger.Warn("crew lookup failed", "registration", registration, "error", err)
		return "", false
	case !doi.Valid:
		return "", false
	}
	return doi.String, true
}

// Import replaces the stored table for registration with rows, keeping row
// order. Rows with no columns are skipped.
func (p *SQLiteProvider) Import(ctx context.Context, registration string, rows [][]string) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM crew_codes WHERE registration = ?`, registration); err != nil {
		return 0, fmt.Errorf("clear %s: %w", registration, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO crew_codes (registration, position, crew_id, doi) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		var doi sql.NullString
		if len(row) > DOIColumn {
			doi = sql.NullString{String: row[DOIColumn], Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, registration, n, row[0], doi); err != nil {
			return 0, fmt.Errorf("insert %s row %d: %w", registration, n, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
