package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/a3tai/loadsheet-reader/internal/crew"
)

var (
	crewDir      = pflag.String("crewdir", ".", "Directory containing <registration>.csv crew tables")
	sqlitePath   = pflag.String("sqlite", "crew.db", "SQLite database to write")
	registration = pflag.StringSlice("reg", nil, "Only import these registrations (default: all tables)")
	outputFormat = pflag.String("format", "text", "Output format: text, json")
	verbose      = pflag.Bool("verbose", false, "Enable verbose output")
	help         = pflag.Bool("help", false, "Show help message")
)

// tableResult reports one imported table
type tableResult struct {
	Registration string `json:"registration"`
	Rows         int    `json:"rows"`
}

func main() {
	pflag.Parse()

	if *help {
		printHelp()
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()

	src, err := crew.NewCSVProvider(*crewDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dst, err := crew.OpenSQLite(ctx, *sqlitePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer dst.Close()

	results, err := importTables(ctx, src, dst, *registration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing crew tables: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(os.Stdout, *outputFormat, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

// importTables copies the selected CSV tables into the database. An empty
// selection imports every table found in the directory.
func importTables(ctx context.Context, src *crew.CSVProvider, dst *crew.SQLiteProvider, regs []string) ([]tableResult, error) {
	if len(regs) == 0 {
		var err error
		if regs, err = src.Tables(); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
	}

	results := make([]tableResult, 0, len(regs))
	for _, reg := range regs {
		rows, err := src.ReadTable(reg)
		if err != nil {
			return results, fmt.Errorf("read %s: %w", reg, err)
		}

		n, err := dst.Import(ctx, reg, rows)
		if err != nil {
			return results, err
		}
		results = append(results, tableResult{Registration: reg, Rows: n})
	}
	return results, nil
}

func outputResults(w io.Writer, format string, results []tableResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "text":
		if len(results) == 0 {
			_, err := fmt.Fprintln(w, "No crew tables found")
			return err
		}
		total := 0
		for _, r := range results {
			fmt.Fprintf(w, "%-12s %d rows\n", r.Registration, r.Rows)
			total += r.Rows
		}
		_, err := fmt.Fprintf(w, "Imported %d table(s), %d rows\n", len(results), total)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func printHelp() {
	fmt.Println("Crew Import - load per-registration crew CSV tables into a SQLite lookup database")
	fmt.Println()
	fmt.Println("Each <registration>.csv in the crew directory replaces that registration's rows")
	fmt.Println("in the database. The first column is the crew identifier and column 6 the DOI code.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	pflag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  crew-import --crewdir=/srv/crew --sqlite=/srv/crew.db")
	fmt.Println("  crew-import --crewdir=/srv/crew --sqlite=/srv/crew.db --reg=RA73331 --format=json")
}
