package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a3tai/loadsheet-reader/internal/config"
	"github.com/a3tai/loadsheet-reader/internal/crew"
)

const testVersion = "1.2.3"

func TestPrintVersion(t *testing.T) {
	// Save original stdout
	originalStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	// Redirect stdout to the pipe
	os.Stdout = w

	// Set version variables for testing
	oldVersion := version
	oldBuildTime := buildTime
	oldGitCommit := gitCommit

	version = testVersion
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"

	defer func() {
		// Restore original values
		version = oldVersion
		buildTime = oldBuildTime
		gitCommit = oldGitCommit
		os.Stdout = originalStdout
	}()

	// Call printVersion in a goroutine
	done := make(chan struct{})
	go func() {
		defer close(done)
		printVersion()
		w.Close()
	}()

	// Read the output
	var buf bytes.Buffer
	io.Copy(&buf, r)
	<-done

	output := buf.String()

	// Verify output contains expected information
	expectedStrings := []string{
		"Loadsheet Reader",
		"Version: " + testVersion,
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    *config.Config
		wantInfo  bool
		wantDebug bool
	}{
		{
			name:     "server mode - info",
			config:   &config.Config{Mode: "server", LogLevel: "info"},
			wantInfo: true,
		},
		{
			name:      "server mode - debug",
			config:    &config.Config{Mode: "server", LogLevel: "debug"},
			wantInfo:  true,
			wantDebug: true,
		},
		{
			name:   "stdio mode - info is quieted",
			config: &config.Config{Mode: "stdio", LogLevel: "info"},
		},
		{
			name:      "stdio mode - debug enabled",
			config:    &config.Config{Mode: "stdio", LogLevel: "debug"},
			wantInfo:  true,
			wantDebug: true,
		},
		{
			name:   "server mode - error only",
			config: &config.Config{Mode: "server", LogLevel: "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tt.config, &buf)

			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !logger.Enabled(ctx, slog.LevelError) {
				t.Error("errors should always be logged")
			}

			logger.Error("boom", "key", "value")
			if !strings.Contains(buf.String(), "msg=boom key=value") {
				t.Errorf("unexpected log output: %q", buf.String())
			}
		})
	}
}

func TestOpenLookup(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "REG99.csv"), []byte("JDOE,a,b,c,d,41.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	csvCfg := &config.Config{Lookup: config.LookupCSV, CrewDirectory: dir}
	lookup, closer, err := openLookup(t.Context(), csvCfg, logger)
	if err != nil {
		t.Fatalf("openLookup(csv) error = %v", err)
	}
	if _, ok := lookup.(*crew.CSVProvider); !ok {
		t.Errorf("expected CSV provider, got %T", lookup)
	}
	if doi, ok := lookup.Lookup(t.Context(), "REG99", "JDOE"); !ok || doi != "41.2" {
		t.Errorf("Lookup() = %q, %v", doi, ok)
	}
	if err := closer(); err != nil {
		t.Errorf("close error = %v", err)
	}

	sqliteCfg := &config.Config{Lookup: config.LookupSQLite, SQLitePath: filepath.Join(dir, "crew.db")}
	lookup, closer, err = openLookup(t.Context(), sqliteCfg, logger)
	if err != nil {
		t.Fatalf("openLookup(sqlite) error = %v", err)
	}
	if _, ok := lookup.(*crew.SQLiteProvider); !ok {
		t.Errorf("expected SQLite provider, got %T", lookup)
	}
	if err := closer(); err != nil {
		t.Errorf("close error = %v", err)
	}
}

func TestNewService(t *testing.T) {
	dir := t.TempDir()
	profiles := filepath.Join(dir, "profiles.yaml")
	yaml := `profiles:
  - name: custom
    min_lines: 2
    locators:
      - {name: header, kind: positional, offset: 0}
      - {name: fuel, kind: keyword, phrase: FUEL}
    fields:
      flight: {locator: header, index: 0}
      registration: {locator: header, index: 1}
      date: {locator: header, index: 2}
      destination: {locator: header, index: 3}
      taxi_fuel: {locator: fuel, index: 1}
      dow: {locator: fuel, index: 2}
      trip_fuel: {locator: fuel, index: 3}
      eet: {locator: fuel, index: 4}
`
	if err := os.WriteFile(profiles, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		DocumentDirectory: dir,
		ProfilesFile:      profiles,
		Profile:           "custom",
		MaxFileSize:       1024,
	}
	service, err := newService(cfg, nil, nil)
	if err != nil {
		t.Fatalf("newService() error = %v", err)
	}
	if got := strings.Join(service.ProfileNames(), ","); got != "anchored,custom,fixed" {
		t.Errorf("ProfileNames() = %s", got)
	}

	cfg.Profile = "missing"
	if _, err := newService(cfg, nil, nil); err == nil {
		t.Error("expected error for unknown default profile")
	}

	cfg.ProfilesFile = filepath.Join(dir, "nope.yaml")
	if _, err := newService(cfg, nil, nil); err == nil {
		t.Error("expected error for missing profile file")
	}
}

func TestRunServerMode_ContextCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Mode:              config.ModeServer,
		Host:              "127.0.0.1",
		Port:              0,
		DocumentDirectory: dir,
		MaxFileSize:       1024,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service, err := newService(cfg, nil, logger)
	if err != nil {
		t.Fatalf("newService() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- runServerMode(ctx, cfg, service, logger)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("runServerMode() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServerMode() did not stop after cancel")
	}
}
