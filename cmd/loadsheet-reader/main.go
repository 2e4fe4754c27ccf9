package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/a3tai/loadsheet-reader/internal/config"
	"github.com/a3tai/loadsheet-reader/internal/crew"
	"github.com/a3tai/loadsheet-reader/internal/httpapi"
	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
	"github.com/a3tai/loadsheet-reader/internal/mcp"
	"github.com/a3tai/loadsheet-reader/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const shutdownTimeout = 10 * time.Second

// newLogger builds the process logger. In stdio mode stdout carries the MCP
// protocol, so logs go to stderr and only warnings and errors are kept
// unless debug is enabled.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.SlogLevel()
	if cfg.IsStdioMode() && !cfg.IsDebug() && level < slog.LevelWarn {
		level = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openLookup creates the configured crew lookup backend. The returned
// closer releases it.
func openLookup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (crew.Provider, func() error, error) {
	switch cfg.Lookup {
	case config.LookupSQLite:
		p, err := crew.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		p, err := crew.NewCSVProvider(cfg.CrewDirectory, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, func() error { return nil }, nil
	}
}

// newService wires the report service from configuration
func newService(cfg *config.Config, lookup crew.Provider, logger *slog.Logger) (*report.Service, error) {
	profiles, err := loadsheet.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		return nil, err
	}

	return report.NewService(report.Options{
		MaxFileSize:    cfg.MaxFileSize,
		Validate:       cfg.ValidatePDF,
		DocumentDir:    cfg.DocumentDirectory,
		CrewListPath:   cfg.CrewList,
		DefaultProfile: cfg.Profile,
		Profiles:       profiles,
		Crew:           lookup,
		Logger:         logger,
	})
}

// runServerMode serves HTTP until a shutdown signal arrives
func runServerMode(ctx context.Context, cfg *config.Config, service *report.Service, logger *slog.Logger) error {
	handler, err := httpapi.New(service, cfg.Format, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		serverErrCh <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
	case err := <-serverErrCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// runStdioMode serves the MCP tools; the parent process controls our lifecycle
func runStdioMode(ctx context.Context, cfg *config.Config, service *report.Service, logger *slog.Logger) error {
	server, err := mcp.NewServer(cfg, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lookup, closeLookup, err := openLookup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("crew lookup: %w", err)
	}
	defer func() {
		if err := closeLookup(); err != nil {
			logger.Warn("closing crew lookup", "error", err)
		}
	}()

	service, err := newService(cfg, lookup, logger)
	if err != nil {
		return err
	}

	if cfg.IsServerMode() {
		return runServerMode(ctx, cfg, service, logger)
	}
	return runStdioMode(ctx, cfg, service, logger)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger.Debug("starting", "config", cfg.String())

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Loadsheet Reader\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
