package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/loadsheet-reader/internal/render"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Crew lookup backends
	LookupCSV    = "csv"
	LookupSQLite = "sqlite"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 20 * 1024 * 1024 // 20MB
	DefaultCrewList    = "RA73331.csv"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the loadsheet reader
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	DocumentDirectory string
	ProfilesFile      string // optional YAML profile definitions
	Profile           string // default document profile
	Format            string // default output format
	ValidatePDF       bool

	// Crew configuration
	CrewDirectory string // per-registration CSV tables
	CrewList      string // crew reference list offered to operators
	Lookup        string // "csv" or "sqlite"
	SQLitePath    string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:              ModeServer,
		Host:              DefaultHost,
		Port:              DefaultPort,
		DocumentDirectory: currentDir,
		Format:            render.Default,
		ValidatePDF:       true,
		CrewDirectory:     currentDir,
		CrewList:          filepath.Join(currentDir, DefaultCrewList),
		Lookup:            LookupCSV,
		Version:           "1.0.0",
		ServerName:        "loadsheet-reader",
		LogLevel:          DefaultLogLevel,
		MaxFileSize:       DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.expandPaths()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("LOADSHEET")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.DocumentDirectory)
	viper.SetDefault("profiles", cfg.ProfilesFile)
	viper.SetDefault("profile", cfg.Profile)
	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("validate", cfg.ValidatePDF)
	viper.SetDefault("crewdir", cfg.CrewDirectory)
	viper.SetDefault("crewlist", cfg.CrewList)
	viper.SetDefault("lookup", cfg.Lookup)
	viper.SetDefault("sqlite", cfg.SQLitePath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'server' for the HTTP upload service, 'stdio' for MCP standard I/O")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.DocumentDirectory, "Directory containing load sheet PDFs (stdio mode)")
	pflag.String("profiles", cfg.ProfilesFile, "YAML file with additional document profiles")
	pflag.String("profile", cfg.Profile, "Default document profile (anchored, fixed or a custom one)")
	pflag.String("format", cfg.Format, "Default output format (pdf, xlsx, json, text)")
	pflag.Bool("validate", cfg.ValidatePDF, "Validate PDFs structurally before extracting text")
	pflag.String("crewdir", cfg.CrewDirectory, "Directory containing per-registration crew CSV tables")
	pflag.String("crewlist", cfg.CrewList, "CSV file with the crew reference list")
	pflag.String("lookup", cfg.Lookup, "Crew lookup backend: 'csv' or 'sqlite'")
	pflag.String("sqlite", cfg.SQLitePath, "SQLite crew database (sqlite lookup only)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, key := range []string{
		"mode", "host", "port", "dir", "profiles", "profile", "format", "validate",
		"crewdir", "crewlist", "lookup", "sqlite", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(key, pflag.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nLoadsheet Reader - turns flight load sheet PDFs into crew briefing records\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# HTTP server on 127.0.0.1:8080 (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --crewdir=/srv/crew --format=json        "+
			"# custom crew tables, JSON output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --lookup=sqlite --sqlite=/srv/crew.db    # SQLite crew lookup\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/loadsheets   # MCP tools over stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_MODE        Run mode\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_DIR         Load sheet directory\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_PROFILES    Profile file\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_PROFILE     Default profile\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_FORMAT      Default output format\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_VALIDATE    Validate PDFs\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_CREWDIR     Crew table directory\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_CREWLIST    Crew reference list\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_LOOKUP      Crew lookup backend\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_SQLITE      SQLite crew database\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  LOADSHEET_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DocumentDirectory = viper.GetString("dir")
	cfg.ProfilesFile = viper.GetString("profiles")
	cfg.Profile = viper.GetString("profile")
	cfg.Format = viper.GetString("format")
	cfg.ValidatePDF = viper.GetBool("validate")
	cfg.CrewDirectory = viper.GetString("crewdir")
	cfg.CrewList = viper.GetString("crewlist")
	cfg.Lookup = viper.GetString("lookup")
	cfg.SQLitePath = viper.GetString("sqlite")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// expandPaths makes configured paths absolute
func (c *Config) expandPaths() {
	for _, p := range []*string{&c.DocumentDirectory, &c.CrewDirectory, &c.CrewList, &c.ProfilesFile, &c.SQLitePath} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate document directory
	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}

	// Check if document directory exists, create if it doesn't
	if _, err := os.Stat(c.DocumentDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.DocumentDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.DocumentDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if _, err := render.ByName(c.Format); err != nil {
		return err
	}

	// Validate crew lookup
	switch c.Lookup {
	case LookupCSV:
		if c.CrewDirectory == "" {
			return errors.New("crew directory cannot be empty")
		}
	case LookupSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite lookup requires a database path")
		}
	default:
		return fmt.Errorf("invalid lookup backend: %s (must be one of: csv, sqlite)", c.Lookup)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// SlogLevel maps the configured log level onto slog
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, Profile: %s, Format: %s, "+
		"Lookup: %s, CrewDirectory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.Profile, c.Format,
		c.Lookup, c.CrewDirectory, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the service is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the service is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
