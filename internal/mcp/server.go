package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/loadsheet-reader/internal/config"
	"github.com/a3tai/loadsheet-reader/internal/descriptions"
	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
	"github.com/a3tai/loadsheet-reader/internal/render"
	"github.com/a3tai/loadsheet-reader/internal/report"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *report.Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *report.Service, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("report service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		logger:    logger,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"loadsheet_extract",
		mcp.WithDescription(descriptions.LoadsheetExtractDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the load sheet PDF, absolute or relative to the document directory"),
		),
		mcp.WithString("captain",
			mcp.Description("Captain name, copied verbatim"),
		),
		mcp.WithString("crew",
			mcp.Description("Crew identifier used for the DOI lookup"),
		),
		mcp.WithString("block_fuel",
			mcp.Required(),
			mcp.Description("Block fuel; decimals are truncated"),
		),
		mcp.WithString("profile",
			mcp.Description("Document profile (uses the default if empty)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: text (default) or json"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtract)

	linesTool := mcp.NewTool(
		"loadsheet_lines",
		mcp.WithDescription(descriptions.LoadsheetLinesDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the load sheet PDF, absolute or relative to the document directory"),
		),
	)
	s.mcpServer.AddTool(linesTool, s.handleLines)

	crewTool := mcp.NewTool(
		"loadsheet_crew_list",
		mcp.WithDescription(descriptions.LoadsheetCrewListDescription),
	)
	s.mcpServer.AddTool(crewTool, s.handleCrewList)

	profilesTool := mcp.NewTool(
		"loadsheet_profiles",
		mcp.WithDescription(descriptions.LoadsheetProfilesDescription),
	)
	s.mcpServer.AddTool(profilesTool, s.handleProfiles)
}

// formats whose output cannot travel in a text tool result
var binaryFormats = map[string]bool{"xlsx": true, "pdf": true}

// Handler functions
func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	blockFuel, err := request.RequireString("block_fuel")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	format := strings.ToLower(request.GetString("format", "text"))
	if binaryFormats[format] {
		return mcp.NewToolResultError(format + " output is only available over HTTP; use text or json"), nil
	}
	renderer, err := render.ByName(format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := report.FileRequest{
		Path:    path,
		Profile: request.GetString("profile", ""),
		Inputs: loadsheet.Inputs{
			Captain:   request.GetString("captain", ""),
			CrewID:    request.GetString("crew", ""),
			BlockFuel: blockFuel,
		},
	}

	result, err := s.service.ProcessFile(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	if err := renderer.Render(&b, result.Record); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if format == "json" {
		return mcp.NewToolResultText(b.String()), nil
	}

	responseText := fmt.Sprintf("Load sheet: %s\n", path)
	responseText += fmt.Sprintf("Profile: %s\n", result.Profile)
	responseText += fmt.Sprintf("Pages: %d, Lines: %d\n", result.Pages, result.Lines)
	if len(result.Misses) > 0 {
		missed := make([]string, 0, len(result.Misses))
		for _, m := range result.Misses {
			missed = append(missed, fmt.Sprintf("%s (%s)", m.Locator, m.Reason))
		}
		responseText += fmt.Sprintf("Not found: %s\n", strings.Join(missed, ", "))
	}
	responseText += "\n" + b.String()

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleLines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lines, err := s.service.Lines(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLines(lines)), nil
}

func (s *Server) handleCrewList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	options, err := s.service.CrewOptions()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(options) == 0 {
		return mcp.NewToolResultText("No crew reference entries found"), nil
	}

	responseText := fmt.Sprintf("Found %d crew identifier(s):\n", len(options))
	for _, id := range options {
		responseText += fmt.Sprintf("- %s\n", id)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	def := s.service.DefaultProfile()

	var b strings.Builder
	for _, name := range s.service.ProfileNames() {
		b.WriteString("- " + name)
		if name == def {
			b.WriteString(" (default)")
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// formatLines numbers lines from zero, matching profile offsets
func formatLines(lines loadsheet.LineSequence) string {
	if len(lines) == 0 {
		return "Document has no extractable text"
	}

	width := len(fmt.Sprint(len(lines) - 1))
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%*d: %s\n", width, i, line)
	}
	return b.String()
}

// Run serves the MCP tools over standard I/O until the client disconnects
func (s *Server) Run(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode", "dir", s.service.DocumentDirectory())

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
