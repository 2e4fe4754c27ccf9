package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/loadsheet-reader/internal/config"
	"github.com/a3tai/loadsheet-reader/internal/pdf/pdftest"
	"github.com/a3tai/loadsheet-reader/internal/report"
)

type stubCrew map[string]string

func (s stubCrew) Lookup(_ context.Context, registration, crewID string) (string, bool) {
	v, ok := s[registration+"/"+crewID]
	return v, ok
}

func writeLoadsheet(t *testing.T, dir, name string) string {
	t.Helper()

	lines := make([]string, 0, 14)
	for i := 0; i < 11; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	lines = append(lines, "FL123 REG99 01JAN24 UUEEVKO", "TAXI FUEL 200 X Y 41000", "TRIP FUEL 0230 8000")

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pdftest.Build(lines), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newTestServer(t *testing.T, dir string, crewList string) *Server {
	t.Helper()

	cfg := &config.Config{
		Mode:              "stdio",
		DocumentDirectory: dir,
		Version:           "1.0.0",
		ServerName:        "test-server",
		MaxFileSize:       1024 * 1024,
	}

	svc, err := report.NewService(report.Options{
		MaxFileSize:  cfg.MaxFileSize,
		DocumentDir:  dir,
		CrewListPath: crewList,
		Crew:         stubCrew{"REG99/JDOE": "41.2"},
	})
	if err != nil {
		t.Fatalf("Failed to create report service: %v", err)
	}

	server, err := NewServer(cfg, svc, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return server
}

func callTool(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	if _, err := NewServer(&config.Config{}, nil, nil); err == nil {
		t.Error("expected error for nil service")
	}

	server := newTestServer(t, t.TempDir(), "")
	if server.mcpServer == nil {
		t.Error("mcpServer should be initialized")
	}
	if server.logger == nil {
		t.Error("logger should default")
	}
}

func TestServer_HandleExtract(t *testing.T) {
	dir := t.TempDir()
	writeLoadsheet(t, dir, "report.pdf")
	server := newTestServer(t, dir, "")

	result, err := server.handleExtract(t.Context(), callTool(map[string]interface{}{
		"path":       "report.pdf",
		"captain":    "SMITH",
		"crew":       "JDOE",
		"block_fuel": "15000",
	}))
	if err != nil {
		t.Fatalf("handleExtract() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleExtract() returned error result: %s", extractTextFromResult(result))
	}

	text := extractTextFromResult(result)
	for _, want := range []string{
		"Profile: anchored",
		"FLIGHT",
		"FL123",
		"41.2",
		"EVKO",
		"14800",
		"SEATS QUANTITY  412",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("result should contain %q, got:\n%s", want, text)
		}
	}
}

func TestServer_HandleExtract_JSON(t *testing.T) {
	dir := t.TempDir()
	writeLoadsheet(t, dir, "report.pdf")
	server := newTestServer(t, dir, "")

	result, err := server.handleExtract(t.Context(), callTool(map[string]interface{}{
		"path":       "report.pdf",
		"block_fuel": "100",
		"format":     "JSON",
	}))
	if err != nil || result.IsError {
		t.Fatalf("handleExtract() failed: %v %s", err, extractTextFromResult(result))
	}

	var entries []struct {
		Label string      `json:"label"`
		Value interface{} `json:"value"`
	}
	if err := json.Unmarshal([]byte(extractTextFromResult(result)), &entries); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(entries) != 15 || entries[10].Label != "TAKE OFF FUEL" || entries[10].Value != float64(-100) {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestServer_HandleExtract_Errors(t *testing.T) {
	dir := t.TempDir()
	writeLoadsheet(t, dir, "report.pdf")
	server := newTestServer(t, dir, "")

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{"missing path", map[string]interface{}{"block_fuel": "1"}, "path"},
		{"missing block fuel", map[string]interface{}{"path": "report.pdf"}, "block_fuel"},
		{"outside directory", map[string]interface{}{"path": "../report.pdf", "block_fuel": "1"}, "outside configured directory"},
		{"unknown profile", map[string]interface{}{"path": "report.pdf", "block_fuel": "1", "profile": "nope"}, "unknown profile"},
		{"too few lines", map[string]interface{}{"path": "report.pdf", "block_fuel": "1", "profile": "fixed"}, "too few lines"},
		{"xlsx", map[string]interface{}{"path": "report.pdf", "block_fuel": "1", "format": "xlsx"}, "only available over HTTP"},
		{"xlsx upper case", map[string]interface{}{"path": "report.pdf", "block_fuel": "1", "format": "XLSX"}, "only available over HTTP"},
		{"pdf", map[string]interface{}{"path": "report.pdf", "block_fuel": "1", "format": "Pdf"}, "only available over HTTP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handleExtract(t.Context(), callTool(tt.args))
			if err != nil {
				t.Fatalf("handler should report errors in the result, got %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected error result, got: %s", extractTextFromResult(result))
			}
			if text := extractTextFromResult(result); !strings.Contains(text, tt.wantErr) {
				t.Errorf("error %q should contain %q", text, tt.wantErr)
			}
		})
	}
}

func TestServer_HandleLines(t *testing.T) {
	dir := t.TempDir()
	path := writeLoadsheet(t, dir, "report.pdf")
	server := newTestServer(t, dir, "")

	result, err := server.handleLines(t.Context(), callTool(map[string]interface{}{"path": path}))
	if err != nil || result.IsError {
		t.Fatalf("handleLines() failed: %v %s", err, extractTextFromResult(result))
	}

	text := extractTextFromResult(result)
	if !strings.Contains(text, " 0: line 0\n") {
		t.Errorf("first line should be numbered 0, got:\n%s", text)
	}
	if !strings.Contains(text, "11: FL123 REG99 01JAN24 UUEEVKO\n") {
		t.Errorf("header should be line 11, got:\n%s", text)
	}
}

func TestServer_HandleCrewList(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "crew.csv")
	if err := os.WriteFile(listPath, []byte("JDOE,1\nASMITH,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := newTestServer(t, dir, listPath).handleCrewList(t.Context(), callTool(nil))
	if err != nil {
		t.Fatalf("handleCrewList() error = %v", err)
	}
	text := extractTextFromResult(result)
	if !strings.Contains(text, "Found 2 crew identifier(s)") || !strings.Contains(text, "- ASMITH") {
		t.Errorf("unexpected crew list: %s", text)
	}

	result, _ = newTestServer(t, dir, filepath.Join(dir, "missing.csv")).handleCrewList(t.Context(), callTool(nil))
	if text := extractTextFromResult(result); text != "No crew reference entries found" {
		t.Errorf("unexpected empty crew list text: %s", text)
	}
}

func TestServer_HandleProfiles(t *testing.T) {
	server := newTestServer(t, t.TempDir(), "")

	result, err := server.handleProfiles(t.Context(), callTool(nil))
	if err != nil {
		t.Fatalf("handleProfiles() error = %v", err)
	}
	want := "- anchored (default)\n- fixed\n"
	if text := extractTextFromResult(result); text != want {
		t.Errorf("handleProfiles() = %q, want %q", text, want)
	}
}

func TestFormatLines(t *testing.T) {
	if got := formatLines(nil); got != "Document has no extractable text" {
		t.Errorf("formatLines(nil) = %q", got)
	}

	lines := make([]string, 11)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i)
	}
	got := formatLines(lines)
	if !strings.HasPrefix(got, " 0: l0\n") || !strings.HasSuffix(got, "10: l10\n") {
		t.Errorf("formatLines() = %q", got)
	}
}

// extractTextFromResult returns the first text content of a tool result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	// Try to extract text content
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		// Handle pointer to TextContent as well
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
