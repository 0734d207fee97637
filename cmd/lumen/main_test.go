// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/lumen-analytics/lumen/cmd/lumen/cli"
	"github.com/lumen-analytics/lumen/lib/query"
)

// statsServer answers ranked-list requests. Goal-filtered requests get
// goalRows; everything else gets rows.
type statsServer struct {
	mu       sync.Mutex
	paths    []string
	status   int
	rows     []map[string]any
	goalRows []map[string]any
}

func (server *statsServer) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	server.mu.Lock()
	server.paths = append(server.paths, request.URL.Path)
	status, rows := server.status, server.rows
	if strings.Contains(request.URL.Query().Get("filters"), `"goal"`) {
		rows = server.goalRows
	}
	server.mu.Unlock()

	if status != 0 {
		http.Error(writer, "nope", status)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(rows)
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lumen.yaml")
	content := "api:\n  base_url: " + baseURL + "\n  requests_per_second: 0\ndashboard:\n  site: example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestPrintWritesTable(t *testing.T) {
	stats := &statsServer{rows: []map[string]any{
		{"name": "Google", "count": 120},
		{"name": "Direct / None", "count": 40},
	}}
	server := httptest.NewServer(stats)
	defer server.Close()

	var output bytes.Buffer
	err := run([]string{"--config", writeConfig(t, server.URL), "--print", "--no-state", "--period", "7d"}, &output)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	text := output.String()
	for _, want := range []string{"example.com", "Top Sources (All)", "Visitors", "Google", "120", "Direct / None"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "CR") {
		t.Errorf("no goal filter, so no CR column:\n%s", text)
	}
	if len(stats.paths) != 1 || stats.paths[0] != "/api/stats/example.com/sources" {
		t.Errorf("paths = %v, want one sources request", stats.paths)
	}
}

func TestPrintWithGoalShowsConversionRate(t *testing.T) {
	stats := &statsServer{
		rows:     []map[string]any{{"name": "utm-a", "count": 200}},
		goalRows: []map[string]any{{"name": "utm-a", "count": 50}},
	}
	server := httptest.NewServer(stats)
	defer server.Close()

	var output bytes.Buffer
	err := run([]string{
		"--config", writeConfig(t, server.URL), "--print", "--no-state",
		"--tab", "utm_campaign", "--filter", "goal=Signup",
	}, &output)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	text := output.String()
	for _, want := range []string{"UTM Campaign", "CR", "25.0%", "Completed goal Signup"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if len(stats.paths) != 2 {
		t.Errorf("requests = %d, want goal-filtered and baseline", len(stats.paths))
	}
}

func TestPrintMapsServerErrorsToExitCodes(t *testing.T) {
	tests := []struct {
		status int
		code   int
	}{
		{status: http.StatusNotFound, code: 3},
		{status: http.StatusServiceUnavailable, code: 4},
		{status: http.StatusUnauthorized, code: 1},
	}
	for _, test := range tests {
		t.Run(http.StatusText(test.status), func(t *testing.T) {
			server := httptest.NewServer(&statsServer{status: test.status})
			defer server.Close()

			err := run([]string{"--config", writeConfig(t, server.URL), "--print", "--no-state"}, &bytes.Buffer{})
			var toolErr *cli.ToolError
			if !errors.As(err, &toolErr) {
				t.Fatalf("run error = %v, want a ToolError", err)
			}
			if toolErr.ExitCode() != test.code {
				t.Errorf("ExitCode() = %d, want %d", toolErr.ExitCode(), test.code)
			}
		})
	}
}

func TestPrintCreatesStateDirectory(t *testing.T) {
	server := httptest.NewServer(&statsServer{rows: []map[string]any{{"name": "newsletter", "count": 7}}})
	defer server.Close()
	statePath := filepath.Join(t.TempDir(), "state", "prefs.db")

	var output bytes.Buffer
	err := run([]string{"--config", writeConfig(t, server.URL), "--print", "--state", statePath, "--tab", "utm_source"}, &output)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(output.String(), "newsletter") {
		t.Errorf("output missing the row:\n%s", output.String())
	}
	if _, err := os.Stat(statePath); err != nil {
		t.Errorf("state database should be created under a new directory: %v", err)
	}
}

func TestPrintEmptyListExitsWithNoRows(t *testing.T) {
	server := httptest.NewServer(&statsServer{})
	defer server.Close()

	var output bytes.Buffer
	err := run([]string{"--config", writeConfig(t, server.URL), "--print", "--no-state"}, &output)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("run error = %v, want an ExitError", err)
	}
	if exitErr.ExitCode() != cli.ExitNoRows {
		t.Errorf("ExitCode() = %d, want %d", exitErr.ExitCode(), cli.ExitNoRows)
	}
	if !strings.Contains(output.String(), "No data yet") {
		t.Errorf("empty list should say so:\n%s", output.String())
	}
}

func TestPrintNotFoundCarriesHint(t *testing.T) {
	server := httptest.NewServer(&statsServer{status: http.StatusNotFound})
	defer server.Close()

	err := run([]string{"--config", writeConfig(t, server.URL), "--print", "--no-state"}, &bytes.Buffer{})
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryNotFound {
		t.Fatalf("run error = %v, want a not-found ToolError", err)
	}
	if !strings.Contains(toolErr.Error(), `site "example.com"`) || toolErr.Hint == "" {
		t.Errorf("error should name the site and carry a hint: %q", toolErr.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	server := httptest.NewServer(&statsServer{})
	defer server.Close()
	configPath := writeConfig(t, server.URL)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--bogus"}},
		{name: "positional argument", args: []string{"--config", configPath, "extra"}},
		{name: "bad period", args: []string{"--config", configPath, "--period", "fortnight", "--print"}},
		{name: "bad filter", args: []string{"--config", configPath, "--filter", "colour=red", "--print"}},
		{name: "props without goal", args: []string{"--config", configPath, "--filter", "props=plan:pro", "--print"}},
		{name: "custom without range", args: []string{"--config", configPath, "--period", "custom", "--print"}},
		{name: "unknown tab", args: []string{"--config", configPath, "--print", "--no-state", "--tab", "utm_term"}},
		{name: "missing config", args: []string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "--print"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := run(test.args, &bytes.Buffer{})
			var toolErr *cli.ToolError
			if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryValidation {
				t.Fatalf("run error = %v, want a validation error", err)
			}
		})
	}
}

func TestNoSiteIsValidationError(t *testing.T) {
	t.Setenv("LUMEN_CONFIG", "")
	err := run([]string{"--print", "--no-state"}, &bytes.Buffer{})
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryValidation {
		t.Fatalf("run error = %v, want a validation error", err)
	}
	if !strings.Contains(err.Error(), "--site") {
		t.Errorf("error should point at --site: %v", err)
	}
}

func TestInitialQueryAppliesFilters(t *testing.T) {
	server := httptest.NewServer(&statsServer{})
	defer server.Close()

	parsed, _, err := parseArguments([]string{
		"--config", writeConfig(t, server.URL), "--period", "day", "--date", "2026-10-19",
		"--filter", "source=Google", "--filter", "goal=Signup", "--filter", "props=plan:pro",
	})
	if err != nil {
		t.Fatalf("parseArguments: %v", err)
	}
	cfg, err := loadConfig(parsed)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	current, err := initialQuery(cfg, parsed)
	if err != nil {
		t.Fatalf("initialQuery: %v", err)
	}

	if current.Period != "day" || current.Date != "2026-10-19" {
		t.Errorf("period = %q date = %q", current.Period, current.Date)
	}
	if current.Text(query.KeySource) != "Google" || !current.HasGoal() {
		t.Errorf("filters not applied: %v", current.AppliedFilters())
	}
	props, _ := current.Get(query.KeyProps)
	if props.Property == nil || props.Property.Name != "plan" || props.Property.Value != "pro" {
		t.Errorf("props = %+v, want plan:pro", props)
	}
}

func TestVersionFlag(t *testing.T) {
	var output bytes.Buffer
	if err := run([]string{"--version"}, &output); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(output.String(), "lumen ") {
		t.Errorf("version output = %q", output.String())
	}
}
