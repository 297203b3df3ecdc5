package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

// executeCmd executes a subcommand with captured output.
// Package-level flag variables are reset first so stale values from
// previous tests do not leak through cobra's parse.
func executeCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	standardsGrade = ""
	standardsSubject = ""
	standardsJSONOutput = false
	libraryDBPath = ""
	libraryJSONOutput = false

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()

	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	rootCmd.SetArgs(nil)

	return outBuf.String(), errBuf.String(), err
}

// --- Standards Tests ---

func TestStandards_LocalGrade5Math(t *testing.T) {
	stdout, _, err := executeCmd(t, "standards", "--grade", "5th Grade", "--subject", "Mathematics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, "DOMAIN") || !strings.Contains(stdout, "CODE") {
		t.Errorf("stdout missing table header:\n%s", stdout)
	}
	if !strings.Contains(stdout, "5.NBT.A.1") {
		t.Errorf("stdout missing grade-5 math code:\n%s", stdout)
	}
}

func TestStandards_NormalizesFreeTextInput(t *testing.T) {
	// "11th grade biology" should collapse to the HS science band.
	stdout, _, err := executeCmd(t, "standards", "--grade", "11th grade", "--subject", "Biology")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(stdout, "No standards found") {
		t.Fatalf("expected HS science standards, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "HS-") {
		t.Errorf("stdout missing HS-prefixed NGSS codes:\n%s", stdout)
	}
}

func TestStandards_OtherSubjectHasNoLocalEntry(t *testing.T) {
	stdout, _, err := executeCmd(t, "standards", "--grade", "5", "--subject", "Underwater Basket Weaving")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, "No standards found") {
		t.Errorf("stdout = %q, want the no-results message", stdout)
	}
}

func TestStandards_JSONOutput(t *testing.T) {
	stdout, _, err := executeCmd(t, "standards", "--grade", "Kindergarten", "--subject", "math", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, stdout)
	}

	if result["grade"] != "K" {
		t.Errorf("JSON grade = %v, want 'K'", result["grade"])
	}
	if result["subject"] != "Mathematics" {
		t.Errorf("JSON subject = %v, want 'Mathematics'", result["subject"])
	}
	cats, ok := result["categories"].([]any)
	if !ok || len(cats) == 0 {
		t.Fatalf("JSON 'categories' missing or empty: %v", result["categories"])
	}
}

func TestStandards_RequiresGradeAndSubject(t *testing.T) {
	_, _, err := executeCmd(t, "standards")
	if err == nil {
		t.Fatal("expected error for missing required flags, got nil")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want it to mention required flags", err.Error())
	}
}

// --- Library Tests ---

func TestLibraryList_SeedsDemoLessons(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fastplan.db")

	stdout, _, err := executeCmd(t, "library", "list", "--db", dbPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, "ID") || !strings.Contains(stdout, "NAME") {
		t.Errorf("stdout missing table header:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Math: Division with Remainders") {
		t.Errorf("stdout missing seeded demo lesson:\n%s", stdout)
	}
}

func TestLibraryList_JSONOutput(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fastplan.db")

	stdout, _, err := executeCmd(t, "library", "list", "--db", dbPath, "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, stdout)
	}

	lessons, ok := result["lessons"].([]any)
	if !ok {
		t.Fatal("JSON 'lessons' field missing or not an array")
	}
	if len(lessons) != 3 {
		t.Errorf("JSON lessons count = %d, want 3 seeded demos", len(lessons))
	}

	total, ok := result["total"].(float64) // JSON numbers are float64
	if !ok {
		t.Fatal("JSON 'total' field missing")
	}
	if int(total) != 3 {
		t.Errorf("JSON total = %v, want 3", total)
	}
}

func TestLibraryList_DBPathFromEnv(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fastplan.db")
	t.Setenv("FASTPLAN_DB_PATH", dbPath)

	stdout, _, err := executeCmd(t, "library", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Math: Division with Remainders") {
		t.Errorf("stdout missing seeded demo lesson:\n%s", stdout)
	}
}

func TestResolveDBPath_FlagBeatsEnv(t *testing.T) {
	t.Setenv("FASTPLAN_DB_PATH", "/env/path.db")

	libraryDBPath = "/flag/path.db"
	if got := resolveDBPath(); got != "/flag/path.db" {
		t.Errorf("resolveDBPath() = %q, want flag value", got)
	}

	libraryDBPath = ""
	if got := resolveDBPath(); got != "/env/path.db" {
		t.Errorf("resolveDBPath() = %q, want env value", got)
	}
}

// --- Log Level Tests ---

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		got := parseLogLevel(tt.input).String()
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
