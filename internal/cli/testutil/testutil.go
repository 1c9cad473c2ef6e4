// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// UsersDefinition is a table definition exercising every column flag.
const UsersDefinition = `table: users
columns:
  id:    {type: INTEGER, auto: true, primary: true, not_null: true}
  name:  {type: VARCHAR, size: 50, not_null: true}
  email: {type: VARCHAR, size: 120, unique_index: true}
  city:  {type: VARCHAR, size: 40, index: true}
`

// Project is a temporary leapdb project backed by a SQLite file.
type Project struct {
	Dir        string
	ConfigPath string
	DBPath     string
	UsersPath  string
}

// SetupTestProject writes leapdb.yaml and a users table definition into a
// temporary directory. The dev environment points at a SQLite file.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	dir := t.TempDir()
	p := &Project{
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "leapdb.yaml"),
		DBPath:     filepath.Join(dir, "app.db"),
		UsersPath:  filepath.Join(dir, "users.yaml"),
	}

	cfg := `environment: dev
target:
  type: sqlite
  path: ` + p.DBPath + `
  options:
    foreign_keys: "1"
environments:
  dev: {}
  scratch:
    target:
      path: ":memory:"
`
	WriteFile(t, p.ConfigPath, cfg)
	WriteFile(t, p.UsersPath, UsersDefinition)
	return p
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertMarkdownTable checks that md holds a markdown table with the given header cells.
func AssertMarkdownTable(t *testing.T, md string, header ...string) {
	t.Helper()
	AssertNoANSI(t, md)

	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) < 2 {
		t.Fatalf("markdown table needs a header and a separator, got: %q", md)
	}
	for _, h := range header {
		if !strings.Contains(strings.ToLower(lines[0]), strings.ToLower(h)) {
			t.Errorf("header %q missing from %q", h, lines[0])
		}
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("second line is not a separator: %q", lines[1])
	}
}
