package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapdb/internal/cli/testutil"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	Out    string
	ErrOut string
}

// run executes the root command against the project's config file.
func run(t *testing.T, p *testutil.Project, stdin string, args ...string) (runResult, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", p.ConfigPath}, args...))

	err := cmd.Execute()
	return runResult{Out: out.String(), ErrOut: errOut.String()}, err
}

func mustRun(t *testing.T, p *testutil.Project, args ...string) string {
	t.Helper()
	res, err := run(t, p, "", args...)
	require.NoError(t, err, "leapdb %v\nstderr: %s", args, res.ErrOut)
	return res.Out
}

func TestRootCmd_Help(t *testing.T) {
	p := testutil.SetupTestProject(t)
	out := mustRun(t, p, "--help")
	for _, name := range []string{"exec", "tables", "describe", "exists", "create", "drop", "last-id", "shell", "doctor"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCmd_TableWorkflow(t *testing.T) {
	p := testutil.SetupTestProject(t)

	t.Run("dry run prints DDL", func(t *testing.T) {
		out := mustRun(t, p, "create", p.UsersPath, "--dry-run")
		assert.Contains(t, out, "CREATE TABLE users (id INTEGER NOT NULL, name VARCHAR(50) NOT NULL, email VARCHAR(120), city VARCHAR(40), PRIMARY KEY(id), UNIQUE(email))")
		assert.Contains(t, out, "CREATE INDEX users_city_idx ON users (city)")
		assert.Equal(t, "false\n", mustRun(t, p, "exists", "users", "-o", "text"))
	})

	t.Run("create", func(t *testing.T) {
		out := mustRun(t, p, "create", p.UsersPath, "-o", "text")
		assert.Equal(t, "created table users\n", out)
		assert.Equal(t, "true\n", mustRun(t, p, "exists", "USERS", "-o", "text"))
	})

	t.Run("describe", func(t *testing.T) {
		out := mustRun(t, p, "describe", "users", "-o", "json")
		var fields []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &fields))
		require.Len(t, fields, 4)
		assert.Equal(t, map[string]any{"Field": "id", "Type": "INTEGER", "Null": "NO", "Key": "PRI", "Default": false}, fields[0])
		assert.Equal(t, "name", fields[1]["Field"])
		assert.Equal(t, "YES", fields[2]["Null"])

		md := mustRun(t, p, "describe", "users")
		testutil.AssertMarkdownTable(t, md, "Field", "Type", "Null", "Key", "Default")
	})

	t.Run("exec", func(t *testing.T) {
		out := mustRun(t, p, "exec", "INSERT INTO users (name, email, city) VALUES ('ana', 'ana@example.com', 'Lyon'), ('bob', 'bob@example.com', 'Oslo')", "-o", "text")
		assert.Equal(t, "2 row(s) affected\n", out)

		out = mustRun(t, p, "exec", "SELECT name, city FROM users ORDER BY id", "-o", "csv")
		assert.Contains(t, out, "ana,Lyon")
		assert.Contains(t, out, "bob,Oslo")

		out = mustRun(t, p, "exec", "SELECT name FROM users ORDER BY id", "--limit", "1", "--offset", "1", "-o", "json")
		assert.JSONEq(t, `[{"name": "bob"}]`, out)

		out = mustRun(t, p, "exec", "SELECT id, name FROM users ORDER BY id", "--mode", "num", "-o", "json")
		assert.JSONEq(t, `[[1, "ana"], [2, "bob"]]`, out)

		res, err := run(t, p, "SELECT count(*) AS n FROM users;\n", "exec", "-", "-o", "json")
		require.NoError(t, err, res.ErrOut)
		assert.JSONEq(t, `[{"n": 2}]`, res.Out)
	})

	t.Run("constraint violation", func(t *testing.T) {
		res, err := run(t, p, "", "exec", "INSERT INTO users (name, email) VALUES ('dup', 'ana@example.com')")
		require.Error(t, err)
		var qe *adapter.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Contains(t, err.Error(), "UNIQUE")
		assert.Empty(t, res.Out)
	})

	t.Run("last id", func(t *testing.T) {
		out := mustRun(t, p, "last-id", "users", "id", "--insert", "INSERT INTO users (name) VALUES ('cid')", "-o", "text")
		assert.Equal(t, "3\n", out)

		out = mustRun(t, p, "last-id", "users", "id", "--insert", "INSERT INTO users (name) VALUES ('dan')", "-o", "json")
		assert.JSONEq(t, `{"table": "users", "column": "id", "id": 4}`, out)
	})

	t.Run("tables", func(t *testing.T) {
		out := mustRun(t, p, "tables", "-o", "json")
		assert.JSONEq(t, `[{"table": "users"}]`, out)
	})

	t.Run("drop", func(t *testing.T) {
		assert.Equal(t, "dropped table users\n", mustRun(t, p, "drop", "users", "-o", "text"))
		assert.Equal(t, "false\n", mustRun(t, p, "exists", "users", "-o", "text"))

		mustRun(t, p, "drop", "users", "--if-exists")

		_, err := run(t, p, "", "drop", "users")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such table")
	})
}

func TestRootCmd_Environments(t *testing.T) {
	p := testutil.SetupTestProject(t)
	mustRun(t, p, "create", p.UsersPath)

	// scratch is an in-memory database.
	out := mustRun(t, p, "--env", "scratch", "tables", "-o", "json")
	assert.JSONEq(t, `[]`, out)

	// Flags win over the config file.
	out = mustRun(t, p, "--path", ":memory:", "exists", "users", "-o", "text")
	assert.Equal(t, "false\n", out)

	_, err := run(t, p, "", "--type", "nosuch", "tables")
	require.Error(t, err)
	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
}

func TestRootCmd_Trace(t *testing.T) {
	p := testutil.SetupTestProject(t)
	res, err := run(t, p, "", "exec", "SELECT 1 AS one", "--trace", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, res.ErrOut, "-- SELECT 1 AS one")
	assert.JSONEq(t, `[{"one": 1}]`, res.Out)
}

func TestRootCmd_Doctor(t *testing.T) {
	p := testutil.SetupTestProject(t)

	out := mustRun(t, p, "doctor", "--all", "-o", "json")
	var checks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &checks))
	require.Len(t, checks, 2)
	assert.Equal(t, "dev", checks[0]["environment"])
	assert.Equal(t, "scratch", checks[1]["environment"])
	for _, c := range checks {
		assert.Equal(t, "ok", c["status"], "detail: %v", c["detail"])
		assert.Equal(t, "sqlite", c["type"])
	}
}

func TestRootCmd_Version(t *testing.T) {
	p := testutil.SetupTestProject(t)
	out := mustRun(t, p, "version")
	assert.Contains(t, out, "leapdb v"+Version)
	for _, name := range []string{"duckdb", "mysql", "postgres", "sqlite"} {
		assert.Contains(t, out, name)
	}
}
