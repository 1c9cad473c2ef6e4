package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapdb/internal/testutil"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSQLiteDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{"memory by default", adapter.Config{}, ":memory:"},
		{"file path", adapter.Config{Path: "/tmp/app.db"}, "/tmp/app.db"},
		{
			"pragmas",
			adapter.Config{Path: "app.db", Options: map[string]string{"foreign_keys": "1", "busy_timeout": "5000", "result_mode": "stream"}},
			"file:app.db?_pragma=busy_timeout%285000%29&_pragma=foreign_keys%281%29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildSQLiteDSN(tt.config))
		})
	}
}

// newMemoryAdapter connects an adapter to a fresh in-memory database.
func newMemoryAdapter(t *testing.T, cfg adapter.Config) *Adapter {
	t.Helper()

	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(context.Background(), cfg))
	t.Cleanup(func() {
		_, _ = adp.Close()
	})
	return adp
}

var usersDefs = core.ColumnDefs{
	{Name: "id", Type: "INTEGER", NotNull: true, Auto: true, Primary: true},
	{Name: "name", Type: "VARCHAR", Size: "50", NotNull: true},
	{Name: "city", Type: "TEXT", Index: true},
	{Name: "email", Type: "TEXT", UniqueIndex: true},
}

func createUsers(t *testing.T, adp *Adapter) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, adp.CreateTable(ctx, "users", usersDefs))
	for _, stmt := range []string{
		"INSERT INTO users (name, city, email) VALUES ('ana', 'Lyon', 'ana@example.com')",
		"INSERT INTO users (name, city, email) VALUES ('bob', 'Oslo', 'bob@example.com')",
		"INSERT INTO users (name, city, email) VALUES ('cid', 'Lima', 'cid@example.com')",
	} {
		_, err := adp.Execute(ctx, stmt)
		require.NoError(t, err)
	}
}

func TestAdapter_CreateExistsDrop(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})

	exists, err := adp.TableExists(ctx, "users", "")
	require.NoError(t, err)
	assert.False(t, exists)

	createUsers(t, adp)

	for _, ref := range [][2]string{{"users", ""}, {"Users", "main"}, {"Main.Users", ""}, {"main.users", "other"}} {
		exists, err := adp.TableExists(ctx, ref[0], ref[1])
		require.NoError(t, err)
		assert.True(t, exists, "%s / %s", ref[0], ref[1])
	}

	tables, err := adp.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)

	dropped, err := adp.DropTable(ctx, "users", false)
	require.NoError(t, err)
	assert.True(t, dropped)

	exists, err = adp.TableExists(ctx, "users", "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAdapter_DropMissingTable(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})

	dropped, err := adp.DropTable(ctx, "ghost", true)
	require.NoError(t, err)
	assert.True(t, dropped)
	assert.NotContains(t, adp.LastStatement(), "DROP")

	dropped, err = adp.DropTable(ctx, "ghost", false)
	assert.False(t, dropped)
	var driverErr *adapter.DriverError
	require.ErrorAs(t, err, &driverErr)
	assert.Equal(t, "drop table", driverErr.Op)
	assert.Contains(t, driverErr.Msg, "no such table")
	assert.Equal(t, "DROP TABLE ghost", adp.LastStatement())
}

func TestAdapter_DescribeTable(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})
	createUsers(t, adp)

	fields, err := adp.DescribeTable(ctx, "users", "")
	require.NoError(t, err)
	assert.Equal(t, []core.FieldInfo{
		{Field: "id", Type: "INTEGER", Null: "NO", Key: "PRI", Default: false},
		{Field: "name", Type: "VARCHAR(50)", Null: "NO", Key: "", Default: false},
		{Field: "city", Type: "TEXT", Null: "YES", Key: "", Default: false},
		{Field: "email", Type: "TEXT", Null: "YES", Key: "", Default: false},
	}, fields)

	data, err := json.Marshal(fields[0])
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Len(t, keys, 5)
	for _, k := range []string{"Field", "Type", "Null", "Key", "Default"} {
		assert.Contains(t, keys, k)
	}

	missing, err := adp.DescribeTable(ctx, "ghost", "")
	require.NoError(t, err)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestAdapter_CreateTableIndexes(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})
	createUsers(t, adp)

	n, err := scalar(ctx, adp, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'users_city_idx'")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = adp.Execute(ctx, "INSERT INTO users (name, email) VALUES ('dup', 'ana@example.com')")
	var queryErr *adapter.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Contains(t, strings.ToUpper(queryErr.Msg), "UNIQUE")

	err = adp.CreateTable(ctx, "pairs", core.ColumnDefs{{Name: "a", Type: "INT"}},
		core.IndexSpec{Name: "a_idx", Columns: []string{"a"}})
	assert.ErrorIs(t, err, adapter.ErrUnsupported)
}

func TestAdapter_CreateTableIndexFailure(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})

	for _, stmt := range []string{
		"CREATE TABLE archive (city TEXT)",
		"CREATE INDEX users_city_idx ON archive (city)",
	} {
		_, err := adp.Execute(ctx, stmt)
		require.NoError(t, err)
	}

	err := adp.CreateTable(ctx, "users", usersDefs)
	var queryErr *adapter.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Contains(t, queryErr.Msg, "users_city_idx")

	exists, err := adp.TableExists(ctx, "users", "")
	require.NoError(t, err)
	assert.False(t, exists, "half-created table is dropped")

	_, err = adp.Execute(ctx, "DROP INDEX users_city_idx")
	require.NoError(t, err)
	createUsers(t, adp)

	n, err := scalar(ctx, adp, "SELECT COUNT(*) FROM users")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func scalar(ctx context.Context, adp *Adapter, query string) (int64, error) {
	if _, err := adp.Execute(ctx, query); err != nil {
		return 0, err
	}
	row, _, err := adp.FetchRow(nil, core.FetchNum)
	if err != nil {
		return 0, err
	}
	v, _ := row.At(0)
	return adapter.ToInt64(v)
}

func TestAdapter_FetchLatestResult(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})
	createUsers(t, adp)

	first, err := adp.Execute(ctx, "SELECT name FROM users ORDER BY id")
	require.NoError(t, err)
	_, err = adp.Execute(ctx, "SELECT city FROM users ORDER BY id")
	require.NoError(t, err)

	row, ok, err := adp.FetchRow(nil, core.FetchAssoc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Lyon", row.Assoc["city"])

	_, _, err = adp.FetchRow(first, core.FetchAssoc)
	assert.ErrorIs(t, err, adapter.ErrStaleResult)

	n, ok, err := adp.NumRows(nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	ok, err = adp.Seek(nil, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	row, ok, err = adp.FetchRow(nil, core.FetchNum)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []any{"Lima"}, row.Values)

	_, ok, err = adp.FetchRow(nil, core.FetchNum)
	require.NoError(t, err)
	assert.False(t, ok)

	name, ok, err := adp.FieldName(nil, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "city", name)
}

func TestAdapter_LimitOffset(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})
	createUsers(t, adp)

	query := adp.Limit("SELECT name FROM users ORDER BY id", core.LimitOptions{Limit: 2, Offset: "1"})
	assert.Equal(t, "SELECT name FROM users ORDER BY id LIMIT 2 OFFSET 1", query)

	res, err := adp.Execute(ctx, query)
	require.NoError(t, err)

	var names []string
	for {
		row, ok, err := adp.FetchRow(res, core.FetchNum)
		require.NoError(t, err)
		if !ok {
			break
		}
		names = append(names, adapter.ToString(row.Values[0]))
	}
	assert.Equal(t, []string{"bob", "cid"}, names)
}

func TestAdapter_AffectedRowsAndLastAutoID(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})
	createUsers(t, adp)

	id, err := adp.LastAutoID(ctx, "users", "id")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	res, err := adp.Execute(ctx, "UPDATE users SET city = 'Rome' WHERE id > 1")
	require.NoError(t, err)
	affected, ok, err := adp.AffectedRows(res)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), affected)
}

func TestAdapter_AffectedRowsKeywordsInLiterals(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})
	createUsers(t, adp)

	tests := []struct {
		name  string
		sql   string
		want  int64
		check string
	}{
		{
			name:  "keyword in string literal",
			sql:   "UPDATE users SET city = 'returning soon' WHERE id > 1",
			want:  2,
			check: "SELECT COUNT(*) FROM users WHERE city = 'returning soon'",
		},
		{
			name:  "update behind a CTE",
			sql:   "WITH movers AS (SELECT id FROM users WHERE name IN ('ana', 'cid')) UPDATE users SET city = 'Nice' WHERE id IN (SELECT id FROM movers)",
			want:  2,
			check: "SELECT COUNT(*) FROM users WHERE city = 'Nice'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := adp.Execute(ctx, tt.sql)
			require.NoError(t, err)
			assert.False(t, res.ReturnsRows())

			affected, ok, err := adp.AffectedRows(res)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, affected)

			n, err := scalar(ctx, adp, tt.check)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}

	res, err := adp.Execute(ctx, "UPDATE users SET city = 'Bern' WHERE id = 1 RETURNING id, city")
	require.NoError(t, err)
	assert.True(t, res.ReturnsRows())
	row, ok, err := adp.FetchRow(res, core.FetchAssoc)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bern", row.Assoc["city"])
}

func TestAdapter_FetchObject(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})
	createUsers(t, adp)

	type user struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
		City string `db:"city"`
	}

	_, err := adp.Execute(ctx, "SELECT id, name, city FROM users WHERE id = 2")
	require.NoError(t, err)

	var u user
	ok, err := adp.FetchObject(nil, &u)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user{ID: 2, Name: "bob", City: "Oslo"}, u)

	ok, err = adp.FetchObject(nil, &u)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdapter_Streaming(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{Options: map[string]string{"result_mode": "stream"}})
	createUsers(t, adp)

	res, err := adp.Execute(ctx, "SELECT name FROM users ORDER BY id")
	require.NoError(t, err)
	assert.True(t, res.Streaming())

	_, _, err = adp.NumRows(res)
	assert.ErrorIs(t, err, adapter.ErrUnsupported)

	count := 0
	for {
		_, ok, err := adp.FetchRow(res, core.FetchNum)
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 3, count)

	affected, _, err := adp.AffectedRows(res)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	// A new statement on the pinned connection releases the stream.
	_, err = adp.Execute(ctx, "SELECT name FROM users")
	require.NoError(t, err)
	_, _, err = adp.FetchRow(res, core.FetchNum)
	assert.ErrorIs(t, err, adapter.ErrStaleResult)
}

func TestAdapter_Reconnect(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})
	createUsers(t, adp)

	require.NoError(t, adp.Connect(ctx, adapter.Config{}))
	assert.True(t, adp.IsConnected())

	exists, err := adp.TableExists(ctx, "users", "")
	require.NoError(t, err)
	assert.False(t, exists, "a new in-memory database starts empty")

	closed, err := adp.Close()
	require.NoError(t, err)
	assert.True(t, closed)
	assert.False(t, adp.IsConnected())

	_, _, err = adp.FetchRow(nil, core.FetchNum)
	assert.ErrorIs(t, err, adapter.ErrStaleResult)

	assert.Contains(t, adp.LastError("after close"), "after close")
}

func TestAdapter_FilePragmas(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")
	adp := newMemoryAdapter(t, adapter.Config{Path: path, Options: map[string]string{"foreign_keys": "1"}})

	n, err := scalar(ctx, adp, "PRAGMA foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAdapter_Trace(t *testing.T) {
	ctx := context.Background()
	adp := newMemoryAdapter(t, adapter.Config{})

	var seen []string
	adp.Trace = func(sql string) { seen = append(seen, sql) }

	_, err := adp.TableExists(ctx, "users", "")
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Contains(t, seen[0], "pragma_table_list")
}
