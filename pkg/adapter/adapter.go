// Package adapter provides the database adapter contract for leapdb.
//
// An Adapter is a thin, stateful, single-connection facade over one
// database engine. Application code issues SQL through Execute, walks the
// returned Result (or the adapter's current cursor) with FetchRow and
// friends, and introspects schema through TableExists, DescribeTable and
// ListTables without depending on the engine's client protocol or catalog
// layout.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
// They embed BaseSQLAdapter, which implements everything except Connect,
// and supply a Catalog describing their engine's system tables.
//
// Adapters are not safe for concurrent use. Use one adapter per goroutine.
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
//
// Cursor operations accept an explicit *Result or nil. A nil handle means
// the adapter's current cursor, which is the result of the most recent
// Execute. When there is no current cursor these operations report
// ok == false with a nil error.
type Adapter interface {
	// Connect opens a new, non-shared connection using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection. It returns false when nothing was open.
	Close() (bool, error)

	// IsConnected returns true if the connection is established.
	IsConnected() bool

	// Execute sends a statement and makes its result the current cursor.
	Execute(ctx context.Context, sql string) (*Result, error)

	// LastStatement returns the most recent statement passed to Execute.
	LastStatement() string

	// FetchRow returns the next row; ok is false at the end of the cursor.
	FetchRow(res *Result, mode core.FetchMode) (core.Row, bool, error)

	// FetchObject decodes the next row into dst, a pointer to a struct.
	FetchObject(res *Result, dst any) (bool, error)

	// NumRows returns the number of rows in the result set.
	NumRows(res *Result) (int64, bool, error)

	// FieldName resolves a column ordinal to its name.
	FieldName(res *Result, index int) (string, bool, error)

	// Fields describes every column of the result set.
	Fields(res *Result) ([]core.FieldDescriptor, bool, error)

	// Seek moves the cursor to an absolute row offset.
	Seek(res *Result, row int64) (bool, error)

	// AffectedRows returns the rows changed by an INSERT, UPDATE or DELETE.
	AffectedRows(res *Result) (int64, bool, error)

	// LastError composes the last driver error with a caller context.
	LastError(context string) string

	// TableExists reports whether a table exists. The name may be schema-qualified.
	TableExists(ctx context.Context, table, schema string) (bool, error)

	// DescribeTable lists a table's columns in the canonical FieldInfo shape.
	DescribeTable(ctx context.Context, table, schema string) ([]core.FieldInfo, error)

	// ListTables returns user table names, excluding views and system tables.
	ListTables(ctx context.Context) ([]string, error)

	// Limit appends LIMIT/OFFSET clauses for numeric options.
	Limit(sql string, opts core.LimitOptions) string

	// DropTable drops a table, optionally only when it exists.
	DropTable(ctx context.Context, table string, ifExists bool) (bool, error)

	// CreateTable generates and runs CREATE TABLE DDL for the column definitions.
	CreateTable(ctx context.Context, table string, defs core.ColumnDefs, indexes ...core.IndexSpec) error

	// LastAutoID returns the most recent auto-generated key for table.column.
	LastAutoID(ctx context.Context, table, column string) (int64, error)

	// Dialect returns the SQL dialect configuration for this adapter.
	Dialect() *dialect.Dialect

	// DialectName returns the SQL dialect name (e.g., "postgres", "sqlite").
	DialectName() string
}

// Catalog isolates an engine's catalog dialect.
//
// Schema and table arguments arrive lowercased and already escaped for
// embedding between single quotes. An empty schema means the engine's
// notion of the current schema or database.
type Catalog interface {
	// TableExistsQuery returns a query producing a single COUNT(*) value.
	TableExistsQuery(schema, table string) string

	// DescribeTableQuery returns a query producing one row per column.
	DescribeTableQuery(schema, table string) string

	// NormalizeField maps one DescribeTableQuery row to the canonical shape.
	NormalizeField(row core.Row) core.FieldInfo

	// ListTablesQuery returns a query whose first column is a table name.
	ListTablesQuery() string

	// LastAutoIDQuery returns a query producing the last generated key.
	LastAutoIDQuery(table, column string) string
}

// Tracer is implemented by adapters that report each statement before
// sending it.
type Tracer interface {
	SetTrace(fn func(sql string))
}

var _ Tracer = (*BaseSQLAdapter)(nil)
