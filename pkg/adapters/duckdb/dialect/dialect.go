// Package dialect provides the DuckDB SQL dialect definition.
// This package is lightweight and has no database driver dependencies,
// making it suitable for tools that need dialect information without
// the overhead of database connections.
package dialect

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect configuration.
//
// DuckDB has no SERIAL type, so auto columns draw from a sequence created
// alongside the table.
var DuckDB = dialect.NewDialect("duckdb").
	Identifiers(`"`, `"`, `""`, core.NormCaseInsensitive).
	DefaultSchema("main").
	PlaceholderStyle(core.PlaceholderDollar).
	StringEscape(core.EscapeDoubleQuote).
	AutoIncrement("INTEGER", dialect.AutoSequence).
	WithDataTypes(
		"BOOLEAN", "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT",
		"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT",
		"FLOAT", "DOUBLE", "DECIMAL", "VARCHAR", "BLOB",
		"DATE", "TIME", "TIMESTAMP", "TIMESTAMPTZ", "INTERVAL",
		"UUID", "JSON", "LIST", "STRUCT", "MAP",
	).
	WithReservedWords(
		"all", "analyse", "analyze", "and", "any", "array", "as", "asc",
		"asymmetric", "both", "case", "cast", "check", "collate", "column",
		"constraint", "create", "default", "deferrable", "desc", "describe",
		"distinct", "do", "else", "end", "except", "false", "fetch", "for",
		"foreign", "from", "grant", "group", "having", "in", "initially",
		"intersect", "into", "lateral", "leading", "limit", "not", "null",
		"offset", "on", "only", "or", "order", "pivot", "placing", "primary",
		"qualify", "references", "returning", "select", "show", "some",
		"summarize", "symmetric", "table", "then", "to", "trailing", "true",
		"union", "unique", "unpivot", "using", "variadic", "when", "where",
		"window", "with",
	).
	Build()
