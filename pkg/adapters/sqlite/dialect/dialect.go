// Package dialect provides the SQLite SQL dialect definition.
package dialect

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect configuration.
//
// An INTEGER column declared PRIMARY KEY aliases the rowid, so auto
// columns only need the INTEGER type.
var SQLite = dialect.NewDialect("sqlite").
	Identifiers(`"`, `"`, `""`, core.NormCaseInsensitive).
	DefaultSchema("main").
	PlaceholderStyle(core.PlaceholderQuestion).
	StringEscape(core.EscapeDoubleQuote).
	AutoIncrement("INTEGER", dialect.AutoColumnType).
	WithDataTypes("INTEGER", "REAL", "TEXT", "BLOB", "NUMERIC", "VARCHAR", "BOOLEAN", "DATETIME").
	WithReservedWords(
		"abort", "action", "add", "all", "alter", "and", "as", "asc", "between",
		"by", "case", "check", "collate", "column", "commit", "constraint",
		"create", "cross", "default", "delete", "desc", "distinct", "drop",
		"else", "end", "escape", "except", "exists", "foreign", "from", "group",
		"having", "in", "index", "inner", "insert", "intersect", "into", "is",
		"join", "key", "left", "like", "limit", "not", "null", "offset", "on",
		"or", "order", "primary", "references", "right", "select", "set",
		"table", "then", "to", "union", "unique", "update", "using", "values",
		"when", "where", "with",
	).
	Build()
