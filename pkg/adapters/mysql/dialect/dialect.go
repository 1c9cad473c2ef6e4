// Package dialect provides the MySQL SQL dialect definition.
package dialect

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

var mysqlReservedWords = []string{
	"add", "all", "alter", "and", "as", "asc", "between", "by", "case",
	"change", "check", "column", "condition", "constraint", "create", "cross",
	"database", "databases", "default", "delete", "desc", "describe",
	"distinct", "drop", "else", "exists", "explain", "false", "for", "force",
	"foreign", "from", "fulltext", "group", "having", "if", "ignore", "in",
	"index", "inner", "insert", "interval", "into", "is", "join", "key",
	"keys", "left", "like", "limit", "lock", "match", "not", "null", "on",
	"option", "or", "order", "outer", "primary", "range", "read", "references",
	"rename", "replace", "right", "schema", "select", "set", "show", "table",
	"then", "to", "true", "union", "unique", "update", "usage", "use", "using",
	"values", "when", "where", "with", "write",
}

// MySQL is the MySQL dialect configuration.
//
// Table names are case sensitive on most Unix filesystems. String literals
// escape with backslashes unless NO_BACKSLASH_ESCAPES is set on the server.
var MySQL = dialect.NewDialect("mysql").
	Identifiers("`", "`", "``", core.NormCaseSensitive).
	DefaultSchema(""). // current database
	PlaceholderStyle(core.PlaceholderQuestion).
	StringEscape(core.EscapeBackslash).
	AutoIncrement("INTEGER AUTO_INCREMENT", dialect.AutoColumnType).
	InlineIndexes(true).
	WithDataTypes(
		"TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT",
		"DECIMAL", "FLOAT", "DOUBLE",
		"CHAR", "VARCHAR", "TINYTEXT", "TEXT", "MEDIUMTEXT", "LONGTEXT",
		"BINARY", "VARBINARY", "BLOB",
		"DATE", "TIME", "DATETIME", "TIMESTAMP", "YEAR",
		"ENUM", "SET", "JSON",
	).
	WithReservedWords(mysqlReservedWords...).
	Build()
