package postgres

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Catalog answers introspection queries from information_schema and pg_catalog.
type Catalog struct{}

// TableExistsQuery counts matching rows in information_schema.tables.
func (Catalog) TableExistsQuery(schema, table string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = '%s' AND table_name = '%s'",
		schema, table)
}

// DescribeTableQuery reads pg_attribute for every live column of the table.
func (Catalog) DescribeTableQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT a.attname AS "field", t.typname AS "type",
		CASE WHEN a.attnotnull = false THEN 'YES' ELSE 'NO' END AS "null",
		CASE WHEN (SELECT cc.contype FROM pg_catalog.pg_constraint cc
			WHERE cc.conrelid = c.oid AND cc.conkey[1] = a.attnum LIMIT 1) = 'p' THEN 'PRI' ELSE '' END AS "key",
		CASE WHEN a.atthasdef = true THEN TRUE ELSE NULL END AS "default"
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_catalog.pg_attribute a ON a.attrelid = c.oid
		JOIN pg_catalog.pg_type t ON t.oid = a.atttypid
		WHERE c.relname = '%s' AND n.nspname = '%s'
		AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum`, table, schema)
}

// NormalizeField maps a DescribeTableQuery row to core.FieldInfo.
func (Catalog) NormalizeField(row core.Row) core.FieldInfo {
	field, _ := row.Get("field")
	typ, _ := row.Get("type")
	null, _ := row.Get("null")
	key, _ := row.Get("key")
	dflt, _ := row.Get("default")

	return core.FieldInfo{
		Field:   adapter.ToString(field),
		Type:    adapter.ToString(typ),
		Null:    adapter.ToString(null),
		Key:     adapter.ToString(key),
		Default: adapter.ToBool(dflt),
	}
}

// ListTablesQuery lists ordinary tables, excluding views and the
// pg_/sql_ system namespaces, including tables whose owner has no
// pg_user entry.
func (Catalog) ListTablesQuery() string {
	return `SELECT c.relname AS "table" FROM pg_class c, pg_user u
		WHERE c.relowner = u.usesysid AND c.relkind = 'r'
		AND NOT EXISTS (SELECT 1 FROM pg_views WHERE viewname = c.relname)
		AND c.relname !~ '^(pg_|sql_)'
		UNION
		SELECT c.relname AS "table" FROM pg_class c
		WHERE c.relkind = 'r'
		AND NOT EXISTS (SELECT 1 FROM pg_views WHERE viewname = c.relname)
		AND NOT EXISTS (SELECT 1 FROM pg_user WHERE usesysid = c.relowner)
		AND c.relname !~ '^pg_'`
}

// LastAutoIDQuery reads the session value of the column's implicit sequence.
func (Catalog) LastAutoIDQuery(table, column string) string {
	return fmt.Sprintf("SELECT currval('%s_%s_seq')", table, column)
}

var _ adapter.Catalog = Catalog{}
