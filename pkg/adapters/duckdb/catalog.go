package duckdb

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Catalog answers introspection queries from information_schema and the
// duckdb_* table functions.
type Catalog struct{}

// TableExistsQuery counts base tables with the given name.
func (Catalog) TableExistsQuery(schema, table string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_type = 'BASE TABLE' AND table_schema = '%s' AND lower(table_name) = '%s'",
		schema, table)
}

// DescribeTableQuery lists columns in ordinal order. The key column comes
// from the table's PRIMARY KEY constraint.
func (Catalog) DescribeTableQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT c.column_name AS "field", c.data_type AS "type", c.is_nullable AS "null",
		CASE WHEN EXISTS (
			SELECT 1 FROM duckdb_constraints() k
			WHERE k.schema_name = c.table_schema AND k.table_name = c.table_name
			AND k.constraint_type = 'PRIMARY KEY'
			AND list_contains(k.constraint_column_names, c.column_name)
		) THEN 'PRI' ELSE '' END AS "key",
		c.column_default IS NOT NULL AS "default"
		FROM information_schema.columns c
		WHERE c.table_schema = '%s' AND lower(c.table_name) = '%s'
		ORDER BY c.ordinal_position`, schema, table)
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

// ListTablesQuery lists user tables across attached schemas.
func (Catalog) ListTablesQuery() string {
	return "SELECT table_name FROM duckdb_tables() WHERE NOT internal ORDER BY schema_name, table_name"
}

// LastAutoIDQuery reads the sequence behind an auto column.
func (Catalog) LastAutoIDQuery(table, column string) string {
	return fmt.Sprintf("SELECT currval('%s_%s_seq')", table, column)
}

var _ adapter.Catalog = Catalog{}
