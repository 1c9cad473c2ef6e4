package sqlite

import (
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Catalog answers introspection queries from sqlite_master and the
// table-valued pragma functions.
type Catalog struct{}

// TableExistsQuery counts matching tables in pragma_table_list.
func (Catalog) TableExistsQuery(schema, table string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM pragma_table_list WHERE type = 'table' AND schema = '%s' AND name = '%s' COLLATE NOCASE",
		schema, table)
}

// DescribeTableQuery reads pragma_table_info in column order.
func (Catalog) DescribeTableQuery(schema, table string) string {
	return fmt.Sprintf(`SELECT name AS "field", type AS "type",
		CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END AS "null",
		CASE WHEN pk > 0 THEN 'PRI' ELSE '' END AS "key",
		dflt_value IS NOT NULL AS "default"
		FROM pragma_table_info('%s', '%s') ORDER BY cid`, table, schema)
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

// ListTablesQuery lists user tables of the main database.
func (Catalog) ListTablesQuery() string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY name`
}

// LastAutoIDQuery returns the rowid of the connection's last insert.
func (Catalog) LastAutoIDQuery(_, _ string) string {
	return "SELECT last_insert_rowid()"
}

var _ adapter.Catalog = Catalog{}
