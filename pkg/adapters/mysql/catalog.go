package mysql

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Catalog answers introspection queries from information_schema.
// An empty schema means the connection's current database.
type Catalog struct{}

func schemaExpr(schema string) string {
	if schema == "" {
		return "DATABASE()"
	}
	return "'" + schema + "'"
}

// TableExistsQuery counts matching rows in information_schema.TABLES.
func (Catalog) TableExistsQuery(schema, table string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = %s AND TABLE_NAME = '%s'",
		schemaExpr(schema), table)
}

// DescribeTableQuery reads information_schema.COLUMNS in ordinal order.
func (Catalog) DescribeTableQuery(schema, table string) string {
	return fmt.Sprintf("SELECT COLUMN_NAME AS `field`, COLUMN_TYPE AS `type`, IS_NULLABLE AS `null`, "+
		"COLUMN_KEY AS `key`, COLUMN_DEFAULT AS `default`, EXTRA AS `extra` "+
		"FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = %s AND TABLE_NAME = '%s' "+
		"ORDER BY ORDINAL_POSITION",
		schemaExpr(schema), table)
}

// NormalizeField maps a DescribeTableQuery row to core.FieldInfo.
// MUL and UNI keys are not primary keys and normalize to "". An
// auto_increment column counts as having a default.
func (Catalog) NormalizeField(row core.Row) core.FieldInfo {
	field, _ := row.Get("field")
	typ, _ := row.Get("type")
	null, _ := row.Get("null")
	key, _ := row.Get("key")
	dflt, _ := row.Get("default")
	extra, _ := row.Get("extra")

	info := core.FieldInfo{
		Field:   adapter.ToString(field),
		Type:    adapter.ToString(typ),
		Null:    strings.ToUpper(adapter.ToString(null)),
		Default: dflt != nil || strings.Contains(strings.ToLower(adapter.ToString(extra)), "auto_increment"),
	}
	if strings.EqualFold(adapter.ToString(key), core.KeyPrimary) {
		info.Key = core.KeyPrimary
	}
	return info
}

// ListTablesQuery lists base tables of the current database.
func (Catalog) ListTablesQuery() string {
	return "SELECT TABLE_NAME AS `table` FROM information_schema.TABLES " +
		"WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
}

// LastAutoIDQuery returns the session's last AUTO_INCREMENT value.
// MySQL tracks one value per connection, so table and column are unused.
func (Catalog) LastAutoIDQuery(_, _ string) string {
	return "SELECT LAST_INSERT_ID()"
}

var _ adapter.Catalog = Catalog{}
