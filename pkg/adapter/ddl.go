package adapter

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// DDL is the statement sequence produced for one CREATE TABLE.
type DDL struct {
	Before []string // e.g. CREATE SEQUENCE for sequence-backed auto columns
	Create string
	After  []string // e.g. CREATE INDEX when indexes cannot be inline

	// Sequences names the sequences Before creates. They are not owned by
	// the table and must be dropped separately.
	Sequences []string
}

// Statements returns the statements in execution order.
func (d DDL) Statements() []string {
	stmts := make([]string, 0, len(d.Before)+1+len(d.After))
	stmts = append(stmts, d.Before...)
	stmts = append(stmts, d.Create)
	return append(stmts, d.After...)
}

// String joins the statements into a script.
func (d DDL) String() string {
	return strings.Join(d.Statements(), ";\n") + ";"
}

// BuildCreateTable renders CREATE TABLE for defs in the given dialect.
//
// Column lines come first in definition order, then PRIMARY KEY(...) over
// every primary column, then one index marker per indexed column, then one
// UNIQUE(...) per unique column.
func BuildCreateTable(d *dialect.Dialect, table string, defs core.ColumnDefs) (DDL, error) {
	var ddl DDL

	table = strings.TrimSpace(table)
	if table == "" {
		return ddl, &InvalidDefinitionError{Reason: "table name is empty"}
	}
	if len(defs) == 0 {
		return ddl, &InvalidDefinitionError{Table: table, Reason: "no columns defined"}
	}

	seen := make(map[string]bool, len(defs))
	lines := make([]string, 0, len(defs)+2)
	var primary, indexed, unique []string

	for i, col := range defs {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			return ddl, &InvalidDefinitionError{Table: table, Reason: fmt.Sprintf("column %d has no name", i+1)}
		}
		key := strings.ToLower(name)
		if seen[key] {
			return ddl, &InvalidDefinitionError{Table: table, Reason: fmt.Sprintf("duplicate column %q", name)}
		}
		seen[key] = true

		typ := strings.TrimSpace(col.Type)
		size := strings.TrimSpace(col.Size)
		if col.Auto {
			size = ""
			typ = d.AutoIncrement
			if d.AutoStyle == dialect.AutoSequence {
				seq := d.SequenceName(table, name)
				ddl.Before = append(ddl.Before, "CREATE SEQUENCE IF NOT EXISTS "+seq)
				ddl.Sequences = append(ddl.Sequences, seq)
				typ = fmt.Sprintf("%s DEFAULT nextval('%s')", d.AutoIncrement, seq)
			}
		}
		if typ == "" {
			return ddl, &InvalidDefinitionError{Table: table, Reason: fmt.Sprintf("column %q has no type", name)}
		}
		if size != "" {
			typ += "(" + size + ")"
		}

		parts := []string{name, typ}
		if col.NotNull {
			parts = append(parts, "NOT NULL")
		}
		if extra := strings.TrimSpace(col.Extra); extra != "" {
			parts = append(parts, extra)
		}
		lines = append(lines, strings.Join(parts, " "))

		if col.Primary {
			primary = append(primary, name)
		}
		if col.Index {
			indexed = append(indexed, name)
		}
		if col.UniqueIndex {
			unique = append(unique, name)
		}
	}

	if len(primary) > 0 {
		lines = append(lines, "PRIMARY KEY("+strings.Join(primary, ",")+")")
	}
	for _, col := range indexed {
		if d.InlineIndexes {
			lines = append(lines, "INDEX("+col+")")
			continue
		}
		idx := strings.ReplaceAll(table, ".", "_") + "_" + col + "_idx"
		ddl.After = append(ddl.After, fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx, table, col))
	}
	for _, col := range unique {
		lines = append(lines, "UNIQUE("+col+")")
	}

	ddl.Create = "CREATE TABLE " + table + " (" + strings.Join(lines, ", ") + ")"
	return ddl, nil
}
