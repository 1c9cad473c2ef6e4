package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// TableExists reports whether a table exists in schema (or the schema
// named in a dotted table reference, or the dialect's default schema).
func (b *BaseSQLAdapter) TableExists(ctx context.Context, table, schema string) (bool, error) {
	s, t := escapedName(table, schema, b.Engine)
	n, err := b.scalarInt(ctx, "table exists", b.Catalog.TableExistsQuery(s, t))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DescribeTable lists a table's columns in catalog order. A table that
// does not exist yields an empty slice.
func (b *BaseSQLAdapter) DescribeTable(ctx context.Context, table, schema string) ([]core.FieldInfo, error) {
	s, t := escapedName(table, schema, b.Engine)
	res, err := b.Execute(ctx, b.Catalog.DescribeTableQuery(s, t))
	if err != nil {
		return nil, err
	}

	fields := []core.FieldInfo{}
	for {
		row, ok, err := b.FetchRow(res, core.FetchBoth)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		fields = append(fields, b.Catalog.NormalizeField(row))
	}
	return fields, nil
}

// ListTables returns user table names in the engine's catalog order.
func (b *BaseSQLAdapter) ListTables(ctx context.Context) ([]string, error) {
	res, err := b.Execute(ctx, b.Catalog.ListTablesQuery())
	if err != nil {
		return nil, err
	}

	tables := []string{}
	for {
		row, ok, err := b.FetchRow(res, core.FetchNum)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if v, ok := row.At(0); ok {
			tables = append(tables, ToString(v))
		}
	}
	return tables, nil
}

// DropTable drops table. With ifExists the table is only dropped when
// TableExists finds it, and a missing table is not an error. On engines
// with sequence-backed auto columns the sequences behind the table's
// defaults are dropped too.
func (b *BaseSQLAdapter) DropTable(ctx context.Context, table string, ifExists bool) (bool, error) {
	if ifExists {
		exists, err := b.TableExists(ctx, table, "")
		if err != nil {
			return false, err
		}
		if !exists {
			b.log().Debug("table does not exist, nothing to drop", slog.String("table", table))
			return true, nil
		}
	}

	var seqs []string
	if b.Engine != nil && b.Engine.AutoStyle == dialect.AutoSequence {
		fields, err := b.DescribeTable(ctx, table, "")
		if err != nil {
			return false, err
		}
		for _, f := range fields {
			if f.Default {
				seqs = append(seqs, b.Engine.SequenceName(table, f.Field))
			}
		}
	}

	if _, err := b.Execute(ctx, "DROP TABLE "+table); err != nil {
		msg := err.Error()
		var qe *QueryError
		if errors.As(err, &qe) {
			msg = qe.Msg
		}
		return false, &DriverError{Op: "drop table", Msg: msg, Err: err}
	}
	b.dropSequences(ctx, seqs)
	return true, nil
}

// CreateTable generates CREATE TABLE for defs and runs it, together with
// any supporting sequence or index statements the dialect requires.
// Multi-column indexes are not supported.
func (b *BaseSQLAdapter) CreateTable(ctx context.Context, table string, defs core.ColumnDefs, indexes ...core.IndexSpec) error {
	if len(indexes) > 0 {
		return &UnsupportedOperationError{
			Op:     "composite index",
			Engine: b.engineName(),
			Reason: fmt.Sprintf("table %s declares %d index specification(s)", table, len(indexes)),
		}
	}

	ddl, err := BuildCreateTable(b.Engine, table, defs)
	if err != nil {
		return err
	}
	for _, stmt := range ddl.Before {
		if _, err := b.Execute(ctx, stmt); err != nil {
			b.dropOrphanSequences(ctx, table, ddl.Sequences)
			return err
		}
	}
	if _, err := b.Execute(ctx, ddl.Create); err != nil {
		b.dropOrphanSequences(ctx, table, ddl.Sequences)
		return err
	}
	for _, stmt := range ddl.After {
		if _, err := b.Execute(ctx, stmt); err != nil {
			b.undo(ctx, "DROP TABLE "+table)
			b.dropSequences(ctx, ddl.Sequences)
			return err
		}
	}
	return nil
}

// dropOrphanSequences drops seqs after a failed create, unless table
// exists and may own them.
func (b *BaseSQLAdapter) dropOrphanSequences(ctx context.Context, table string, seqs []string) {
	if len(seqs) == 0 {
		return
	}
	if exists, err := b.TableExists(ctx, table, ""); err != nil || exists {
		return
	}
	b.dropSequences(ctx, seqs)
}

// dropSequences removes sequences left behind by a dropped or
// half-created table.
func (b *BaseSQLAdapter) dropSequences(ctx context.Context, seqs []string) {
	for _, seq := range seqs {
		b.undo(ctx, "DROP SEQUENCE IF EXISTS "+seq)
	}
}

// undo runs a cleanup statement. Failures are logged, never returned, so
// the caller's original error survives.
func (b *BaseSQLAdapter) undo(ctx context.Context, stmt string) {
	if _, err := b.Execute(ctx, stmt); err != nil {
		b.log().Warn("cleanup statement failed", slog.String("sql", stmt), slog.String("error", err.Error()))
	}
}

// LastAutoID returns the key most recently generated for table.column in
// this session.
func (b *BaseSQLAdapter) LastAutoID(ctx context.Context, table, column string) (int64, error) {
	return b.scalarInt(ctx, "last auto id", b.Catalog.LastAutoIDQuery(table, column))
}

// scalarInt runs query and reads the first column of its first row.
func (b *BaseSQLAdapter) scalarInt(ctx context.Context, op, query string) (int64, error) {
	res, err := b.Execute(ctx, query)
	if err != nil {
		return 0, err
	}
	row, ok, err := b.FetchRow(res, core.FetchNum)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, b.driverError(op, ErrNoRows, "")
	}
	v, _ := row.At(0)
	n, err := ToInt64(v)
	if err != nil {
		return 0, b.driverError(op, err, "")
	}
	return n, nil
}
