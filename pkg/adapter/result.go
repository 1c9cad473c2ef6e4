package adapter

import (
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Result is the handle returned by Execute.
//
// A Result is valid only until the next Execute or Close on the adapter
// that produced it. Row-returning results are buffered in memory unless
// the adapter was connected with the "result_mode: stream" option, in
// which case rows are read lazily and NumRows and Seek are unavailable.
type Result struct {
	owner *BaseSQLAdapter
	gen   uint64
	sql   string

	columns []string
	types   []string

	// Row-returning statements
	returnsRows bool
	rows        [][]any
	pos         int
	stream      *sql.Rows
	streamed    int64

	// Everything else
	exec sql.Result
}

// SQL returns the statement that produced this result.
func (r *Result) SQL() string {
	return r.sql
}

// Columns returns the result set's column names.
func (r *Result) Columns() []string {
	return r.columns
}

// ReturnsRows reports whether the statement produced a result set.
func (r *Result) ReturnsRows() bool {
	return r.returnsRows
}

// Streaming reports whether rows are read lazily from the driver.
func (r *Result) Streaming() bool {
	return r.stream != nil
}

// load reads column metadata and, unless streaming, every row.
func (r *Result) load(rows *sql.Rows, stream bool) error {
	r.returnsRows = true

	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to read columns: %w", err)
	}
	r.columns = cols

	r.types = make([]string, len(cols))
	if colTypes, err := rows.ColumnTypes(); err == nil {
		for i, ct := range colTypes {
			if i < len(r.types) {
				r.types[i] = ct.DatabaseTypeName()
			}
		}
	}

	if stream {
		r.stream = rows
		return nil
	}

	defer func() { _ = rows.Close() }()
	for rows.Next() {
		values, err := scanValues(rows, len(cols))
		if err != nil {
			return err
		}
		r.rows = append(r.rows, values)
	}
	return rows.Err()
}

// next advances the cursor. ok is false once the rows are exhausted.
func (r *Result) next() (values []any, ok bool, err error) {
	if !r.returnsRows {
		return nil, false, nil
	}

	if r.stream != nil {
		if !r.stream.Next() {
			err := r.stream.Err()
			_ = r.stream.Close()
			return nil, false, err
		}
		values, err := scanValues(r.stream, len(r.columns))
		if err != nil {
			return nil, false, err
		}
		r.streamed++
		return values, true, nil
	}

	if r.pos >= len(r.rows) {
		return nil, false, nil
	}
	values = r.rows[r.pos]
	r.pos++
	return values, true, nil
}

// release frees the driver cursor held by a streaming result.
func (r *Result) release() {
	if r.stream != nil {
		_ = r.stream.Close()
	}
}

func scanValues(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

// buildRow shapes raw values according to mode.
func buildRow(columns []string, values []any, mode core.FetchMode) core.Row {
	row := core.Row{Columns: columns}
	if mode == core.FetchNum || mode == core.FetchBoth {
		row.Values = values
	}
	if mode == core.FetchAssoc || mode == core.FetchBoth {
		row.Assoc = make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(values) {
				row.Assoc[col] = values[i]
			}
		}
	}
	return row
}
