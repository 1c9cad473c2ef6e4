package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get everything
// in Adapter except Connect. Concrete adapters build a DSN and call
// ConnectDriver.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Conn   *sql.Conn
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	// DriverName is the database/sql driver the engine uses.
	DriverName string
	// Engine is the dialect used for escaping, default schema and DDL.
	Engine *dialect.Dialect
	// Catalog supplies the engine's introspection queries.
	Catalog Catalog

	// Open opens a *sql.DB. Defaults to sql.Open.
	Open func(driverName, dsn string) (*sql.DB, error)
	// Trace, when set, receives every statement before it is sent.
	Trace func(sql string)

	current *Result
	gen     uint64
	lastSQL string
	lastErr string
}

func (b *BaseSQLAdapter) log() *slog.Logger {
	if b.Logger == nil {
		b.Logger = slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

func (b *BaseSQLAdapter) engineName() string {
	if b.Engine != nil {
		return b.Engine.Name
	}
	return b.DriverName
}

// DriverAvailable reports whether a database/sql driver is registered.
func DriverAvailable(name string) bool {
	return slices.Contains(sql.Drivers(), name)
}

// ConnectDriver opens a dedicated connection through the adapter's driver.
// An already open connection is closed first.
func (b *BaseSQLAdapter) ConnectDriver(ctx context.Context, cfg core.AdapterConfig, dsn string) error {
	logger := b.log()

	open := b.Open
	if open == nil {
		if !DriverAvailable(b.DriverName) {
			err := &DriverUnavailableError{Driver: b.DriverName}
			logger.Error(err.Error())
			return err
		}
		open = sql.Open
	}

	if b.Conn != nil || b.DB != nil {
		if _, err := b.Close(); err != nil {
			logger.Warn("failed to close previous connection", slog.String("error", err.Error()))
		}
	}

	logger.Debug("connecting", slog.String("engine", b.engineName()), slog.String("driver", b.DriverName))

	db, err := open(b.DriverName, dsn)
	if err != nil {
		b.lastErr = err.Error()
		return &ConnectionError{Msg: b.LastError("while opening the database"), Err: err}
	}

	// One session per adapter: temporary tables, sequences and
	// last-insert ids are all session scoped.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err == nil {
		err = conn.PingContext(ctx)
		if err != nil {
			_ = conn.Close()
		}
	}
	if err != nil {
		_ = db.Close()
		b.lastErr = err.Error()
		return &ConnectionError{Msg: b.LastError("unable to connect to the database"), Err: err}
	}

	b.DB = db
	b.Conn = conn
	b.Cfg = cfg
	b.lastErr = ""
	b.invalidate()
	b.current = nil

	logger.Debug("connected", slog.String("engine", b.engineName()))
	return nil
}

// Close closes the connection. It returns false when nothing was open.
// Results obtained before Close become stale.
func (b *BaseSQLAdapter) Close() (bool, error) {
	if b.Conn == nil && b.DB == nil {
		return false, nil
	}

	b.log().Debug("closing database connection")
	b.invalidate()

	var errs []error
	if b.Conn != nil {
		if err := b.Conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			errs = append(errs, err)
		}
	}
	if b.DB != nil {
		if err := b.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.Conn = nil
	b.DB = nil

	if err := errors.Join(errs...); err != nil {
		b.lastErr = err.Error()
		return false, &DriverError{Op: "close", Msg: b.LastError("while closing the connection"), Err: err}
	}
	return true, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.Conn != nil
}

// Dialect returns the SQL dialect configuration for this adapter.
func (b *BaseSQLAdapter) Dialect() *dialect.Dialect {
	return b.Engine
}

// DialectName returns the SQL dialect name.
func (b *BaseSQLAdapter) DialectName() string {
	return b.engineName()
}

// SetTrace installs fn to receive every statement before it is sent.
func (b *BaseSQLAdapter) SetTrace(fn func(string)) {
	b.Trace = fn
}

// LastStatement returns the most recent statement passed to Execute,
// whether or not it succeeded.
func (b *BaseSQLAdapter) LastStatement() string {
	return b.lastSQL
}

// LastError composes the last driver error with context and logs it.
func (b *BaseSQLAdapter) LastError(context string) string {
	var msg string
	switch {
	case b.lastErr != "":
		msg = joinContext(b.lastErr, context)
	case b.Conn == nil:
		msg = fmt.Sprintf("[unknown error in %s %q]", b.engineName(), context)
	default:
		msg = fmt.Sprintf("[unknown error in %s: %s]", b.engineName(), context)
	}
	b.log().Error(msg)
	return msg
}

func joinContext(msg, context string) string {
	context = strings.TrimSpace(context)
	if context == "" {
		return msg
	}
	return msg + " " + context
}

// invalidate makes every outstanding Result stale.
func (b *BaseSQLAdapter) invalidate() {
	if b.current != nil {
		b.current.release()
	}
	b.gen++
}

// Execute sends a statement and makes its result the current cursor.
// The previous result becomes stale whether or not the statement succeeds.
func (b *BaseSQLAdapter) Execute(ctx context.Context, query string) (*Result, error) {
	b.lastSQL = query
	if b.Trace != nil {
		b.Trace(query)
	}
	b.log().Debug("executing statement", slog.String("sql", query))

	if b.Conn == nil {
		b.lastErr = ErrNotConnected.Error()
		return nil, &QueryError{SQL: query, Msg: b.LastError(fmt.Sprintf("while executing '%s'", query)), Err: ErrNotConnected}
	}

	b.invalidate()
	b.current = nil

	res := &Result{owner: b, gen: b.gen, sql: query}
	if returnsRows(query, b.Engine != nil && b.Engine.StringEscape == core.EscapeBackslash) {
		//nolint:rowserrcheck // rows.Err() is checked by Result.load and Result.next
		rows, err := b.Conn.QueryContext(ctx, query)
		if err == nil {
			err = res.load(rows, b.Cfg.Streaming())
		}
		if err != nil {
			return nil, b.queryFailed(query, err)
		}
	} else {
		r, err := b.Conn.ExecContext(ctx, query)
		if err != nil {
			return nil, b.queryFailed(query, err)
		}
		res.exec = r
	}

	b.lastErr = ""
	b.current = res
	return res, nil
}

func (b *BaseSQLAdapter) queryFailed(query string, err error) error {
	b.lastErr = err.Error()
	return &QueryError{SQL: query, Msg: b.LastError(fmt.Sprintf("while executing '%s'", query)), Err: err}
}

// cursor resolves a handle. ok is false when res is nil and there is no
// current cursor.
func (b *BaseSQLAdapter) cursor(op string, res *Result) (*Result, bool, error) {
	if res == nil {
		if b.current == nil {
			return nil, false, nil
		}
		res = b.current
	}
	if res.owner != b || res.gen != b.gen || b.Conn == nil {
		return nil, false, b.driverError(op, ErrStaleResult, "")
	}
	return res, true, nil
}

func (b *BaseSQLAdapter) driverError(op string, err error, context string) error {
	b.lastErr = err.Error()
	return &DriverError{Op: op, Msg: b.LastError(context), Err: err}
}

// FetchRow returns the next row of res (or the current cursor).
// ok is false, with a nil error, when the rows are exhausted or there is
// no cursor at all.
func (b *BaseSQLAdapter) FetchRow(res *Result, mode core.FetchMode) (core.Row, bool, error) {
	r, ok, err := b.cursor("fetch row", res)
	if !ok {
		return core.Row{}, false, err
	}
	values, ok, err := r.next()
	if err != nil {
		return core.Row{}, false, b.driverError("fetch row", err, "while fetching a row")
	}
	if !ok {
		return core.Row{}, false, nil
	}
	if mode != core.FetchAssoc && mode != core.FetchNum {
		mode = core.FetchBoth
	}
	return buildRow(r.columns, values, mode), true, nil
}

// FetchObject decodes the next row into dst, matching struct fields to
// columns by name (case-insensitive) or by their `db` tag.
func (b *BaseSQLAdapter) FetchObject(res *Result, dst any) (bool, error) {
	row, ok, err := b.FetchRow(res, core.FetchAssoc)
	if !ok {
		return false, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "db",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return false, fmt.Errorf("fetch object: %w", err)
	}
	if err := decoder.Decode(row.Assoc); err != nil {
		return false, b.driverError("fetch object", err, "while decoding a row")
	}
	return true, nil
}

// NumRows returns the number of rows in the result set. Statements that
// return no rows report zero.
func (b *BaseSQLAdapter) NumRows(res *Result) (int64, bool, error) {
	r, ok, err := b.cursor("num rows", res)
	if !ok {
		return 0, false, err
	}
	if r.Streaming() {
		return 0, false, &UnsupportedOperationError{Op: "num rows", Engine: b.engineName(), Reason: "result is streamed"}
	}
	return int64(len(r.rows)), true, nil
}

// FieldName resolves a column ordinal to its name.
func (b *BaseSQLAdapter) FieldName(res *Result, index int) (string, bool, error) {
	r, ok, err := b.cursor("field name", res)
	if !ok {
		return "", false, err
	}
	if index < 0 || index >= len(r.columns) {
		return "", false, b.driverError("field name", ErrOutOfRange, fmt.Sprintf("field %d of %d", index, len(r.columns)))
	}
	return r.columns[index], true, nil
}

// Fields describes every column of the result set.
func (b *BaseSQLAdapter) Fields(res *Result) ([]core.FieldDescriptor, bool, error) {
	r, ok, err := b.cursor("fields", res)
	if !ok {
		return nil, false, err
	}
	fields := make([]core.FieldDescriptor, len(r.columns))
	for i, name := range r.columns {
		fields[i] = core.FieldDescriptor{Index: i, Name: name, TypeName: r.types[i]}
	}
	return fields, true, nil
}

// Seek moves the cursor to an absolute row offset.
func (b *BaseSQLAdapter) Seek(res *Result, row int64) (bool, error) {
	r, ok, err := b.cursor("seek", res)
	if !ok {
		return false, err
	}
	if r.Streaming() {
		return false, &UnsupportedOperationError{Op: "seek", Engine: b.engineName(), Reason: "result is streamed"}
	}
	if row < 0 || row >= int64(len(r.rows)) {
		return false, b.driverError("seek", ErrOutOfRange, fmt.Sprintf("row %d of %d", row, len(r.rows)))
	}
	r.pos = int(row)
	return true, nil
}

// AffectedRows returns the rows changed by an INSERT, UPDATE or DELETE.
// For statements that return rows it is the size of the result set, or
// the rows read so far when the result is streamed.
func (b *BaseSQLAdapter) AffectedRows(res *Result) (int64, bool, error) {
	r, ok, err := b.cursor("affected rows", res)
	if !ok {
		return 0, false, err
	}
	if r.returnsRows {
		if r.Streaming() {
			return r.streamed, true, nil
		}
		return int64(len(r.rows)), true, nil
	}
	n, err := r.exec.RowsAffected()
	if err != nil {
		return 0, false, b.driverError("affected rows", err, "")
	}
	return n, true, nil
}

// Limit appends LIMIT/OFFSET clauses to sql.
func (b *BaseSQLAdapter) Limit(sql string, opts core.LimitOptions) string {
	return Limit(sql, opts)
}
