package adapter

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by the typed errors below.
var (
	// ErrDriverUnavailable is matched by every DriverUnavailableError.
	ErrDriverUnavailable = errors.New("database driver not available")

	// ErrNotConnected is wrapped when an operation runs before Connect.
	ErrNotConnected = errors.New("database connection not established")

	// ErrStaleResult is wrapped when a result handle outlived its statement.
	ErrStaleResult = errors.New("result handle is no longer valid")

	// ErrOutOfRange is wrapped when a field index or row offset is invalid.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNoRows is wrapped when a scalar query produced no row.
	ErrNoRows = errors.New("query returned no rows")

	// ErrUnsupported is matched by every UnsupportedOperationError.
	ErrUnsupported = errors.New("operation not supported")
)

// DriverUnavailableError is returned by Connect when the engine's
// database/sql driver is not registered in this binary.
type DriverUnavailableError struct {
	Driver string
}

func (e *DriverUnavailableError) Error() string {
	return fmt.Sprintf("database driver %q is not available\nHint: import the adapter package so its driver is registered", e.Driver)
}

// Is reports whether target is ErrDriverUnavailable.
func (e *DriverUnavailableError) Is(target error) bool {
	return target == ErrDriverUnavailable
}

// ConnectionError is returned when a connection cannot be opened.
type ConnectionError struct {
	Msg string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %s", e.Msg)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError is returned when a statement fails.
type QueryError struct {
	SQL string
	Msg string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %s", e.Msg)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// DriverError is returned when a cursor or metadata operation fails.
// It is distinct from an empty result, which is never an error.
type DriverError struct {
	Op  string
	Msg string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// InvalidDefinitionError is returned for malformed CREATE TABLE input.
type InvalidDefinitionError struct {
	Table  string
	Reason string
	Err    error
}

func (e *InvalidDefinitionError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("invalid table definition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid definition for table %q: %s", e.Table, e.Reason)
}

func (e *InvalidDefinitionError) Unwrap() error {
	return e.Err
}

// UnsupportedOperationError is returned for capabilities an engine or
// cursor mode cannot provide.
type UnsupportedOperationError struct {
	Op     string
	Engine string
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	msg := fmt.Sprintf("%s is not supported by %s", e.Op, e.Engine)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}
