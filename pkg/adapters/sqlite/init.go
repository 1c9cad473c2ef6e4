// Package sqlite provides a SQLite database adapter for leapdb.
//
// This file registers the SQLite adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapdb/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/leapdb/pkg/adapter"

	// Import dialect to ensure it's registered
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/sqlite/dialect"
)

func init() {
	factory := func(logger *slog.Logger) adapter.Adapter { return New(logger) }
	adapter.Register("sqlite", factory)
	adapter.Register("sqlite3", factory)
}
