// Package postgres provides a PostgreSQL database adapter for leapdb.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapdb/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/leapdb/pkg/adapter"

	// Import dialect to ensure it's registered
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/postgres/dialect"
)

func init() {
	factory := func(logger *slog.Logger) adapter.Adapter { return New(logger) }
	adapter.Register("postgres", factory)
	adapter.Register("postgresql", factory)
	adapter.Register("pgsql", factory)
}
