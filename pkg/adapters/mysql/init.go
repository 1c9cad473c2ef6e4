// Package mysql provides a MySQL database adapter for leapdb.
//
// This file registers the MySQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapdb/pkg/adapters/mysql"
package mysql

import (
	"log/slog"

	"github.com/leapstack-labs/leapdb/pkg/adapter"

	// Import dialect to ensure it's registered
	_ "github.com/leapstack-labs/leapdb/pkg/adapters/mysql/dialect"
)

func init() {
	factory := func(logger *slog.Logger) adapter.Adapter { return New(logger) }
	adapter.Register("mysql", factory)
	adapter.Register("mariadb", factory)
}
