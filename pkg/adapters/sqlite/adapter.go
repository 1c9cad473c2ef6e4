// Package sqlite provides a SQLite database adapter for leapdb.
package sqlite

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	sqlitedialect "github.com/leapstack-labs/leapdb/pkg/adapters/sqlite/dialect"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DriverName is the database/sql driver used by this adapter.
const DriverName = "sqlite"

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:     logger,
			DriverName: DriverName,
			Engine:     sqlitedialect.SQLite,
			Catalog:    Catalog{},
		},
	}
}

// Connect opens the database file at cfg.Path.
// Use ":memory:" (the default) for an in-memory database; it lives as
// long as the adapter's connection.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("opening sqlite database", slog.String("path", pathOrMemory(cfg.Path)))
	return a.ConnectDriver(ctx, cfg, buildSQLiteDSN(cfg))
}

func pathOrMemory(path string) string {
	if path == "" {
		return ":memory:"
	}
	return path
}

// buildSQLiteDSN turns options into _pragma parameters, e.g.
// foreign_keys: "1" becomes _pragma=foreign_keys(1).
func buildSQLiteDSN(cfg adapter.Config) string {
	path := pathOrMemory(cfg.Path)

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k == "result_mode" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return path
	}
	sort.Strings(keys)

	params := url.Values{}
	for _, k := range keys {
		params.Add("_pragma", k+"("+cfg.Options[k]+")")
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + params.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
