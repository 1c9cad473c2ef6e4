// Package postgres provides a PostgreSQL database adapter for leapdb.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	pgdialect "github.com/leapstack-labs/leapdb/pkg/adapters/postgres/dialect"
)

// DriverName is the database/sql driver used by this adapter.
const DriverName = "pgx"

// DefaultPort is used when the config leaves Port at zero.
const DefaultPort = 5432

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:     logger,
			DriverName: DriverName,
			Engine:     pgdialect.Postgres,
			Catalog:    Catalog{},
		},
	}
}

// Connect establishes a new connection to PostgreSQL.
// Any connection already held by the adapter is closed first.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.ConnectDriver(ctx, cfg, buildPostgresDSN(cfg))
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		dsnValue(host), port, dsnValue(cfg.Database), dsnValue(cfg.Option("sslmode", "disable")))

	if cfg.Username != "" {
		dsn += " user=" + dsnValue(cfg.Username)
	}
	if cfg.Password != "" {
		dsn += " password=" + dsnValue(cfg.Password)
	}

	// Remaining options are passed through as libpq parameters.
	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k == "sslmode" || k == "result_mode" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += fmt.Sprintf(" %s=%s", k, dsnValue(cfg.Options[k]))
	}

	return dsn
}

// dsnValue quotes a keyword/value parameter when libpq requires it.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
