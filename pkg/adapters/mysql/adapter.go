// Package mysql provides a MySQL database adapter for leapdb.
package mysql

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/leapdb/pkg/adapter"
	mydialect "github.com/leapstack-labs/leapdb/pkg/adapters/mysql/dialect"
)

// DriverName is the database/sql driver used by this adapter.
const DriverName = "mysql"

// DefaultPort is used when the config leaves Port at zero.
const DefaultPort = 3306

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:     logger,
			DriverName: DriverName,
			Engine:     mydialect.MySQL,
			Catalog:    Catalog{},
		},
	}
}

// Connect establishes a new connection to MySQL.
// Any connection already held by the adapter is closed first.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.ConnectDriver(ctx, cfg, buildMySQLDSN(cfg))
}

// buildMySQLDSN constructs a go-sql-driver DSN.
//
// The "socket" option selects a unix socket instead of TCP and "timeout"
// sets the dial timeout. Other options, except result_mode, become DSN
// parameters.
func buildMySQLDSN(cfg adapter.Config) string {
	c := mysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.DBName = cfg.Database

	if socket := cfg.Option("socket", ""); socket != "" {
		c.Net = "unix"
		c.Addr = socket
	} else {
		host := cfg.Host
		if host == "" {
			host = "localhost"
		}
		port := cfg.Port
		if port == 0 {
			port = DefaultPort
		}
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	}

	if timeout, err := time.ParseDuration(cfg.Option("timeout", "")); err == nil {
		c.Timeout = timeout
	}

	for k, v := range cfg.Options {
		switch k {
		case "socket", "timeout", "result_mode":
			continue
		}
		if c.Params == nil {
			c.Params = make(map[string]string)
		}
		c.Params[k] = v
	}

	return c.FormatDSN()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
