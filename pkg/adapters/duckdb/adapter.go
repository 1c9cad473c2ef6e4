// Package duckdb provides a DuckDB database adapter for leapdb.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	duckdialect "github.com/leapstack-labs/leapdb/pkg/adapters/duckdb/dialect"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DriverName is the database/sql driver used by this adapter.
const DriverName = "duckdb"

var settingNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:     logger,
			DriverName: DriverName,
			Engine:     duckdialect.DuckDB,
			Catalog:    Catalog{},
		},
	}
}

// Connect establishes a connection to DuckDB and prepares the session
// from cfg.Params: extensions are installed and loaded, settings applied
// and secrets created, in that order.
// Use ":memory:" (the default) as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return &adapter.ConnectionError{Msg: err.Error(), Err: err}
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	a.Logger.Debug("opening duckdb database", slog.String("path", path))

	if err := a.ConnectDriver(ctx, cfg, path); err != nil {
		return err
	}

	if err := a.configureSession(ctx, params); err != nil {
		_, _ = a.Close()
		return &adapter.ConnectionError{Msg: "failed to configure duckdb session: " + err.Error(), Err: err}
	}
	return nil
}

func (a *Adapter) configureSession(ctx context.Context, p *Params) error {
	for _, ext := range p.Extensions {
		if !settingNameRe.MatchString(ext) {
			return fmt.Errorf("invalid extension name %q", ext)
		}
		a.Logger.Debug("loading extension", slog.String("extension", ext))
		if _, err := a.Execute(ctx, "INSTALL "+ext); err != nil {
			return err
		}
		if _, err := a.Execute(ctx, "LOAD "+ext); err != nil {
			return err
		}
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !settingNameRe.MatchString(k) {
			return fmt.Errorf("invalid setting name %q", k)
		}
		stmt := fmt.Sprintf("SET %s = %s", k, a.Engine.QuoteString(p.Settings[k]))
		if _, err := a.Execute(ctx, stmt); err != nil {
			return err
		}
	}

	for i, s := range p.Secrets {
		if s.Type == "" {
			return fmt.Errorf("secret %d has no type", i+1)
		}
		a.Logger.Debug("creating secret", slog.String("type", s.Type), slog.String("provider", s.Provider))
		if _, err := a.Execute(ctx, buildCreateSecretSQL(s)); err != nil {
			return err
		}
	}
	return nil
}

// buildCreateSecretSQL renders a CREATE SECRET statement with one option
// per line.
func buildCreateSecretSQL(s SecretConfig) string {
	quote := duckdialect.DuckDB.QuoteString

	opts := []string{"TYPE " + s.Type}
	if s.Provider != "" {
		opts = append(opts, "PROVIDER "+s.Provider)
	}
	if s.Region != "" {
		opts = append(opts, "REGION "+quote(s.Region))
	}
	if scope := scopeList(s.Scope); len(scope) == 1 {
		opts = append(opts, "SCOPE "+quote(scope[0]))
	} else if len(scope) > 1 {
		quoted := make([]string, len(scope))
		for i, v := range scope {
			quoted[i] = quote(v)
		}
		opts = append(opts, "SCOPE ("+strings.Join(quoted, ", ")+")")
	}
	if s.KeyID != "" {
		opts = append(opts, "KEY_ID "+quote(s.KeyID))
	}
	if s.Secret != "" {
		opts = append(opts, "SECRET "+quote(s.Secret))
	}
	if s.Endpoint != "" {
		opts = append(opts, "ENDPOINT "+quote(s.Endpoint))
	}
	if s.URLStyle != "" {
		opts = append(opts, "URL_STYLE "+quote(s.URLStyle))
	}
	if s.UseSSL != nil {
		opts = append(opts, fmt.Sprintf("USE_SSL %t", *s.UseSSL))
	}

	return "CREATE SECRET (\n    " + strings.Join(opts, ",\n    ") + "\n)"
}

// scopeList accepts a single scope or a list of them.
func scopeList(v any) []string {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		if s == "" {
			return nil
		}
		return []string{s}
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, adapter.ToString(item))
		}
		return out
	default:
		return []string{adapter.ToString(s)}
	}
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
