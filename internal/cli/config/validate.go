package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/adapter"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// canonicalTypes maps registry aliases to the dialect they use.
var canonicalTypes = map[string]string{
	"postgresql": "postgres",
	"pgsql":      "postgres",
	"mariadb":    "mysql",
	"sqlite3":    "sqlite",
}

// fileTypes are engines addressed by a path rather than a server.
var fileTypes = map[string]bool{"sqlite": true, "duckdb": true}

// CanonicalType lowercases a target type and resolves aliases.
func CanonicalType(typ string) string {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if c, ok := canonicalTypes[typ]; ok {
		return c
	}
	return typ
}

// ApplyTargetDefaults fills in the schema, port and path a target type
// implies when they are not set.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	typ := CanonicalType(t.Type)

	if t.Schema == "" {
		if d, ok := dialect.Get(typ); ok {
			t.Schema = d.DefaultSchema
		}
	}

	switch typ {
	case "postgres":
		if t.Port == 0 {
			t.Port = 5432
		}
	case "mysql":
		if t.Port == 0 {
			t.Port = 3306
		}
	case "sqlite", "duckdb":
		if t.Path == "" {
			t.Path = ":memory:"
		}
	}
}

// ValidateTarget checks that the target names a registered adapter and
// carries what that adapter needs to connect.
func ValidateTarget(t *TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	if !fileTypes[CanonicalType(t.Type)] && t.Name == "" {
		return fmt.Errorf("target %s requires a database name", t.Type)
	}
	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("invalid port %d", t.Port)
	}
	return nil
}
