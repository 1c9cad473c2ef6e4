// Package config provides configuration management for the leapdb CLI.
//
// The target type is shared with pkg/core and re-exported here via a type
// alias so commands can use config.TargetConfig without importing pkg/core.
package config

import "github.com/leapstack-labs/leapdb/pkg/core"

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	LogLevel     string               `koanf:"log_level"`
	Trace        bool                 `koanf:"trace"`
	OutputFormat string               `koanf:"output"`
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultEnv      = "dev"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel = "warn"
	DefaultType     = "sqlite"
)

// ConfigFileNames are searched, in order, when no --config is given.
var ConfigFileNames = []string{"leapdb.yaml", "leapdb.yml"}
