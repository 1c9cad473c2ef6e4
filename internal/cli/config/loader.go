package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: LEAPDB_TARGET__HOST sets target.host.
const EnvPrefix = "LEAPDB_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// targetFlags are root flags that set a field of the target block.
var targetFlags = map[string]string{
	"type":     "target.type",
	"host":     "target.host",
	"port":     "target.port",
	"user":     "target.user",
	"password": "target.password",
	"name":     "target.name",
	"path":     "target.path",
	"schema":   "target.schema",
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// Loader loads configuration. The zero value searches the working
// directory and its parents for leapdb.yaml.
type Loader struct {
	// File is an explicit config file path.
	File string
	// Environment overrides the environment named in the file.
	Environment string
	// Flags are applied last; only flags that were set are used.
	Flags *pflag.FlagSet

	used string
}

// FileUsed returns the config file that was read, if any.
func (l *Loader) FileUsed() string {
	return l.used
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func (l *Loader) Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"environment": DefaultEnv,
		"verbose":     false,
		"log_level":   DefaultLogLevel,
		"trace":       false,
		"output":      DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	l.used = l.File
	if l.used == "" {
		if cwd, err := os.Getwd(); err == nil {
			l.used = findConfigUpward(cwd)
		}
	}
	if l.used != "" {
		if err := k.Load(file.Provider(l.used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", l.used, err)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if l.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(l.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			if key, ok := targetFlags[f.Name]; ok {
				return key, posflag.FlagVal(l.Flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(l.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// An environment without a block falls back to the base target.
	if l.Environment != "" {
		cfg.Environment = l.Environment
	}
	if envCfg, ok := cfg.Environments[cfg.Environment]; ok && envCfg.Target != nil {
		cfg.Target = MergeTargetConfig(cfg.Target, envCfg.Target)
		if l.Flags != nil {
			applyTargetFlags(cfg.Target, l.Flags)
		}
	}

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{Type: DefaultType}
	}
	ApplyTargetDefaults(cfg.Target)
	expandTargetEnvVars(cfg.Target)

	if err := ValidateTarget(cfg.Target); err != nil {
		return nil, fmt.Errorf("invalid target configuration: %w", err)
	}
	return &cfg, nil
}

// applyTargetFlags re-applies target flags that were set on the command
// line, so they win over an environment block.
func applyTargetFlags(t *TargetConfig, flags *pflag.FlagSet) {
	for name := range targetFlags {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if name == "port" {
			t.Port, _ = flags.GetInt(name)
			continue
		}
		v := f.Value.String()
		switch name {
		case "type":
			t.Type = v
		case "host":
			t.Host = v
		case "user":
			t.User = v
		case "password":
			t.Password = v
		case "name":
			t.Name = v
		case "path":
			t.Path = v
		case "schema":
			t.Schema = v
		}
	}
}

// ResolveTarget returns the merged target for the named environment,
// without flag or env-var overrides.
func (c *Config) ResolveTarget(name string) (*TargetConfig, error) {
	envCfg, ok := c.Environments[name]
	if !ok {
		return nil, fmt.Errorf("unknown environment %q", name)
	}
	t := MergeTargetConfig(c.Target, envCfg.Target)
	ApplyTargetDefaults(t)
	expandTargetEnvVars(t)
	return t, nil
}

// findConfigUpward searches startDir and its parents for a config file.
func findConfigUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Name = expandEnvVars(t.Name)
	t.Path = expandEnvVars(t.Path)
}

// MergeTargetConfig merges two target configs, with override taking precedence.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil && override == nil {
		return nil
	}
	if base == nil {
		base = &TargetConfig{}
	}
	if override == nil {
		override = &TargetConfig{}
	}

	merged := *base
	merged.Options = make(map[string]string, len(base.Options)+len(override.Options))
	merged.Params = make(map[string]any, len(base.Params)+len(override.Params))
	maps.Copy(merged.Options, base.Options)
	maps.Copy(merged.Params, base.Params)

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	maps.Copy(merged.Options, override.Options)
	maps.Copy(merged.Params, override.Params)

	return &merged
}
