package core

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}

// Option returns the driver-specific option for key, or def when unset.
func (c AdapterConfig) Option(key, def string) string {
	if c.Options != nil {
		if v, ok := c.Options[key]; ok && v != "" {
			return v
		}
	}
	return def
}

// Result modes accepted in the "result_mode" option.
const (
	ResultModeBuffered = "buffered"
	ResultModeStream   = "stream"
)

// Streaming reports whether results should be read lazily from the driver.
func (c AdapterConfig) Streaming() bool {
	return c.Option("result_mode", ResultModeBuffered) == ResultModeStream
}

// TargetConfig holds database target configuration as written in leapdb.yaml.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres, mysql, sqlite, duckdb

	// File-based databases (DuckDB, SQLite)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"` // database name

	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB settings)
	Params map[string]any `koanf:"params"`
}

// ToAdapterConfig converts the target into the config passed to Adapter.Connect.
func (t *TargetConfig) ToAdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:     t.Type,
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Name,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
}
