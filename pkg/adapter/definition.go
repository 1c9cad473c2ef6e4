package adapter

import (
	"fmt"
	"os"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"gopkg.in/yaml.v3"
)

// TableDefinition is a CREATE TABLE request read from YAML:
//
//	table: users
//	columns:
//	  id:   {type: INTEGER, auto: true, primary: true}
//	  name: {type: VARCHAR, size: 50, not_null: true}
//
// Columns keep the order in which they appear in the document.
type TableDefinition struct {
	Table   string
	Columns core.ColumnDefs
	Indexes []core.IndexSpec
}

type columnDefYAML struct {
	Type        string `yaml:"type"`
	Size        any    `yaml:"size"`
	NotNull     bool   `yaml:"not_null"`
	Auto        bool   `yaml:"auto"`
	Primary     bool   `yaml:"primary"`
	Index       bool   `yaml:"index"`
	UniqueIndex bool   `yaml:"unique_index"`
	Extra       string `yaml:"extra"`
}

type indexSpecYAML struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
}

// LoadTableDefinition reads a definition file from disk.
func LoadTableDefinition(path string) (*TableDefinition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read table definition: %w", err)
	}
	return ParseTableDefinition(data)
}

// ParseTableDefinition parses a YAML table definition.
func ParseTableDefinition(data []byte) (*TableDefinition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidDefinitionError{Reason: "malformed YAML", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &InvalidDefinitionError{Reason: "definition is empty"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &InvalidDefinitionError{Reason: "definition must be a mapping"}
	}

	def := &TableDefinition{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		switch key {
		case "table":
			def.Table = strings.TrimSpace(val.Value)
		case "columns":
			cols, err := DecodeColumnDefs(val)
			if err != nil {
				return nil, err
			}
			def.Columns = cols
		case "indexes":
			var specs []indexSpecYAML
			if err := val.Decode(&specs); err != nil {
				return nil, &InvalidDefinitionError{Table: def.Table, Reason: "indexes must be a list", Err: err}
			}
			for _, s := range specs {
				def.Indexes = append(def.Indexes, core.IndexSpec(s))
			}
		default:
			return nil, &InvalidDefinitionError{Table: def.Table, Reason: fmt.Sprintf("unknown key %q at line %d", key, root.Content[i].Line)}
		}
	}

	if def.Table == "" {
		return nil, &InvalidDefinitionError{Reason: "table name is empty"}
	}
	if len(def.Columns) == 0 {
		return nil, &InvalidDefinitionError{Table: def.Table, Reason: "no columns defined"}
	}
	return def, nil
}

// DecodeColumnDefs decodes a mapping of column name to attributes,
// preserving document order.
func DecodeColumnDefs(node *yaml.Node) (core.ColumnDefs, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &InvalidDefinitionError{Reason: fmt.Sprintf("columns must be a mapping (line %d)", node.Line)}
	}

	defs := make(core.ColumnDefs, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, val := node.Content[i].Value, node.Content[i+1]
		if val.Kind != yaml.MappingNode {
			return nil, &InvalidDefinitionError{Reason: fmt.Sprintf("column %q must be a mapping (line %d)", name, val.Line)}
		}
		var raw columnDefYAML
		if err := val.Decode(&raw); err != nil {
			return nil, &InvalidDefinitionError{Reason: fmt.Sprintf("column %q", name), Err: err}
		}
		defs = append(defs, core.ColumnDef{
			Name:        name,
			Type:        raw.Type,
			Size:        sizeString(raw.Size),
			NotNull:     raw.NotNull,
			Auto:        raw.Auto,
			Primary:     raw.Primary,
			Index:       raw.Index,
			UniqueIndex: raw.UniqueIndex,
			Extra:       raw.Extra,
		})
	}
	return defs, nil
}

// sizeString renders a size attribute. Missing, zero and false mean no size.
func sizeString(v any) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	switch s {
	case "", "0", "false":
		return ""
	}
	return s
}
