package adapter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// ParseQualifiedName splits a table reference into schema and name.
//
// The name is lowercased. A dot after the first character separates an
// explicit schema, which takes precedence over the schema argument. When
// no schema is given the dialect's default schema is used.
func ParseQualifiedName(table, schema string, d *dialect.Dialect) (string, string) {
	name := strings.ToLower(table)
	if i := strings.Index(name, "."); i > 0 {
		schema, name = name[:i], name[i+1:]
		if j := strings.Index(name, "."); j >= 0 {
			name = name[:j]
		}
	}
	schema = strings.ToLower(schema)
	if schema == "" && d != nil {
		schema = d.DefaultSchema
	}
	return schema, name
}

// escapedName is ParseQualifiedName with both parts escaped for embedding
// in a single-quoted literal.
func escapedName(table, schema string, d *dialect.Dialect) (string, string) {
	schema, name := ParseQualifiedName(table, schema, d)
	if d == nil {
		return schema, name
	}
	return d.EscapeString(schema), d.EscapeString(name)
}

// ToInt64 converts a driver value to an integer.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint64:
		return int64(n), nil //nolint:gosec // counts and ids fit
	case uint32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case []byte:
		return ToInt64(string(n))
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to an integer", n)
		}
		return int64(f), nil
	case nil:
		return 0, fmt.Errorf("value is NULL")
	default:
		return 0, fmt.Errorf("cannot convert %T to an integer", v)
	}
}

// ToString renders a driver value as text. NULL becomes "".
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(v)
	}
}

// ToBool interprets common catalog encodings of a flag.
func ToBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case nil:
		return false
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "t", "true", "yes", "y", "1":
			return true
		}
		return false
	default:
		n, err := ToInt64(v)
		return err == nil && n != 0
	}
}
