package adapter

import (
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// Limit appends " LIMIT n" and then " OFFSET m" to sql.
// Each clause is added only when its option is numeric: integers, floats
// and strings that parse as a finite number. Anything else is ignored.
// Numbers are always rendered in plain decimal form.
func Limit(sql string, opts core.LimitOptions) string {
	if n, ok := numericLiteral(opts.Limit); ok {
		sql += " LIMIT " + n
	}
	if n, ok := numericLiteral(opts.Offset); ok {
		sql += " OFFSET " + n
	}
	return sql
}

// numericLiteral renders v as it should appear in SQL.
func numericLiteral(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return formatFloat(float64(n))
	case float64:
		return formatFloat(n)
	case string:
		// Re-rendered rather than passed through, so "1e3" becomes 1000.
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", false
		}
		return formatFloat(f)
	default:
		return "", false
	}
}

func formatFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
