package core

import (
	"fmt"
	"strings"
)

// FetchMode selects how a fetched row is keyed.
//
// Any value other than FetchAssoc or FetchNum, including the zero value,
// is treated as FetchBoth when a row is fetched.
type FetchMode int

const (
	// FetchAssoc keys values by column name.
	FetchAssoc FetchMode = iota + 1
	// FetchNum keys values by ordinal position.
	FetchNum
	// FetchBoth fills both the ordinal and the named view.
	FetchBoth
)

// String returns the string representation of FetchMode.
func (m FetchMode) String() string {
	switch m {
	case FetchAssoc:
		return "assoc"
	case FetchNum:
		return "num"
	case FetchBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseFetchMode parses "assoc", "num" or "both" (case-insensitive).
func ParseFetchMode(s string) (FetchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assoc", "associative":
		return FetchAssoc, nil
	case "num", "numeric":
		return FetchNum, nil
	case "both", "":
		return FetchBoth, nil
	default:
		return 0, fmt.Errorf("unknown fetch mode %q (want assoc, num or both)", s)
	}
}

// Row is a single fetched row.
// Columns is always set; Values and Assoc are filled according to the FetchMode.
type Row struct {
	Columns []string
	Values  []any
	Assoc   map[string]any
}

// Get returns the value for a column name.
// It consults Assoc first and falls back to a positional lookup.
func (r Row) Get(name string) (any, bool) {
	if r.Assoc != nil {
		v, ok := r.Assoc[name]
		return v, ok
	}
	for i, col := range r.Columns {
		if col == name && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

// At returns the value at ordinal position i.
func (r Row) At(i int) (any, bool) {
	if r.Values != nil {
		if i < 0 || i >= len(r.Values) {
			return nil, false
		}
		return r.Values[i], true
	}
	if i < 0 || i >= len(r.Columns) {
		return nil, false
	}
	v, ok := r.Assoc[r.Columns[i]]
	return v, ok
}

// FieldDescriptor describes one column of a result set.
type FieldDescriptor struct {
	Index    int
	Name     string
	TypeName string
}

// LimitOptions carries the row cap and starting row for Limit.
// Values are untyped: only numeric values produce a clause.
type LimitOptions struct {
	Limit  any
	Offset any
}

// ParseLimitOptions reads the "limit" and "offset" keys of m.
func ParseLimitOptions(m map[string]any) LimitOptions {
	var opts LimitOptions
	if v, ok := m["limit"]; ok {
		opts.Limit = v
	}
	if v, ok := m["offset"]; ok {
		opts.Offset = v
	}
	return opts
}
