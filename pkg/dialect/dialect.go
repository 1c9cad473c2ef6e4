// Package dialect provides SQL dialect configuration for database adapters.
//
// A Dialect captures the static, engine-specific rules the adapter contract
// needs: identifier quoting and normalization, the default schema, how
// string literals are escaped, and how auto-increment columns and inline
// indexes are expressed in CREATE TABLE. Concrete dialects are registered
// from pkg/adapters/*/dialect packages.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// AutoIncrementStyle defines how an auto column is expressed in DDL.
type AutoIncrementStyle int

const (
	// AutoColumnType replaces the declared column type (SERIAL, INTEGER AUTO_INCREMENT).
	AutoColumnType AutoIncrementStyle = iota
	// AutoSequence creates <table>_<column>_seq and defaults the column to nextval().
	AutoSequence
)

// String returns the string representation of AutoIncrementStyle.
func (s AutoIncrementStyle) String() string {
	switch s {
	case AutoColumnType:
		return "column_type"
	case AutoSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	// Database-specific settings
	DefaultSchema string                // "public" for Postgres, "main" for SQLite/DuckDB, "" = current database
	Placeholder   core.PlaceholderStyle // How to format query parameters
	StringEscape  core.StringEscapeStyle

	// DDL behavior
	AutoIncrement string             // Column type used for auto columns
	AutoStyle     AutoIncrementStyle // How auto columns are realized
	InlineIndexes bool               // INDEX(col) is valid inside CREATE TABLE

	reservedWords map[string]struct{}
	dataTypes     []string
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	return &core.DialectConfig{
		Name:          d.Name,
		Identifiers:   d.Identifiers,
		DefaultSchema: d.DefaultSchema,
		Placeholder:   d.Placeholder,
		StringEscape:  d.StringEscape,
		AutoIncrement: d.AutoIncrement,
		InlineIndexes: d.InlineIndexes,
		DataTypes:     d.dataTypes,
	}
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// DataTypes returns all supported data types.
func (d *Dialect) DataTypes() []string {
	return d.dataTypes
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only if it's a reserved word.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// EscapeString escapes s for embedding between single quotes.
func (d *Dialect) EscapeString(s string) string {
	switch d.StringEscape {
	case core.EscapeBackslash:
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			switch r {
			case '\\', '\'', '"':
				b.WriteByte('\\')
				b.WriteRune(r)
			case 0:
				b.WriteString(`\0`)
			default:
				b.WriteRune(r)
			}
		}
		return b.String()
	default:
		return strings.ReplaceAll(s, "'", "''")
	}
}

// QuoteString returns s as a single-quoted SQL string literal.
func (d *Dialect) QuoteString(s string) string {
	return "'" + d.EscapeString(s) + "'"
}

// SequenceName returns the implicit sequence name for an auto column.
func (d *Dialect) SequenceName(table, column string) string {
	return table + "_" + column + "_seq"
}

// ---------- Builder ----------

// Builder assembles a Dialect.
type Builder struct {
	d *Dialect
}

// NewDialect starts building a dialect with ANSI defaults.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{
		Name: name,
		Identifiers: core.IdentifierConfig{
			Quote:         `"`,
			QuoteEnd:      `"`,
			Escape:        `""`,
			Normalization: core.NormLowercase,
		},
		Placeholder:   core.PlaceholderQuestion,
		StringEscape:  core.EscapeDoubleQuote,
		AutoIncrement: "INTEGER",
		AutoStyle:     AutoColumnType,
		reservedWords: make(map[string]struct{}),
	}}
}

// Identifiers sets the identifier quoting and normalization rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.d.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the schema used when a table name is unqualified.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.d.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets the parameter placeholder style.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// StringEscape sets how quotes are escaped inside string literals.
func (b *Builder) StringEscape(style core.StringEscapeStyle) *Builder {
	b.d.StringEscape = style
	return b
}

// AutoIncrement sets the auto column type and how it is realized.
func (b *Builder) AutoIncrement(columnType string, style AutoIncrementStyle) *Builder {
	b.d.AutoIncrement = columnType
	b.d.AutoStyle = style
	return b
}

// InlineIndexes marks INDEX(col) as valid inside CREATE TABLE.
func (b *Builder) InlineIndexes(ok bool) *Builder {
	b.d.InlineIndexes = ok
	return b
}

// WithDataTypes sets the data types offered for completion.
func (b *Builder) WithDataTypes(types ...string) *Builder {
	b.d.dataTypes = append(b.d.dataTypes, types...)
	return b
}

// WithReservedWords adds words that must be quoted as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.d.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Build returns the finished dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}
