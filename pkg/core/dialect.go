package core

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase.
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL on case-sensitive filesystems).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (SQLite, DuckDB).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// StringEscapeStyle defines how quotes inside string literals are escaped.
type StringEscapeStyle int

const (
	// EscapeDoubleQuote doubles single quotes: O'Brien -> O''Brien.
	EscapeDoubleQuote StringEscapeStyle = iota
	// EscapeBackslash prefixes quotes and backslashes with a backslash (MySQL).
	EscapeBackslash
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data; pkg/dialect.Dialect exposes it through Config().
type DialectConfig struct {
	Name          string
	Identifiers   IdentifierConfig
	DefaultSchema string
	Placeholder   PlaceholderStyle
	StringEscape  StringEscapeStyle
	AutoIncrement string
	InlineIndexes bool
	DataTypes     []string
}
