package adapter

import "strings"

// rowKeywords are leading keywords of statements that produce a result set.
var rowKeywords = map[string]bool{
	"SELECT": true, "SHOW": true, "VALUES": true, "TABLE": true,
	"EXPLAIN": true, "PRAGMA": true, "DESCRIBE": true, "DESC": true,
}

// mainVerbs can follow a WITH clause.
var mainVerbs = map[string]bool{
	"SELECT": true, "VALUES": true, "TABLE": true,
	"INSERT": true, "UPDATE": true, "DELETE": true, "MERGE": true, "REPLACE": true,
}

// sqlWord is a bare keyword or identifier and its parenthesis depth.
type sqlWord struct {
	text  string
	depth int
}

// returnsRows guesses whether a statement produces a result set.
//
// Only bare words count: string literals, quoted identifiers and comments
// are skipped. A WITH prefix is classified by the statement that follows
// the CTE list, and data-changing statements return rows only with a
// RETURNING clause of their own.
func returnsRows(query string, backslashEscapes bool) bool {
	words := scanWords(query, backslashEscapes)
	if len(words) == 0 {
		return false
	}

	verb, depth, at := words[0].text, words[0].depth, 0
	if verb == "WITH" {
		found := false
		for i := 1; i < len(words); i++ {
			if words[i].depth == depth && mainVerbs[words[i].text] {
				verb, at, found = words[i].text, i, true
				break
			}
		}
		if !found {
			return true
		}
	}

	switch verb {
	case "INSERT", "UPDATE", "DELETE", "MERGE", "REPLACE":
		for _, w := range words[at+1:] {
			if w.depth == depth && w.text == "RETURNING" {
				return true
			}
		}
		return false
	default:
		return rowKeywords[verb]
	}
}

// scanWords returns the upper-cased bare words of query.
func scanWords(query string, backslashEscapes bool) []sqlWord {
	var words []sqlWord
	depth := 0
	n := len(query)

	for i := 0; i < n; {
		c := query[i]
		switch {
		case c == '-' && i+1 < n && query[i+1] == '-':
			for i < n && query[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				return words
			}
			i += end + 4
		case c == '\'':
			i = skipQuoted(query, i, '\'', backslashEscapes)
		case c == '"' || c == '`':
			i = skipQuoted(query, i, c, false)
		case c == '$':
			i = skipDollarQuoted(query, i)
		case c == '(':
			depth++
			i++
		case c == ')':
			if depth > 0 {
				depth--
			}
			i++
		case isWordStart(c):
			j := i + 1
			for j < n && (isWordStart(query[j]) || query[j] >= '0' && query[j] <= '9' || query[j] == '$') {
				j++
			}
			words = append(words, sqlWord{text: strings.ToUpper(query[i:j]), depth: depth})
			i = j
		case c >= '0' && c <= '9':
			// Numbers may carry letters (1e3, 0x1F); they are never keywords.
			for i < n && (isWordStart(query[i]) || query[i] >= '0' && query[i] <= '9' || query[i] == '.') {
				i++
			}
		default:
			i++
		}
	}
	return words
}

func isWordStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c >= 0x80
}

// skipQuoted returns the index just past the literal opened at query[start].
// A doubled quote is an escaped quote.
func skipQuoted(query string, start int, quote byte, backslashEscapes bool) int {
	for i := start + 1; i < len(query); i++ {
		switch query[i] {
		case '\\':
			if backslashEscapes {
				i++
			}
		case quote:
			if i+1 < len(query) && query[i+1] == quote {
				i++
				continue
			}
			return i + 1
		}
	}
	return len(query)
}

// skipDollarQuoted skips a PostgreSQL $tag$...$tag$ body. A lone $ or a
// positional parameter ($1) is skipped as a single character.
func skipDollarQuoted(query string, start int) int {
	j := start + 1
	for j < len(query) && (isWordStart(query[j]) || j > start+1 && query[j] >= '0' && query[j] <= '9') {
		j++
	}
	if j >= len(query) || query[j] != '$' {
		return start + 1
	}
	tag := query[start : j+1]
	end := strings.Index(query[j+1:], tag)
	if end < 0 {
		return len(query)
	}
	return j + 1 + end + len(tag)
}
