// Package naming converts identifiers between the host and client conventions.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Snake converts `TodoList` / `todoList` to `todo_list`. Existing underscores
// are kept; acronym runs stay together (`HTTPServer` → `http_server`).
func Snake(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && runes[i-1] != '_' {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(r)
	}
	// Caser хранит состояние, поэтому создаётся на каждый вызов.
	return cases.Lower(language.Und).String(sb.String())
}

// LowerCamel converts `title_owned` / `TitleOwned` to `titleOwned`.
func LowerCamel(s string) string {
	parts := strings.Split(Snake(s), "_")
	title := cases.Title(language.Und)
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(p)
			continue
		}
		sb.WriteString(title.String(p))
	}
	if sb.Len() == 0 {
		return s
	}
	return sb.String()
}

// UpperCamel converts `add_todo` to `AddTodo`.
func UpperCamel(s string) string {
	lc := LowerCamel(s)
	if lc == "" {
		return lc
	}
	r := []rune(lc)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

var dartReserved = map[string]bool{
	"assert": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "default": true, "do": true, "else": true,
	"enum": true, "extends": true, "false": true, "final": true, "finally": true,
	"for": true, "if": true, "in": true, "is": true, "new": true, "null": true,
	"rethrow": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "var": true, "void": true,
	"while": true, "with": true,
}

// DartIdent returns LowerCamel(s), suffixed with `_` when it collides with a
// Dart reserved word.
func DartIdent(s string) string {
	id := LowerCamel(s)
	if dartReserved[id] {
		return id + "_"
	}
	return id
}
