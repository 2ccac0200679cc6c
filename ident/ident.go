// Package ident provides identifier case conversion and Rust keyword
// escaping shared by the lowering engine and the emitter.
package ident

import (
	"strings"
	"unicode"
)

// Rust strict and reserved keywords that need a raw identifier prefix.
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
}

// Rust escapes a Rust keyword with the r# raw identifier prefix.
func Rust(name string) string {
	if rustKeywords[name] {
		return "r#" + name
	}
	return name
}

// ToSnakeCase converts a PascalCase or camelCase name to snake_case:
// an underscore is inserted before every internal capital, the whole string
// is lowercased, and a leading underscore is stripped.
func ToSnakeCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimPrefix(b.String(), "_")
}

// ToPascalCase converts a string literal to a PascalCase variant name.
// Already-PascalCase strings pass through unchanged; otherwise a word
// boundary is inserted before each internal capital, the result is split on
// whitespace, underscores, and hyphens, and each word is titlecased.
func ToPascalCase(s string) string {
	if isPascalCase(s) {
		return s
	}

	var spaced strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			spaced.WriteByte(' ')
		}
		spaced.WriteRune(r)
	}

	words := strings.FieldsFunc(spaced.String(), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '_' || r == '-'
	})

	var b strings.Builder
	for _, w := range words {
		runes := []rune(w)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// isPascalCase reports whether s is a single capitalized word with no
// separators, e.g. "EvenOdd" or "Round".
func isPascalCase(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
