package model

import (
	"strings"
	"unicode"
)

// DefaultNamer turns a field label into a submission key: lower case ASCII
// words joined by underscores ("Email Address" -> "email_address"). Labels
// without any letters or digits produce an empty name.
func DefaultNamer(label string) string {
	var out strings.Builder
	pending := false
	for _, r := range strings.TrimSpace(label) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pending && out.Len() > 0 {
				out.WriteByte('_')
			}
			pending = false
			out.WriteRune(unicode.ToLower(r))
		default:
			pending = true
		}
	}
	return out.String()
}

// DefaultLabeler converts a submission key back into a human-friendly label,
// splitting on underscores, dashes and camelCase boundaries.
func DefaultLabeler(name string) string {
	words := strings.FieldsFunc(splitCamel(name), func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, word := range words {
		lower := strings.ToLower(word)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

func splitCamel(input string) string {
	var out strings.Builder
	var prev rune
	for i, r := range input {
		if i > 0 && isBoundary(prev, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
		prev = r
	}
	return out.String()
}

func isBoundary(prev, r rune) bool {
	isLetter := func(c rune) bool { return unicode.IsLetter(c) }
	return (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
		(isLetter(prev) && unicode.IsDigit(r)) ||
		(unicode.IsDigit(prev) && isLetter(r))
}
