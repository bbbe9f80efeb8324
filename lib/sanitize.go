package lib

import (
	"strings"
	"unicode"
)

// SanitizeString strips control characters and optionally trims and lowercases
func SanitizeString(s string, trim bool, lower bool) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	if trim {
		s = strings.TrimSpace(s)
	}
	if lower {
		s = strings.ToLower(s)
	}
	return s
}

// EscapeLike escapes % and _ for use inside an ILIKE pattern
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
