// Package textnorm folds free text into a lower-cased, accent-insensitive form for matching.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinQueryLen is the normalized length at which queries go to the remote API
const MinQueryLen = 2

// Normalize lower-cases s and strips combining diacritical marks.
// "Panadería Ñandú" becomes "panaderia nandu".
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// Chains hold state, so build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// Query normalizes a user query and trims surrounding whitespace
func Query(s string) string {
	return strings.TrimSpace(Normalize(s))
}

// Len returns the rune length of the normalized, trimmed query
func Len(s string) int {
	return utf8.RuneCountInString(Query(s))
}

// IsRemote reports whether a query is long enough for the remote API
func IsRemote(s string) bool {
	return Len(s) >= MinQueryLen
}

// Contains reports whether the normalized field contains an already normalized needle
func Contains(field, needle string) bool {
	if needle == "" {
		return true
	}
	if field == "" {
		return false
	}
	return strings.Contains(Normalize(field), needle)
}
