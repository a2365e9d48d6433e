// Package textnorm folds roster and payslip text into a comparable form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold upper-cases s and strips combining marks, so "Antigüedad" and
// "ANTIGUEDAD" compare equal. Ñ keeps its identity only through the base
// letter N.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// Squash collapses runs of whitespace (including newlines) into single spaces.
func Squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
