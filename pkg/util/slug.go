package util

import (
	"strings"
	"unicode"
)

// Slugify converts a display label into a machine-comparable token:
// lowercase, alphanumerics kept, everything else collapsed to single
// underscores. Used as the default value token when a merchant does not
// provide one.
func Slugify(label string) string {
	var b strings.Builder
	lastUnderscore := true // suppress leading underscores

	for _, r := range strings.ToLower(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	return strings.TrimRight(b.String(), "_")
}
