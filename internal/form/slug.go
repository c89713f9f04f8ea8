package form

import (
	"strings"
	"unicode"
)

// Slugify turns a client name into the URL slug a form publishes under:
// lower-cased, letters and digits kept, every other run collapsed to one
// dash. Empty input maps to "form"; uniqueness is the forms store's job.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "form"
	}
	return out
}
