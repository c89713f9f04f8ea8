package forms

import (
	"fmt"
	"strings"

	"clientbrief/internal/form"
)

func normalizeForm(f form.Form) form.Form {
	f.ID = strings.TrimSpace(f.ID)
	f.Slug = strings.TrimSpace(f.Slug)
	f.Title = strings.TrimSpace(f.Title)
	f.ClientName = strings.TrimSpace(f.ClientName)
	return f
}

// uniqueSlug suffixes base with a counter until it avoids every taken slug.
func uniqueSlug(base string, taken map[string]struct{}) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "form"
	}
	candidate := base
	for n := 2; ; n++ {
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}
