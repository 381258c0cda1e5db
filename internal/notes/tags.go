package notes

import (
	"strings"
	"unicode/utf8"

	"github.com/ahsanfayaz52/sharednotes/internal/errs"
)

const maxTagLength = 50

// NormalizeTags trims each name, drops empty entries and removes exact
// duplicates, keeping first-seen order. Comparison is case-sensitive.
func NormalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// SplitTags splits a comma-delimited tag string.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

func validateTags(names []string) error {
	for _, name := range names {
		if utf8.RuneCountInString(name) > maxTagLength {
			return errs.Validation("Tag %q is longer than %d characters", name, maxTagLength)
		}
	}
	return nil
}
