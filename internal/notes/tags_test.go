package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims and drops empties", []string{"  work ", "", "   ", "home"}, []string{"work", "home"}},
		{"exact duplicates collapse", []string{"work", "work", " work"}, []string{"work"}},
		{"case-sensitive", []string{"Work", "Home", "work"}, []string{"Work", "Home", "work"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"Work", "Home", "work"}, SplitTags("Work, Home, work"))
	assert.Equal(t, []string{"a", "b"}, SplitTags(",a,, b ,a,"))
	assert.Empty(t, SplitTags(""))
}

func TestNormalizeTagsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOf(rapid.StringMatching(`[ ]{0,2}[A-Za-z]{0,4}[ ]{0,2}`)).Draw(t, "tags")
		out := NormalizeTags(in)

		seen := map[string]bool{}
		for _, name := range out {
			if name == "" {
				t.Fatalf("empty tag in %q", out)
			}
			if name != strings.TrimSpace(name) {
				t.Fatalf("untrimmed tag %q", name)
			}
			if seen[name] {
				t.Fatalf("duplicate tag %q in %q", name, out)
			}
			seen[name] = true
		}

		for _, raw := range in {
			if trimmed := strings.TrimSpace(raw); trimmed != "" && !seen[trimmed] {
				t.Fatalf("tag %q lost from %q", trimmed, out)
			}
		}

		again := NormalizeTags(out)
		if strings.Join(again, "\x00") != strings.Join(out, "\x00") {
			t.Fatalf("not idempotent: %q then %q", out, again)
		}
	})
}

func TestValidateTags(t *testing.T) {
	assert.NoError(t, validateTags([]string{strings.Repeat("a", maxTagLength)}))
	assert.Error(t, validateTags([]string{strings.Repeat("a", maxTagLength+1)}))
}
