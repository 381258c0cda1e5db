// Package ai provides the note text tools: summarization and keyword
// extraction.
package ai

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode"
)

var ErrEmptyText = errors.New("text is required")

type Assistant interface {
	Summarize(ctx context.Context, text string) (string, error)
	Keywords(ctx context.Context, text string) ([]string, error)
}

const (
	maxSummaryLength = 200
	summarySentences = 2
	keywordCount     = 5
	minKeywordLength = 4
)

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "also": {}, "been": {}, "before": {},
	"being": {}, "could": {}, "does": {}, "each": {}, "from": {}, "have": {},
	"here": {}, "into": {}, "just": {}, "like": {}, "more": {}, "most": {},
	"much": {}, "only": {}, "other": {}, "over": {}, "same": {}, "should": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"very": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "will": {}, "with": {}, "would": {}, "your": {},
}

// Mock answers without calling any model. Output is deterministic.
type Mock struct{}

func (Mock) Summarize(_ context.Context, text string) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", ErrEmptyText
	}

	var b strings.Builder
	sentences := 0
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentences++
			if sentences == summarySentences {
				break
			}
		}
	}

	summary := strings.TrimSpace(b.String())
	if runes := []rune(summary); len(runes) > maxSummaryLength {
		summary = strings.TrimSpace(string(runes[:maxSummaryLength-3])) + "..."
	}
	return summary, nil
}

func (Mock) Keywords(_ context.Context, text string) ([]string, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return nil, ErrEmptyText
	}

	counts := map[string]int{}
	for _, w := range words {
		if len([]rune(w)) < minKeywordLength {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		counts[w]++
	}

	keywords := make([]string, 0, len(counts))
	for w := range counts {
		keywords = append(keywords, w)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > keywordCount {
		keywords = keywords[:keywordCount]
	}
	return keywords, nil
}
