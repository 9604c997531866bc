// Package query builds the retrieval query string. The output doubles as a
// test fixture, so composition must be byte-for-byte deterministic.
package query

import (
	"regexp"
	"strings"

	"ei-coach-be/pkg/rag"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9_\s]+`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// Compose concatenates target facet, emotion (if present), up to the first
// two topics, the duration hint and the literal "exercise", in that fixed
// order, lower-cased and space-separated.
func Compose(target rag.FacetTag, topEmotion string, topics []string, duration rag.DurationTag) string {
	words := []string{string(target)}

	if e := normalize(topEmotion); e != "" {
		words = append(words, e)
	}

	count := 0
	for _, t := range topics {
		if count == 2 {
			break
		}
		if tt := normalize(t); tt != "" {
			words = append(words, tt)
			count++
		}
	}

	d := normalize(string(duration))
	if d == "" {
		d = string(rag.DurationTwoMin)
	}
	words = append(words, d, "exercise")

	// keep letters, digits, underscores and spaces; facet names keep their
	// underscores so the query stays greppable in fixtures
	q := strings.Join(words, " ")
	q = nonAlnum.ReplaceAllString(q, " ")
	q = multiSpace.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
