package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// maxEditDistance is spec §4.11's fuzzy-match cutoff.
const maxEditDistance = 2

var fold = cases.Fold()

// normalize case-folds text the same way for both query and document
// side, so "Café" and "cafe" compare as equal before distance scoring —
// Unicode-aware in a way a plain strings.ToLower would not be.
func normalize(s string) string {
	return fold.String(s)
}

// editDistance computes the Levenshtein distance between a and b,
// short-circuiting once it is certain the result exceeds limit (the
// search index never needs exact distances past its cutoff).
func editDistance(a, b string, limit int) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) < len(br) {
		ar, br = br, ar
	}

	if len(ar)-len(br) > limit {
		return limit + 1
	}

	prev := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		cur := make([]int, len(br)+1)
		cur[0] = i
		rowMin := cur[0]

		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}

			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)

			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}

		if rowMin > limit {
			return limit + 1
		}

		prev = cur
	}

	return prev[len(br)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}

	if c < m {
		m = c
	}

	return m
}

// fuzzyMatch reports the edit distance between the normalized query and
// the whole normalized text, or (0, false) if it exceeds the cutoff. A
// direct substring match always scores 0.
func fuzzyMatch(query, text string) (int, bool) {
	q := normalize(query)
	t := normalize(text)

	if q == "" {
		return 0, true
	}

	if strings.Contains(t, q) {
		return 0, true
	}

	d := editDistance(q, t, maxEditDistance)
	if d > maxEditDistance {
		return 0, false
	}

	return d, true
}
