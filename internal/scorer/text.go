// Package scorer implements the multi-criterion weighted matching engine:
// per-criterion sub-scorers, the scoring-type dispatcher, the weighted
// aggregator, and the ranking orchestrator.
package scorer

import (
	"math"
	"strings"
)

// levenshtein computes the case-insensitive edit distance between two
// strings using a two-row dynamic programming table.
func levenshtein(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(rb); i++ {
		curr[0] = i
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min3(prev[j-1], curr[j-1], prev[j])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

func min3(a, b, c int) int {
	return min(a, min(b, c))
}

// TextSimilarity converts edit distance into a 0-100 similarity.
// Two empty strings are identical (100).
func TextSimilarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}
	distance := levenshtein(a, b)
	return math.Max(0, 100-(float64(distance)/float64(maxLen))*100)
}

// ArrayOverlap scores two string sets by their case-insensitive
// intersection relative to the larger set. Either side empty scores 0.
func ArrayOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matched := intersect(a, b)
	return (float64(len(matched)) / float64(max(len(a), len(b)))) * 100
}

// intersect returns the elements of a present in b, case-insensitive.
func intersect(a, b []string) []string {
	seen := make(map[string]bool, len(b))
	for _, item := range b {
		seen[strings.ToLower(item)] = true
	}
	var matched []string
	for _, item := range a {
		if seen[strings.ToLower(item)] {
			matched = append(matched, item)
		}
	}
	return matched
}

// MixedOverlap compares an array against a scalar using substring
// containment in both directions, normalized by the array's length.
func MixedOverlap(items []string, scalar string) float64 {
	if len(items) == 0 || strings.TrimSpace(scalar) == "" {
		return 0
	}
	needle := strings.ToLower(scalar)
	hits := 0
	for _, item := range items {
		lower := strings.ToLower(item)
		if strings.Contains(lower, needle) || strings.Contains(needle, lower) {
			hits++
		}
	}
	return (float64(hits) / float64(len(items))) * 100
}
