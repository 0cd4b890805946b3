// Package categorical scores pairs of category labels using curated,
// runtime-extensible similarity tables.
package categorical

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Category selects which similarity table a lookup consults.
type Category string

const (
	ProfileType   Category = "profileType"
	MarketSegment Category = "marketSegment"
)

// DefaultScore returns the fallback similarity for unknown pairs in a
// category. Market segments overlap more often than profile types, so
// their floor is higher.
func DefaultScore(c Category) float64 {
	if c == MarketSegment {
		return 30
	}
	return 20
}

// Score is a categorical similarity outcome.
type Score struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	// Known is false when the pair fell through to the category default.
	Known bool `json:"-"`
}

var collapseWS = regexp.MustCompile(`\s+`)

// normalize lowercases a label and folds dashes, underscores, and runs
// of whitespace so table lookups tolerate naming variations.
func normalize(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", " ", "_", " ").Replace(v)
	return collapseWS.ReplaceAllString(v, " ")
}

// pairKey builds an order-independent table key.
func pairKey(a, b string) string {
	na, nb := normalize(a), normalize(b)
	if na > nb {
		na, nb = nb, na
	}
	return na + "|" + nb
}

type entry struct {
	a, b  string // normalized sides
	score float64
}

// Registry holds the similarity tables. Construct one per process (or
// per test) with NewRegistry; pairs added at runtime are process-local
// and revert to the seed set on restart.
type Registry struct {
	mu     sync.RWMutex
	tables map[Category]map[string]entry
}

// NewRegistry returns a registry seeded with the curated pair tables.
func NewRegistry() *Registry {
	r := &Registry{tables: map[Category]map[string]entry{
		ProfileType:   {},
		MarketSegment: {},
	}}
	for pair, score := range profileTypeSeed {
		r.seed(ProfileType, pair[0], pair[1], score)
	}
	for pair, score := range marketSegmentSeed {
		r.seed(MarketSegment, pair[0], pair[1], score)
	}
	return r
}

func (r *Registry) seed(c Category, a, b string, score float64) {
	r.tables[c][pairKey(a, b)] = entry{a: normalize(a), b: normalize(b), score: score}
}

// AddPair registers a similarity pair at runtime. The score is clamped
// to 0-100 and the lookup is symmetric.
func (r *Registry) AddPair(c Category, a, b string, score float64) {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.tables[c]
	if !ok {
		table = map[string]entry{}
		r.tables[c] = table
	}
	table[pairKey(a, b)] = entry{a: normalize(a), b: normalize(b), score: score}
}

// lookup finds a pair score, first by exact key, then by substring
// matching each side against the table entries' sides.
func (r *Registry) lookup(c Category, a, b string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table := r.tables[c]
	if e, ok := table[pairKey(a, b)]; ok {
		return e.score, true
	}

	na, nb := normalize(a), normalize(b)
	// Deterministic iteration keeps partial-match results stable when
	// multiple entries could apply.
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e := table[k]
		if (strings.Contains(na, e.a) && strings.Contains(nb, e.b)) ||
			(strings.Contains(na, e.b) && strings.Contains(nb, e.a)) {
			return e.score, true
		}
	}
	return 0, false
}

// Similarity scores two category labels. Exact normalized match scores
// 100; known pairs score from the table; unknown pairs fall back to the
// category default with Known=false.
func (r *Registry) Similarity(a, b string, c Category) Score {
	if normalize(a) != "" && normalize(a) == normalize(b) {
		return Score{
			Score:       100,
			Explanation: fmt.Sprintf("Exact match: %s", a),
			Known:       true,
		}
	}

	if score, ok := r.lookup(c, a, b); ok {
		return Score{
			Score:       score,
			Explanation: fmt.Sprintf("%s vs %s: %.0f%% similarity", a, b, score),
			Known:       true,
		}
	}

	def := DefaultScore(c)
	return Score{
		Score:       def,
		Explanation: fmt.Sprintf("%s vs %s: no known relationship (default %.0f%%)", a, b, def),
		Known:       false,
	}
}
