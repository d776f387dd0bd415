package suggest

import (
	"strings"

	"github.com/agext/levenshtein"

	"placeserve/pkg/catalog"
)

// FuzzyThreshold is the minimum similarity for a fuzzy hit to be kept.
// Below this the match is more noise than typo correction.
const FuzzyThreshold = 0.65

// FuzzyMatch is one approximate-match result. Similarity is in [0, 1],
// 1.0 meaning the strings are identical after lower-casing.
type FuzzyMatch struct {
	Name       string
	Similarity float64
	Place      *catalog.Place
}

// Matcher is the approximate-name index the engine falls back to when
// prefix search yields nothing (or too little). Any implementation with
// a symmetric [0, 1] similarity satisfies it.
type Matcher interface {
	AddPlace(p *catalog.Place)
	FindMatches(query string) []FuzzyMatch
}

// levMatcher scores candidates with Levenshtein similarity. Names are
// kept lower-cased in insertion order; the reverse name→place map keeps
// the last writer when two places normalize to the same string.
type levMatcher struct {
	names     []string
	byName    map[string]*catalog.Place
	params    *levenshtein.Params
	threshold float64
}

// NewLevenshteinMatcher returns the default Matcher implementation.
func NewLevenshteinMatcher() Matcher {
	return &levMatcher{
		byName:    make(map[string]*catalog.Place),
		params:    levenshtein.NewParams().MinScore(FuzzyThreshold),
		threshold: FuzzyThreshold,
	}
}

func (m *levMatcher) AddPlace(p *catalog.Place) {
	m.addName(p.Name, p)
	if p.ASCIIName != "" {
		m.addName(p.ASCIIName, p)
	}
	for _, alt := range p.AlternateNames() {
		m.addName(alt, p)
	}
}

func (m *levMatcher) addName(name string, p *catalog.Place) {
	key := strings.ToLower(name)
	if _, seen := m.byName[key]; !seen {
		m.names = append(m.names, key)
	}
	m.byName[key] = p
}

func (m *levMatcher) FindMatches(query string) []FuzzyMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []FuzzyMatch
	for _, name := range m.names {
		sim := levenshtein.Similarity(name, q, m.params)
		if sim < m.threshold {
			continue
		}
		place, ok := m.byName[name]
		if !ok {
			// stale reverse mapping, not worth surfacing
			continue
		}
		matches = append(matches, FuzzyMatch{Name: name, Similarity: sim, Place: place})
	}
	return matches
}
