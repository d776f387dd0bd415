package suggest

import (
	"testing"

	"placeserve/pkg/catalog"
)

func buildMatcher() Matcher {
	m := NewLevenshteinMatcher()
	for _, p := range testPlaces() {
		m.AddPlace(p)
	}
	return m
}

func TestFindMatchesTyposAndExacts(t *testing.T) {
	m := buildMatcher()

	testCases := []struct {
		query       string
		expectID    int64
		description string
	}{
		{"toronto", 6167865, "exact match"},
		{"Toronto", 6167865, "case insensitive"},
		{"torono", 6167865, "missing character"},
		{"toronbo", 6167865, "substituted character"},
		{"lundon", 2643743, "vowel typo"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			matches := m.FindMatches(tc.query)
			found := false
			for _, match := range matches {
				if match.Place.ID == tc.expectID {
					found = true
				}
				if match.Similarity < FuzzyThreshold || match.Similarity > 1.0 {
					t.Errorf("similarity %v outside (threshold, 1]", match.Similarity)
				}
			}
			if !found {
				t.Errorf("FindMatches(%q) did not include place %d", tc.query, tc.expectID)
			}
		})
	}
}

func TestFindMatchesIdenticalStringScoresOne(t *testing.T) {
	m := buildMatcher()
	for _, match := range m.FindMatches("toronto") {
		if match.Name == "toronto" && match.Similarity != 1.0 {
			t.Errorf("identical string similarity = %v, want 1.0", match.Similarity)
		}
	}
}

func TestFindMatchesNoHits(t *testing.T) {
	m := buildMatcher()
	if matches := m.FindMatches("zzzznotacity"); len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
	if matches := m.FindMatches(""); len(matches) != 0 {
		t.Errorf("expected no matches for empty query, got %v", matches)
	}
}

func TestReverseMapLastWriterWins(t *testing.T) {
	m := NewLevenshteinMatcher()
	a := &catalog.Place{ID: 1, Name: "Springfield"}
	b := &catalog.Place{ID: 2, Name: "Springfield"}
	m.AddPlace(a)
	m.AddPlace(b)

	matches := m.FindMatches("springfield")
	if len(matches) != 1 {
		t.Fatalf("expected one match for the shared name, got %d", len(matches))
	}
	if matches[0].Place.ID != 2 {
		t.Errorf("expected most recent addition to win, got place %d", matches[0].Place.ID)
	}
}
