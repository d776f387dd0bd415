package suggest

import (
	"errors"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"placeserve/pkg/catalog"
)

// ErrCatalogNotReady distinguishes "index not built / catalog empty"
// from a legitimate zero-match response. The boundary layer turns it
// into a 503 rather than an empty suggestion list.
var ErrCatalogNotReady = errors.New("place catalog not loaded")

// Suggestion is one ranked, display-ready result.
type Suggestion struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Score     float64 `json:"score"`
}

// Engine owns the built indexes and serves ranked suggestions.
// It is immutable after Build: lookups need no locking, and reloads
// construct a fresh Engine which the caller swaps in atomically.
type Engine struct {
	index   *PrefixIndex
	matcher Matcher
	places  []*catalog.Place
	maxPop  int64
}

// Build constructs the prefix and fuzzy indexes from the full catalog.
// It must complete before the engine serves its first request.
func Build(c *catalog.Catalog) (*Engine, error) {
	return BuildWithMatcher(c, NewLevenshteinMatcher())
}

// BuildWithMatcher is Build with a caller-supplied fuzzy index.
func BuildWithMatcher(c *catalog.Catalog, m Matcher) (*Engine, error) {
	if c == nil || c.Len() == 0 {
		return nil, ErrCatalogNotReady
	}

	e := &Engine{
		index:   NewPrefixIndex(),
		matcher: m,
		places:  c.Places(),
		maxPop:  c.MaxPopulation(),
	}
	for _, p := range c.Places() {
		e.index.Insert(p)
		e.matcher.AddPlace(p)
	}

	log.Debugf("Built suggestion engine: %d places, %d indexed names, max population %d",
		len(e.places), e.index.Names(), e.maxPop)
	return e, nil
}

// IndexedNames reports the number of distinct name strings indexed.
func (e *Engine) IndexedNames() int {
	return e.index.Names()
}

// candidate accumulates the best text score seen for one place, so a
// place matched through several name fields appears once.
type candidate struct {
	place *catalog.Place
	text  float64
}

type candidateSet map[int64]*candidate

func (cs candidateSet) add(p *catalog.Place, text float64) {
	if cur, ok := cs[p.ID]; ok {
		if text > cur.text {
			cur.text = text
		}
		return
	}
	cs[p.ID] = &candidate{place: p, text: text}
}

func (cs candidateSet) has(p *catalog.Place) bool {
	_, ok := cs[p.ID]
	return ok
}

type scored struct {
	place *catalog.Place
	score float64
}

// GetSuggestions ranks places for the given inputs. Latitude and
// longitude come as a pair or not at all; enforcing that is the
// boundary layer's job. With neither query nor coordinates there is no
// signal to rank on and the result is empty.
func (e *Engine) GetSuggestions(query string, lat, lon *float64) ([]Suggestion, error) {
	if e == nil || len(e.places) == 0 {
		return nil, ErrCatalogNotReady
	}

	q := strings.TrimSpace(query)
	hasQuery := q != ""
	hasCoords := lat != nil && lon != nil

	var results []scored
	switch {
	case hasQuery && hasCoords:
		results = e.queryWithCoords(q, *lat, *lon)
	case hasQuery:
		results = e.queryOnly(q)
	case hasCoords:
		results = e.nearbyOnly(*lat, *lon)
	default:
		return []Suggestion{}, nil
	}

	return finalize(results), nil
}

// queryWithCoords scores prefix hits against caller proximity, falling
// back to fuzzy matches only when the prefix search finds nothing.
func (e *Engine) queryWithCoords(query string, lat, lon float64) []scored {
	cands := make(candidateSet)
	for _, hit := range e.index.Search(query) {
		cands.add(hit.Place, hit.Weight)
	}
	if len(cands) == 0 {
		for _, m := range e.matcher.FindMatches(query) {
			cands.add(m.Place, m.Similarity)
		}
	}

	results := make([]scored, 0, len(cands))
	for _, c := range cands {
		sec := proximityScore(HaversineKM(c.place.Latitude, c.place.Longitude, lat, lon))
		results = append(results, scored{
			place: c.place,
			score: combineScore(c.text, sec, ProximityWeight),
		})
	}
	return results
}

// queryOnly scores prefix hits against population, topping up from the
// fuzzy matcher whenever prefix hits alone cannot fill the cap. Fuzzy
// results only supplement: a place already matched by prefix keeps its
// prefix score.
func (e *Engine) queryOnly(query string) []scored {
	cands := make(candidateSet)
	for _, hit := range e.index.Search(query) {
		cands.add(hit.Place, hit.Weight)
	}
	if len(cands) < MaxSuggestions {
		for _, m := range e.matcher.FindMatches(query) {
			if cands.has(m.Place) {
				continue
			}
			cands.add(m.Place, m.Similarity)
		}
	}

	results := make([]scored, 0, len(cands))
	for _, c := range cands {
		sec := populationScore(c.place.Population, e.maxPop)
		results = append(results, scored{
			place: c.place,
			score: combineScore(c.text, sec, PopulationWeight),
		})
	}
	return results
}

// nearbyOnly ranks the whole catalog purely by proximity, dropping
// anything farther than MaxDistanceKM.
func (e *Engine) nearbyOnly(lat, lon float64) []scored {
	var results []scored
	for _, p := range e.places {
		d := HaversineKM(p.Latitude, p.Longitude, lat, lon)
		if d > MaxDistanceKM {
			continue
		}
		results = append(results, scored{place: p, score: proximityScore(d)})
	}
	return results
}

// finalize sorts by score descending (name as a deterministic
// tie-break) and truncates to the suggestion cap.
func finalize(results []scored) []Suggestion {
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].place.Name < results[j].place.Name
	})

	if len(results) > MaxSuggestions {
		results = results[:MaxSuggestions]
	}

	out := make([]Suggestion, 0, len(results))
	for _, r := range results {
		out = append(out, Suggestion{
			Name:      r.place.DisplayName(),
			Latitude:  r.place.Latitude,
			Longitude: r.place.Longitude,
			Score:     r.score,
		})
	}
	return out
}
