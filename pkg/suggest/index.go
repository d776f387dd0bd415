// Package suggest is the core: prefix and fuzzy indexes over place names,
// plus the scoring policy that turns matches into ranked suggestions.
package suggest

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"placeserve/pkg/catalog"
)

// Name-field weights. A match on the canonical spelling outranks an
// ASCII-transliterated or alternate-name match.
const (
	PrimaryWeight   = 1.0
	ASCIIWeight     = 0.9
	AlternateWeight = 0.7
)

type indexEntry struct {
	place  *catalog.Place
	weight float64
}

// Hit is one prefix-index result: the place plus the weight of the
// name field the match came through.
type Hit struct {
	Place  *catalog.Place
	Weight float64
}

// PrefixIndex maps every lower-cased place name (primary, ASCII and
// alternates) into a patricia trie. One (place, weight) entry is kept
// per exact name string; the last insertion wins on collisions.
type PrefixIndex struct {
	trie  *patricia.Trie
	names int
}

func NewPrefixIndex() *PrefixIndex {
	return &PrefixIndex{trie: patricia.NewTrie()}
}

// Insert indexes all name fields of a place.
func (ix *PrefixIndex) Insert(p *catalog.Place) {
	ix.add(p.Name, PrimaryWeight, p)
	if p.ASCIIName != "" {
		ix.add(p.ASCIIName, ASCIIWeight, p)
	}
	for _, alt := range p.AlternateNames() {
		ix.add(alt, AlternateWeight, p)
	}
}

func (ix *PrefixIndex) add(name string, weight float64, p *catalog.Place) {
	key := patricia.Prefix(strings.ToLower(name))
	if existing := ix.trie.Get(key); existing != nil {
		// A place's own fields routinely collide on the identical
		// string (ASCII name equal to the primary name); keep the
		// strongest field for the same place. Across different places
		// the later insertion wins.
		if entry, ok := existing.(indexEntry); ok && entry.place == p && entry.weight >= weight {
			return
		}
	} else {
		ix.names++
	}
	ix.trie.Set(key, indexEntry{place: p, weight: weight})
}

// Search returns every indexed name starting with the given prefix,
// case-insensitively. The empty prefix matches the whole index.
// Traversal order is not specified; callers rank the results.
func (ix *PrefixIndex) Search(prefix string) []Hit {
	lower := strings.ToLower(prefix)

	var hits []Hit
	err := ix.trie.VisitSubtree(patricia.Prefix(lower), func(p patricia.Prefix, item patricia.Item) error {
		entry, ok := item.(indexEntry)
		if !ok {
			log.Errorf("Unknown item type: %T for name %s", item, p)
			return nil
		}
		hits = append(hits, Hit{Place: entry.place, Weight: entry.weight})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}
	return hits
}

// Names reports how many distinct name strings are indexed.
func (ix *PrefixIndex) Names() int {
	return ix.names
}
