// Package catalog holds the in-memory set of place records the suggestion
// engine is built from. Records are loaded once from a geonames-style TSV
// dump and treated as immutable afterwards.
package catalog

import "strings"

// Place is a single geonames record. Fields are never mutated after load;
// the suggestion indexes hold pointers into the catalog slice.
type Place struct {
	ID         int64
	Name       string
	ASCIIName  string
	AltNames   string // comma-separated, as shipped in the dump
	Latitude   float64
	Longitude  float64
	Country    string
	Admin1     string
	Population int64
	Elevation  int
	Timezone   string
	Modified   string // YYYY-MM-DD, kept as-is
}

// DisplayName renders the user-facing suggestion label:
// "{name}, {country}, {timezone}", skipping empty segments.
func (p *Place) DisplayName() string {
	parts := make([]string, 0, 3)
	parts = append(parts, p.Name)
	if p.Country != "" {
		parts = append(parts, p.Country)
	}
	if p.Timezone != "" {
		parts = append(parts, p.Timezone)
	}
	return strings.Join(parts, ", ")
}

// AlternateNames splits the comma-separated alternate name field,
// trimming whitespace and dropping empty entries.
func (p *Place) AlternateNames() []string {
	if p.AltNames == "" {
		return nil
	}
	raw := strings.Split(p.AltNames, ",")
	names := raw[:0]
	for _, n := range raw {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}
