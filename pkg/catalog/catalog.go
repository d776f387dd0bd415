package catalog

// Catalog owns the loaded place records. Max population is computed once
// per load since the population score normalizes against it.
type Catalog struct {
	places        []*Place
	maxPopulation int64
}

// New builds a catalog from already-parsed records.
func New(places []*Place) *Catalog {
	c := &Catalog{places: places}
	for _, p := range places {
		if p.Population > c.maxPopulation {
			c.maxPopulation = p.Population
		}
	}
	return c
}

// Places returns the loaded records in file order.
func (c *Catalog) Places() []*Place {
	return c.places
}

func (c *Catalog) Len() int {
	return len(c.places)
}

// MaxPopulation is the largest population across the catalog, 0 when empty.
func (c *Catalog) MaxPopulation() int64 {
	return c.maxPopulation
}
