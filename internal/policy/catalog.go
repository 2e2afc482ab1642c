// Package policy holds the authored policy catalog: the bipartisan
// policies shown on the exploration surface together with their
// per-lens factor tables. The catalog is static data, read-only at
// runtime; factor values are authored during data review, not computed.
package policy

import "github.com/civicengine/api/internal/scoring"

// Policy is one catalog entry.
type Policy struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	Summary        string `json:"summary"`
	AverageSupport int    `json:"averageSupport"` // % bipartisan support, 0-100

	// Factor tables per lens. A nil table means the policy has no
	// score under that lens and callers render a placeholder.
	Impact  scoring.ImpactProfile  `json:"impact,omitempty"`
	Economy scoring.EconomyProfile `json:"economics,omitempty"`
	Needs   *scoring.NeedsProfile  `json:"needs,omitempty"`
}

// Catalog indexes the authored policies.
type Catalog struct {
	byID  map[string]*Policy
	order []string
}

// NewCatalog builds an index over the given policies, preserving
// authored order.
func NewCatalog(policies []Policy) *Catalog {
	c := &Catalog{byID: make(map[string]*Policy, len(policies))}
	for i := range policies {
		p := &policies[i]
		c.byID[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return NewCatalog(defaultPolicies())
}

// Get returns the policy with the given id.
func (c *Catalog) Get(id string) (*Policy, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All returns the policies in authored order.
func (c *Catalog) All() []*Policy {
	out := make([]*Policy, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports the catalog size.
func (c *Catalog) Len() int {
	return len(c.order)
}
