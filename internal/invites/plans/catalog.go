// Package plans holds the fixed subscription catalog. It is built once at
// init and never mutated.
package plans

import (
	"slices"

	"github.com/aussiebroadwan/invitedesk/internal/invites/domain"
)

// Finder resolves a plan by id.
type Finder interface {
	Find(id domain.PlanID) (domain.Plan, bool)
}

// Catalog is an ordered, read-only set of plans.
type Catalog struct {
	plans []domain.Plan
}

// NewCatalog copies ps into a catalog, preserving order.
func NewCatalog(ps ...domain.Plan) *Catalog {
	c := &Catalog{plans: make([]domain.Plan, 0, len(ps))}
	for _, p := range ps {
		p.Features = slices.Clone(p.Features)
		c.plans = append(c.plans, p)
	}
	return c
}

// List returns a copy of the plans in catalog order.
func (c *Catalog) List() []domain.Plan {
	out := make([]domain.Plan, len(c.plans))
	for i, p := range c.plans {
		p.Features = slices.Clone(p.Features)
		out[i] = p
	}
	return out
}

func (c *Catalog) Find(id domain.PlanID) (domain.Plan, bool) {
	for _, p := range c.plans {
		if p.ID == id {
			p.Features = slices.Clone(p.Features)
			return p, true
		}
	}
	return domain.Plan{}, false
}

var standard = NewCatalog(
	domain.Plan{
		ID:       domain.PlanBasic,
		Name:     "Basic",
		Price:    0,
		Features: []string{"Basic system access"},
		Limits:   domain.Limits{Agents: 0, HistoryDays: 7, Users: 1},
	},
	domain.Plan{
		ID:       domain.PlanPro,
		Name:     "Professional",
		Price:    97,
		Features: []string{"Full system access"},
		Limits:   domain.Limits{Agents: 1, HistoryDays: 365, Users: 3},
	},
	domain.Plan{
		ID:       domain.PlanEnterprise,
		Name:     "Enterprise",
		Price:    299,
		Features: []string{"Multiple users", "Dedicated API", "Priority support"},
		Limits:   domain.Limits{Agents: 1, HistoryDays: domain.Unbounded, Users: 10},
	},
)

// Standard returns the built-in catalog.
func Standard() *Catalog { return standard }

// List returns the built-in plans: basic, pro, enterprise.
func List() []domain.Plan { return standard.List() }

// Find looks a plan up in the built-in catalog.
func Find(id domain.PlanID) (domain.Plan, bool) { return standard.Find(id) }
