// Package composition merges a unit's default teammate recommendations with
// the overrides of a selected composition and applies investment modifiers.
package composition

import (
	"github.com/meur/teamforge/internal/models"
)

// UnitLookup finds units by id.
type UnitLookup interface {
	Unit(id string) (*models.Unit, bool)
}

// Source tells where a resolved teammate entry came from.
type Source string

const (
	SourceBase        Source = "base"
	SourceComposition Source = "composition"
)

// Teammate is one resolved recommendation.
type Teammate struct {
	ID            string                      `json:"id"`
	Role          models.Role                 `json:"role"`
	Rating        models.Rating               `json:"rating"`
	Reason        string                      `json:"reason,omitempty"`
	Modifiers     []models.InvestmentModifier `json:"modifiers,omitempty"`
	Source        Source                      `json:"source"`
	CompositionID string                      `json:"composition_id,omitempty"`
}

// Resolution is the full teammate list of a unit under one composition.
type Resolution struct {
	UnitID      string                     `json:"unit_id"`
	Composition *models.Composition        `json:"-"`
	Teammates   map[models.Role][]Teammate `json:"teammates"`
}

// CompositionID returns the id of the applied composition, or "".
func (r Resolution) CompositionID() string {
	if r.Composition == nil {
		return ""
	}
	return r.Composition.ID
}

// Resolver resolves teammate lists against the dataset.
type Resolver struct {
	units UnitLookup
}

// NewResolver creates a resolver over units.
func NewResolver(units UnitLookup) *Resolver {
	return &Resolver{units: units}
}

// Select picks the composition to apply. An empty or unknown id falls back to
// the primary composition, then the first one; units without compositions yield nil.
func Select(u *models.Unit, compositionID string) *models.Composition {
	if compositionID != "" {
		if c, ok := u.Composition(compositionID); ok {
			return c
		}
	}
	c, _ := u.PrimaryComposition()
	return c
}

// Resolve is TeammatesFor with a unit id. Unknown units resolve to an empty list.
func (r *Resolver) Resolve(unitID, compositionID string) Resolution {
	u, ok := r.units.Unit(unitID)
	if !ok {
		return Resolution{UnitID: unitID, Teammates: map[models.Role][]Teammate{}}
	}
	return TeammatesFor(u, compositionID)
}

// TeammatesFor starts from u.BaseTeammates and applies the selected
// composition's overrides per role: a rated override replaces or adds the
// entry, an excluded override removes it even if the base list has it.
func TeammatesFor(u *models.Unit, compositionID string) Resolution {
	comp := Select(u, compositionID)
	res := Resolution{
		UnitID:      u.ID,
		Composition: comp,
		Teammates:   make(map[models.Role][]Teammate, len(models.AllRoles)),
	}

	for _, role := range models.AllRoles {
		var list []Teammate
		for _, rec := range u.BaseTeammates[role] {
			list = append(list, Teammate{
				ID:        rec.ID,
				Role:      role,
				Rating:    rec.Rating,
				Reason:    rec.Reason,
				Modifiers: rec.TheirInvestmentModifiers,
				Source:    SourceBase,
			})
		}
		if comp != nil {
			list = applyOverrides(list, role, comp)
		}
		if len(list) > 0 {
			res.Teammates[role] = list
		}
	}
	return res
}

func applyOverrides(list []Teammate, role models.Role, comp *models.Composition) []Teammate {
	for _, ov := range comp.TeammateOverrides[role] {
		idx := -1
		for i := range list {
			if list[i].ID == ov.ID {
				idx = i
				break
			}
		}

		if ov.Excluded {
			if idx >= 0 {
				list = append(list[:idx:idx], list[idx+1:]...)
			}
			continue
		}
		if ov.Rating == nil {
			continue
		}

		entry := Teammate{
			ID:            ov.ID,
			Role:          role,
			Rating:        *ov.Rating,
			Reason:        ov.Reason,
			Modifiers:     ov.TheirInvestmentModifiers,
			Source:        SourceComposition,
			CompositionID: comp.ID,
		}
		if idx >= 0 {
			if entry.Reason == "" {
				entry.Reason = list[idx].Reason
			}
			if entry.Modifiers == nil {
				entry.Modifiers = list[idx].Modifiers
			}
			list[idx] = entry
		} else {
			list = append(list, entry)
		}
	}
	return list
}

// Find returns the best-rated entry for teammateID among roles. With no roles
// every role list is searched.
func (res Resolution) Find(teammateID string, roles ...models.Role) (Teammate, bool) {
	if len(roles) == 0 {
		roles = models.AllRoles[:]
	}
	var best Teammate
	found := false
	for _, role := range roles {
		for _, tm := range res.Teammates[role] {
			if tm.ID != teammateID {
				continue
			}
			if !found || tm.Rating.Better(best.Rating) {
				best, found = tm, true
			}
		}
	}
	return best, found
}

// All returns every resolved entry in role order.
func (res Resolution) All() []Teammate {
	var out []Teammate
	for _, role := range models.AllRoles {
		out = append(out, res.Teammates[role]...)
	}
	return out
}
