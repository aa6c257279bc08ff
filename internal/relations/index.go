// Package relations builds the reverse view of teammate recommendations:
// which units want, or avoid, a given unit.
package relations

import (
	"sort"
	"sync"

	"github.com/meur/teamforge/internal/models"
)

// UnitLookup is the slice of the dataset the index scans.
type UnitLookup interface {
	Units() []models.Unit
	Unit(id string) (*models.Unit, bool)
}

// WantedEntry records that UnitID recommends the target.
type WantedEntry struct {
	UnitID string        `json:"unit_id"`
	Rating models.Rating `json:"rating"`
	// Category is the role the target fills for UnitID.
	Category        models.Role `json:"category"`
	Reason          string      `json:"reason,omitempty"`
	CompositionID   string      `json:"composition_id,omitempty"`
	CompositionName string      `json:"composition_name,omitempty"`
}

// AvoidedEntry records that UnitID avoids the target.
type AvoidedEntry struct {
	UnitID string `json:"unit_id"`
	Reason string `json:"reason,omitempty"`
}

// Grouped partitions wanted entries by the kind of unit doing the wanting.
type Grouped struct {
	DPS      []WantedEntry `json:"dps"`
	Supports []WantedEntry `json:"supports"`
	Sustains []WantedEntry `json:"sustains"`
}

// ScanWanted walks every unit's base and composition teammate lists for
// entries naming target. Excluded overrides are not wants. Results are sorted
// best rating first; ties keep dataset order.
func ScanWanted(data UnitLookup, target string) []WantedEntry {
	var out []WantedEntry
	units := data.Units()
	for i := range units {
		u := &units[i]
		if u.ID == target {
			continue
		}
		for _, role := range models.AllRoles {
			for _, rec := range u.BaseTeammates[role] {
				if rec.ID != target {
					continue
				}
				out = append(out, WantedEntry{
					UnitID:   u.ID,
					Rating:   rec.Rating,
					Category: role,
					Reason:   rec.Reason,
				})
			}
		}
		for _, comp := range u.Compositions {
			for _, role := range models.AllRoles {
				for _, ov := range comp.TeammateOverrides[role] {
					if ov.ID != target || ov.Excluded || ov.Rating == nil {
						continue
					}
					out = append(out, WantedEntry{
						UnitID:          u.ID,
						Rating:          *ov.Rating,
						Category:        role,
						Reason:          ov.Reason,
						CompositionID:   comp.ID,
						CompositionName: comp.Name,
					})
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating.Better(out[j].Rating)
	})
	return out
}

// ScanAvoided walks every unit's avoid list for target.
func ScanAvoided(data UnitLookup, target string) []AvoidedEntry {
	var out []AvoidedEntry
	units := data.Units()
	for i := range units {
		if units[i].ID == target {
			continue
		}
		if avoid, ok := units[i].Avoids(target); ok {
			out = append(out, AvoidedEntry{UnitID: units[i].ID, Reason: avoid.Reason})
		}
	}
	return out
}

// GroupWantedByRole buckets entries by the wanting unit's primary role.
func GroupWantedByRole(data UnitLookup, entries []WantedEntry) Grouped {
	g := Grouped{
		DPS:      []WantedEntry{},
		Supports: []WantedEntry{},
		Sustains: []WantedEntry{},
	}
	for _, e := range entries {
		role := models.RoleAmplifier
		if u, ok := data.Unit(e.UnitID); ok {
			role = u.PrimaryRole()
		}
		switch {
		case role.IsDamage():
			g.DPS = append(g.DPS, e)
		case role == models.RoleSustain:
			g.Sustains = append(g.Sustains, e)
		default:
			g.Supports = append(g.Supports, e)
		}
	}
	return g
}

// Index memoizes reverse lookups per target id. It is safe for concurrent
// use. Call Reset when the dataset is reloaded.
type Index struct {
	mu      sync.RWMutex
	data    UnitLookup
	wanted  map[string][]WantedEntry
	avoided map[string][]AvoidedEntry
}

// NewIndex creates an empty index over data.
func NewIndex(data UnitLookup) *Index {
	return &Index{
		data:    data,
		wanted:  make(map[string][]WantedEntry),
		avoided: make(map[string][]AvoidedEntry),
	}
}

// Data returns the dataset the index currently scans.
func (ix *Index) Data() UnitLookup {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.data
}

// Reset drops every cached entry and, if data is non-nil, switches to it.
func (ix *Index) Reset(data UnitLookup) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if data != nil {
		ix.data = data
	}
	ix.wanted = make(map[string][]WantedEntry)
	ix.avoided = make(map[string][]AvoidedEntry)
}

// WhoWants returns the units that recommend target.
func (ix *Index) WhoWants(target string) []WantedEntry {
	ix.mu.RLock()
	cached, ok := ix.wanted[target]
	data := ix.data
	ix.mu.RUnlock()
	if ok {
		return cached
	}

	entries := ScanWanted(data, target)
	ix.mu.Lock()
	if ix.data == data {
		ix.wanted[target] = entries
	}
	ix.mu.Unlock()
	return entries
}

// WhoAvoids returns the units that avoid target.
func (ix *Index) WhoAvoids(target string) []AvoidedEntry {
	ix.mu.RLock()
	cached, ok := ix.avoided[target]
	data := ix.data
	ix.mu.RUnlock()
	if ok {
		return cached
	}

	entries := ScanAvoided(data, target)
	ix.mu.Lock()
	if ix.data == data {
		ix.avoided[target] = entries
	}
	ix.mu.Unlock()
	return entries
}

// Grouped is WhoWants partitioned with GroupWantedByRole.
func (ix *Index) Grouped(target string) Grouped {
	return GroupWantedByRole(ix.Data(), ix.WhoWants(target))
}
