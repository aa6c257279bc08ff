package authoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meur/teamforge/internal/models"
)

// Change is a single field difference between two versions of a composition.
type Change struct {
	Field  string `json:"field"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

type CompositionChange struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// CompositionDiff summarizes how a unit's composition list changed.
type CompositionDiff struct {
	Added   []string            `json:"added,omitempty"`
	Removed []string            `json:"removed,omitempty"`
	Changed []CompositionChange `json:"changed,omitempty"`
}

// Empty reports whether the two versions are equivalent.
func (d CompositionDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// DiffCompositions compares two composition lists by composition id.
func DiffCompositions(before, after []models.Composition) CompositionDiff {
	var diff CompositionDiff

	old := make(map[string]*models.Composition, len(before))
	for i := range before {
		old[before[i].ID] = &before[i]
	}
	current := make(map[string]bool, len(after))

	for i := range after {
		c := &after[i]
		current[c.ID] = true
		prev, ok := old[c.ID]
		if !ok {
			diff.Added = append(diff.Added, c.ID)
			continue
		}
		if changes := diffComposition(prev, c); len(changes) > 0 {
			diff.Changed = append(diff.Changed, CompositionChange{ID: c.ID, Changes: changes})
		}
	}
	for i := range before {
		if !current[before[i].ID] {
			diff.Removed = append(diff.Removed, before[i].ID)
		}
	}
	return diff
}

func diffComposition(a, b *models.Composition) []Change {
	var changes []Change
	field := func(name, before, after string) {
		if before != after {
			changes = append(changes, Change{Field: name, Before: before, After: after})
		}
	}

	field("name", a.Name, b.Name)
	field("isPrimary", fmt.Sprint(a.IsPrimary), fmt.Sprint(b.IsPrimary))

	for _, role := range models.AllRoles {
		before := overrideIndex(a.TeammateOverrides[role])
		after := overrideIndex(b.TeammateOverrides[role])
		for _, id := range unionKeys(before, after) {
			field(fmt.Sprintf("teammateOverrides.%s.%s", role, id), before[id], after[id])
		}
	}

	field("core.units", coreString(a.Core.Units), coreString(b.Core.Units))
	field("pathRequirements", pathString(a.PathRequirements), pathString(b.PathRequirements))
	field("labelRequirements", labelString(a.LabelRequirements), labelString(b.LabelRequirements))
	field("weakModes", modesString(a.WeakModes), modesString(b.WeakModes))
	field("teams", teamsString(a.Teams), teamsString(b.Teams))

	return changes
}

func overrideIndex(list []models.TeammateOverride) map[string]string {
	out := make(map[string]string, len(list))
	for _, o := range list {
		switch {
		case o.Excluded:
			out[o.ID] = "excluded"
		case o.Rating != nil:
			out[o.ID] = o.Rating.String()
		default:
			out[o.ID] = "unrated"
		}
	}
	return out
}

func unionKeys(a, b map[string]string) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func sortedJoin(parts []string) string {
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func coreString(units []models.CoreUnit) string {
	parts := make([]string, 0, len(units))
	for _, u := range units {
		if u.MinEidolon > 0 {
			parts = append(parts, fmt.Sprintf("%s E%d+", u.ID, u.MinEidolon))
		} else {
			parts = append(parts, u.ID)
		}
	}
	return sortedJoin(parts)
}

func pathString(reqs []models.PathRequirement) string {
	parts := make([]string, 0, len(reqs))
	for _, r := range reqs {
		parts = append(parts, fmt.Sprintf("%dx %s", r.Count, r.Path))
	}
	return sortedJoin(parts)
}

func labelString(reqs []models.LabelRequirement) string {
	parts := make([]string, 0, len(reqs))
	for _, r := range reqs {
		parts = append(parts, fmt.Sprintf("%dx %s", r.Count, r.Label))
	}
	return sortedJoin(parts)
}

func modesString(modes []models.Mode) string {
	parts := make([]string, 0, len(modes))
	for _, m := range modes {
		parts = append(parts, string(m))
	}
	return sortedJoin(parts)
}

func teamsString(teams []models.CuratedTeam) string {
	parts := make([]string, 0, len(teams))
	for _, t := range teams {
		parts = append(parts, fmt.Sprintf("[%s] %s", models.TeamKey(t.Units), t.Rating))
	}
	return sortedJoin(parts)
}
