package teams

import (
	"sort"

	"github.com/meur/teamforge/internal/models"
)

// SupportResult holds the two halves of a support-anchored generation.
type SupportResult struct {
	// FocalTeams are built around damage dealers that recommend the support.
	FocalTeams []models.GeneratedTeam `json:"focal_teams"`
	// SupportingTeams place the support with other damage dealers in the pool.
	SupportingTeams []models.GeneratedTeam `json:"supporting_teams"`
}

// All merges both halves, dropping repeated unit sets.
func (r SupportResult) All() []models.GeneratedTeam {
	return Merge(r.FocalTeams, r.SupportingTeams)
}

// GenerateTeamsForSupport builds teams that include supportID when no damage
// dealer was chosen. Damage dealers in pool that want the support are used
// as focal units first, with the composition that recommends it; every other
// damage dealer in pool then gets a smaller batch of teams. opts.Required is
// extended with supportID.
func (g *Generator) GenerateTeamsForSupport(supportID string, pool []string, opts Options) SupportResult {
	var res SupportResult
	if _, ok := g.data.Unit(supportID); !ok {
		return res
	}
	pool = appendUnique(dedupe(pool), supportID)
	inPool := make(map[string]bool, len(pool))
	for _, id := range pool {
		inPool[id] = true
	}

	required := appendUnique(dedupe(opts.Required), supportID)
	focalOpts := opts
	focalOpts.Required = required

	wanters := make(map[string]bool)
	for _, w := range g.relations.WhoWants(supportID) {
		if wanters[w.UnitID] || !inPool[w.UnitID] {
			continue
		}
		u, ok := g.data.Unit(w.UnitID)
		if !ok || !u.IsDamageDealer() {
			continue
		}
		wanters[w.UnitID] = true
		o := focalOpts
		if o.CompositionID == "" {
			o.CompositionID = w.CompositionID
		}
		res.FocalTeams = append(res.FocalTeams, g.GenerateTeams(w.UnitID, pool, o)...)
	}

	general := focalOpts
	general.CompositionID = ""
	if general.MaxTeams > 1 {
		general.MaxTeams /= 2
	}
	for _, id := range pool {
		if wanters[id] || id == supportID {
			continue
		}
		u, ok := g.data.Unit(id)
		if !ok || !u.IsDamageDealer() {
			continue
		}
		res.SupportingTeams = append(res.SupportingTeams, g.GenerateTeams(id, pool, general)...)
	}

	byScore := func(list []models.GeneratedTeam) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].RankingScore > list[j].RankingScore
		})
	}
	byScore(res.FocalTeams)
	byScore(res.SupportingTeams)
	return res
}
