package teams

import (
	"sort"

	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/tierscore"
)

// TierWeight scales the tier composite in the ranking score.
const TierWeight = 0.5

// View selects the display cap of a ranked list.
type View string

const (
	ViewFocused View = "focused" // one or more damage dealers selected
	ViewSupport View = "support" // only supports selected
	ViewRoster  View = "roster"  // whole roster, nothing selected
)

var displayCaps = map[View]int{
	ViewFocused: 12,
	ViewSupport: 15,
	ViewRoster:  18,
}

// DisplayCap returns the number of teams shown for v.
func DisplayCap(v View) int {
	if n, ok := displayCaps[v]; ok {
		return n
	}
	return displayCaps[ViewFocused]
}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	_, ok := displayCaps[v]
	return ok
}

func rankingScore(score, tierScore float64) float64 {
	return score + TierWeight*tierScore
}

// RankingScore combines the team's synergy score with its tier composite in
// mode. The curated team bonus is already part of the synergy score and is
// not added again.
func (g *Generator) RankingScore(t *models.GeneratedTeam, mode models.Mode) float64 {
	tiers := make([]models.Tier, 0, models.TeamSize)
	for _, m := range t.Members {
		tiers = append(tiers, g.data.BestTier(m.UnitID, mode))
	}
	avg, _ := tierscore.TeamAverage(tiers)
	return rankingScore(t.Score, avg)
}

// IsDualCarryTeam reports whether exactly two members fill damage roles.
func IsDualCarryTeam(members []models.TeamMember) bool {
	n := 0
	for _, m := range members {
		if m.Role.IsDamage() {
			n++
		}
	}
	return n == 2
}

// CanonicalPrimaryDPS returns the damage member a team is attributed to. In a
// dual-carry team the better tier in mode wins, then a DPS over a Sub-DPS,
// then the unit listed first in the dataset. It returns "" if no member
// deals damage.
func (g *Generator) CanonicalPrimaryDPS(members []models.TeamMember, mode models.Mode) string {
	var damage []models.TeamMember
	for _, m := range members {
		if m.Role.IsDamage() {
			damage = append(damage, m)
		}
	}
	switch len(damage) {
	case 0:
		return ""
	case 1:
		return damage[0].UnitID
	}
	best := damage[0]
	for _, m := range damage[1:] {
		if g.primaryBefore(m, best, mode) {
			best = m
		}
	}
	return best.UnitID
}

func (g *Generator) primaryBefore(a, b models.TeamMember, mode models.Mode) bool {
	ta, tb := g.data.BestTier(a.UnitID, mode), g.data.BestTier(b.UnitID, mode)
	if ta != tb {
		return ta.Better(tb)
	}
	if a.Role != b.Role {
		return a.Role < b.Role
	}
	ia, ib := g.data.Index(a.UnitID), g.data.Index(b.UnitID)
	if ia != ib {
		return ia < ib
	}
	return a.UnitID < b.UnitID
}

// Rank orders teams by ranking score, drops repeated unit sets, limits each
// canonical primary DPS to its tier quota and truncates to limit. A limit of
// zero or less keeps every accepted team.
func (g *Generator) Rank(teams []models.GeneratedTeam, mode models.Mode, limit int) []models.GeneratedTeam {
	type ranked struct {
		team  models.GeneratedTeam
		score float64
		key   string
	}
	list := make([]ranked, 0, len(teams))
	for i := range teams {
		t := teams[i]
		t.RankingScore = g.RankingScore(&t, mode)
		list = append(list, ranked{team: t, score: t.RankingScore, key: t.Key()})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})

	seen := make(map[string]bool, len(list))
	quota := make(map[string]int)
	out := make([]models.GeneratedTeam, 0, len(list))
	for _, r := range list {
		if seen[r.key] {
			continue
		}
		primary := g.CanonicalPrimaryDPS(r.team.Members[:], mode)
		if primary != "" {
			if quota[primary] >= MaxTeamsForTier(g.data.BestTier(primary, mode)) {
				continue
			}
			quota[primary]++
		}
		seen[r.key] = true
		out = append(out, r.team)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Merge concatenates team lists keeping the first team for every unit set.
func Merge(lists ...[]models.GeneratedTeam) []models.GeneratedTeam {
	seen := make(map[string]bool)
	var out []models.GeneratedTeam
	for _, list := range lists {
		for _, t := range list {
			key := t.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, t)
		}
	}
	return out
}

// FilterContainingAll keeps the teams that include every id in ids.
func FilterContainingAll(teams []models.GeneratedTeam, ids []string) []models.GeneratedTeam {
	out := teams[:0:0]
	for _, t := range teams {
		ok := true
		for _, id := range ids {
			if !t.Contains(id) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}
