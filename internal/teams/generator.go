// Package teams enumerates, scores and ranks 4-unit teams.
package teams

import (
	"fmt"
	"sort"

	"github.com/meur/teamforge/internal/composition"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/relations"
	"github.com/meur/teamforge/internal/synergy"
	"github.com/meur/teamforge/internal/tierscore"
)

// Lookup is the slice of the dataset team generation reads.
type Lookup interface {
	Units() []models.Unit
	Unit(id string) (*models.Unit, bool)
	Index(id string) int
	BestTier(id string, mode models.Mode) models.Tier
}

// Options configures one generateTeams call.
type Options struct {
	// MaxTeams caps the result. Zero uses MaxTeamsForTier of the focal unit.
	MaxTeams      int
	Mode          models.Mode
	CompositionID string
	// Required units must appear in every team. They must also be in the pool.
	Required    []string
	Investments models.InvestmentSource
}

// Per-role candidate caps applied before enumeration. Pools at or under
// their sum are enumerated exhaustively.
const (
	maxSustainCandidates   = 5
	maxAmplifierCandidates = 8
	maxDamageCandidates    = 4

	maxCandidates = maxSustainCandidates + maxAmplifierCandidates + maxDamageCandidates
)

// Generator builds teams over one dataset snapshot.
type Generator struct {
	data      Lookup
	scorer    *synergy.Scorer
	relations *relations.Index
}

// NewGenerator creates a generator. rel may be nil, in which case a private
// relationship index over data is created.
func NewGenerator(data Lookup, rel *relations.Index) *Generator {
	if rel == nil {
		rel = relations.NewIndex(data)
	}
	return &Generator{
		data:      data,
		scorer:    synergy.NewScorer(data),
		relations: rel,
	}
}

// Data returns the dataset the generator reads.
func (g *Generator) Data() Lookup { return g.data }

var maxTeamsByTier = map[models.Tier]int{
	models.TierMinus1:    8,
	models.TierMinusHalf: 7,
	models.Tier0:         6,
	models.Tier0Half:     5,
	models.Tier1:         4,
	models.Tier1Half:     3,
	models.Tier2:         3,
	models.Tier3:         2,
	models.Tier4:         1,
	models.Tier5:         1,
}

// MaxTeamsForTier is how many teams a unit of tier t may own in a ranked list.
// Better tiers get a larger quota.
func MaxTeamsForTier(t models.Tier) int {
	if n, ok := maxTeamsByTier[t]; ok {
		return n
	}
	return maxTeamsByTier[models.DefaultTier]
}

type candidate struct {
	members [models.TeamSize]models.TeamMember
	syn     synergy.TeamSynergy
	key     string
	rank    float64
}

// GenerateTeams builds teams around focalID from pool. Pool ids outside the
// dataset, the focal unit and other forms of it are ignored. Composition core
// units and path/label requirements are hard filters. Large pools are pruned
// per slot before enumeration. Results are sorted by synergy score and
// truncated to opts.MaxTeams.
func (g *Generator) GenerateTeams(focalID string, pool []string, opts Options) []models.GeneratedTeam {
	focal, ok := g.data.Unit(focalID)
	if !ok || !focal.IsDamageDealer() {
		return nil
	}
	mode := opts.Mode
	if !mode.Valid() {
		mode = models.DefaultMode
	}
	maxTeams := opts.MaxTeams
	if maxTeams <= 0 {
		maxTeams = MaxTeamsForTier(g.data.BestTier(focal.ID, mode))
	}

	comp := composition.Select(focal, opts.CompositionID)
	compID := ""
	if comp != nil {
		compID = comp.ID
	}

	candidates := g.candidatePool(focal, pool)
	inPool := make(map[string]bool, len(candidates))
	for _, u := range candidates {
		inPool[u.ID] = true
	}

	required := dedupe(opts.Required)
	if comp != nil {
		for _, cu := range comp.Core.Units {
			if cu.ID == focal.ID {
				continue
			}
			if cu.MinEidolon > 0 && eidolonOf(opts.Investments, cu.ID) < cu.MinEidolon {
				return nil
			}
			required = appendUnique(required, cu.ID)
		}
	}
	forced := make([]*models.Unit, 0, len(required))
	forcedSet := make(map[string]bool, len(required))
	for _, id := range required {
		if id == focal.ID {
			continue
		}
		if !inPool[id] {
			return nil
		}
		u, _ := g.data.Unit(id)
		forced = append(forced, u)
		forcedSet[id] = true
	}
	need := models.TeamSize - 1 - len(forced)
	if need < 0 {
		return nil
	}
	rest := make([]*models.Unit, 0, len(candidates))
	for _, u := range candidates {
		if !forcedSet[u.ID] {
			rest = append(rest, u)
		}
	}

	session := g.scorer.Session(synergy.Options{
		Compositions: map[string]string{focal.ID: compID},
		Investments:  opts.Investments,
	})
	rest = pruneCandidates(g.data, session, focal, rest, comp)

	var out []candidate
	units := make([]*models.Unit, 0, models.TeamSize)
	units = append(units, focal)
	units = append(units, forced...)
	base := len(units)
	units = units[:models.TeamSize]

	combinations(len(rest), need, func(idx []int) {
		for i, j := range idx {
			units[base+i] = rest[j]
		}
		if sharesBase(units) {
			return
		}
		members, ok := assignRoles(units, focal.ID)
		if !ok || !meetsRequirements(comp, units) {
			return
		}
		syn := session.Team(members, focal.ID, mode)
		c := candidate{members: members, syn: syn, key: memberKey(members)}
		c.rank = rankingScore(syn.Score, syn.TierScore)
		out = append(out, c)
	})

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].syn.Score != out[j].syn.Score {
			return out[i].syn.Score > out[j].syn.Score
		}
		if out[i].rank != out[j].rank {
			return out[i].rank > out[j].rank
		}
		return out[i].key < out[j].key
	})
	if len(out) > maxTeams {
		out = out[:maxTeams]
	}

	teams := make([]models.GeneratedTeam, 0, len(out))
	for _, c := range out {
		teams = append(teams, g.build(c.members, focal.ID, comp, c.syn, mode))
	}
	return teams
}

// candidatePool resolves pool ids in order, dropping unknown ids, duplicates
// and any form of the focal unit.
func (g *Generator) candidatePool(focal *models.Unit, pool []string) []*models.Unit {
	seen := make(map[string]bool, len(pool))
	out := make([]*models.Unit, 0, len(pool))
	for _, id := range pool {
		if seen[id] {
			continue
		}
		seen[id] = true
		u, ok := g.data.Unit(id)
		if !ok || u.ID == focal.ID || u.CanonicalID() == focal.CanonicalID() {
			continue
		}
		out = append(out, u)
	}
	return out
}

// pruneCandidates bounds the units enumerated for the open slots, following
// the role-fill order: the sustain slot draws from Sustain units, the others
// from Amplifiers and, while under the damage cap, damage dealers. Each role
// keeps its best units by bidirectional score with the focal unit. Units
// matching a composition path or label requirement are kept per requirement
// so the hard filters stay satisfiable. The result keeps the input order.
func pruneCandidates(data Lookup, session *synergy.Session, focal *models.Unit, rest []*models.Unit, comp *models.Composition) []*models.Unit {
	if len(rest) <= maxCandidates {
		return rest
	}

	byScore := append([]*models.Unit(nil), rest...)
	scores := make(map[string]float64, len(byScore))
	for _, u := range byScore {
		scores[u.ID] = session.Bidirectional(focal.ID, u.ID).Score
	}
	sort.SliceStable(byScore, func(i, j int) bool {
		a, b := byScore[i], byScore[j]
		if scores[a.ID] != scores[b.ID] {
			return scores[a.ID] > scores[b.ID]
		}
		return data.Index(a.ID) < data.Index(b.ID)
	})

	keep := make(map[string]bool, maxCandidates)
	take := func(limit int, match func(*models.Unit) bool) {
		n := 0
		for _, u := range byScore {
			if n >= limit {
				return
			}
			if match(u) {
				keep[u.ID] = true
				n++
			}
		}
	}

	take(maxSustainCandidates, func(u *models.Unit) bool { return u.HasRole(models.RoleSustain) })
	take(maxAmplifierCandidates, func(u *models.Unit) bool { return u.HasRole(models.RoleAmplifier) })
	take(maxDamageCandidates, (*models.Unit).IsDamageDealer)
	if comp != nil {
		for _, req := range comp.PathRequirements {
			path := req.Path
			take(maxAmplifierCandidates, func(u *models.Unit) bool { return u.Path == path })
		}
		for _, req := range comp.LabelRequirements {
			label := req.Label
			take(maxAmplifierCandidates, func(u *models.Unit) bool { return u.HasLabel(label) })
		}
	}

	out := make([]*models.Unit, 0, len(keep))
	for _, u := range rest {
		if keep[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

// build turns a scored member set into the public team value.
func (g *Generator) build(members [models.TeamSize]models.TeamMember, focalID string, comp *models.Composition, syn synergy.TeamSynergy, mode models.Mode) models.GeneratedTeam {
	t := models.GeneratedTeam{
		Members:       members,
		FocalID:       focalID,
		Score:         syn.Score,
		Rating:        syn.Rating,
		TierScore:     syn.TierScore,
		TeamTier:      syn.TeamTier,
		RankingScore:  rankingScore(syn.Score, syn.TierScore),
		Contributions: syn.Contributions,
		Breakdown:     append(append([]string(nil), syn.Breakdown...), syn.Reasoning...),
		Insights:      append([]string(nil), syn.Insights...),
		ModeRatings:   g.modeRatings(members),
	}
	if comp != nil {
		t.CompositionID = comp.ID
		if len(comp.WeakModes) > 0 {
			t.WeakModes = append([]models.Mode(nil), comp.WeakModes...)
		}
		if comp.IsWeakIn(mode) {
			t.Insights = append(t.Insights, fmt.Sprintf("%s is weak in %s", comp.Name, mode.Label()))
		}
	}
	if syn.Curated != nil {
		t.CuratedMatch = syn.Curated.Name
		t.Structure = syn.Curated.Structure
	}
	if t.Structure == "" {
		t.Structure = models.StructureHypercarry
		if syn.DualCarry {
			t.Structure = models.StructureDualCarry
		}
	}
	return t
}

func (g *Generator) modeRatings(members [models.TeamSize]models.TeamMember) map[models.Mode]models.Tier {
	out := make(map[models.Mode]models.Tier, len(models.AllModes))
	tiers := make([]models.Tier, models.TeamSize)
	for _, mode := range models.AllModes {
		for i, m := range members {
			tiers[i] = g.data.BestTier(m.UnitID, mode)
		}
		_, out[mode] = tierscore.TeamAverage(tiers)
	}
	return out
}

// meetsRequirements checks a composition's path and label counts.
func meetsRequirements(comp *models.Composition, units []*models.Unit) bool {
	if comp == nil {
		return true
	}
	for _, req := range comp.PathRequirements {
		n := 0
		for _, u := range units {
			if u.Path == req.Path {
				n++
			}
		}
		if n < req.Count {
			return false
		}
	}
	for _, req := range comp.LabelRequirements {
		n := 0
		for _, u := range units {
			if u.HasLabel(req.Label) {
				n++
			}
		}
		if n < req.Count {
			return false
		}
	}
	return true
}

func sharesBase(units []*models.Unit) bool {
	for i := range units {
		for j := i + 1; j < len(units); j++ {
			if units[i].CanonicalID() == units[j].CanonicalID() {
				return true
			}
		}
	}
	return false
}

// combinations calls fn with every k-subset of [0, n) in lexicographic order.
// fn must not retain idx.
func combinations(n, k int, fn func(idx []int)) {
	if k < 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func memberKey(members [models.TeamSize]models.TeamMember) string {
	ids := make([]string, 0, models.TeamSize)
	for _, m := range members {
		ids = append(ids, m.UnitID)
	}
	return models.TeamKey(ids)
}

func eidolonOf(src models.InvestmentSource, id string) int {
	inv := models.InvestmentOf(src, id)
	if inv == nil {
		return 0
	}
	return inv.Eidolon
}

func dedupe(ids []string) []string {
	var out []string
	for _, id := range ids {
		out = appendUnique(out, id)
	}
	return out
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
