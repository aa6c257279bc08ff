package teams

import (
	"github.com/meur/teamforge/internal/composition"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/synergy"
)

// generationHeadroom multiplies a focal unit's quota when generating, so the
// ranking walk has spare candidates after dedup.
const generationHeadroom = 2

// Query is one recommendation request.
type Query struct {
	// Selected units must appear in every team. Empty means the whole pool.
	Selected     []string
	Pool         []string
	Mode         models.Mode
	Compositions map[string]string // focal unit id -> composition id
	View         View
	// MaxTeams overrides the per-focal generation cap.
	MaxTeams    int
	Investments models.InvestmentSource
}

// Recommendation is the ranked answer to a Query.
type Recommendation struct {
	Teams      []models.GeneratedTeam `json:"teams"`
	View       View                   `json:"view"`
	Candidates int                    `json:"candidates"`
	// Reason explains an empty result.
	Reason string `json:"reason,omitempty"`
}

// Empty result reasons.
const (
	ReasonNotEnoughUnits = "not enough characters for a valid team"
	ReasonNoValidTeams   = "no valid teams for this selection"
)

// Recommend runs generation for every focal unit of q and ranks the pooled
// candidates. Invalid selections yield no teams and a reason.
func (g *Generator) Recommend(q Query) Recommendation {
	mode := q.Mode
	if !mode.Valid() {
		mode = models.DefaultMode
	}
	selected := dedupe(q.Selected)
	pool := dedupe(append(append([]string(nil), q.Pool...), selected...))

	var dps, supports []string
	for _, id := range selected {
		u, ok := g.data.Unit(id)
		if !ok {
			continue
		}
		if u.PrimaryRole().IsDamage() {
			dps = append(dps, id)
		} else {
			supports = append(supports, id)
		}
	}

	view := q.View
	if !view.Valid() {
		switch {
		case len(dps) > 0:
			view = ViewFocused
		case len(supports) > 0:
			view = ViewSupport
		default:
			view = ViewRoster
		}
	}
	rec := Recommendation{View: view}

	if problem := ValidateSelection(g.data, selected); problem != SelectionOK {
		rec.Reason = string(problem)
		return rec
	}
	if len(pool) < models.TeamSize {
		rec.Reason = ReasonNotEnoughUnits
		return rec
	}

	opts := func(focal string, required []string) Options {
		limit := q.MaxTeams
		if limit <= 0 {
			limit = MaxTeamsForTier(g.data.BestTier(focal, mode)) * generationHeadroom
		}
		return Options{
			MaxTeams:      limit,
			Mode:          mode,
			CompositionID: q.Compositions[focal],
			Required:      required,
			Investments:   q.Investments,
		}
	}

	var candidates []models.GeneratedTeam
	switch {
	case len(dps) > 0:
		for _, d := range dps {
			candidates = append(candidates, g.GenerateTeams(d, pool, opts(d, without(selected, d)))...)
		}
	case len(supports) > 0:
		res := g.GenerateTeamsForSupport(supports[0], pool, opts(supports[0], supports[1:]))
		candidates = FilterContainingAll(res.All(), supports)
	default:
		for _, id := range pool {
			u, ok := g.data.Unit(id)
			if !ok || !u.PrimaryRole().IsDamage() {
				continue
			}
			candidates = append(candidates, g.GenerateTeams(id, pool, opts(id, nil))...)
		}
	}

	rec.Candidates = len(candidates)
	rec.Teams = g.Rank(candidates, mode, DisplayCap(view))
	if len(rec.Teams) == 0 {
		rec.Reason = ReasonNoValidTeams
	}
	return rec
}

// Reconstruct rebuilds a scored team from its 4 unit ids, as stored by a
// saved or shared team. Unknown ids or sets that cannot satisfy the role
// invariants return false.
func (g *Generator) Reconstruct(ids []string, opts Options) (*models.GeneratedTeam, bool) {
	if len(ids) != models.TeamSize {
		return nil, false
	}
	mode := opts.Mode
	if !mode.Valid() {
		mode = models.DefaultMode
	}
	units := make([]*models.Unit, 0, models.TeamSize)
	for _, id := range ids {
		u, ok := g.data.Unit(id)
		if !ok {
			return nil, false
		}
		units = append(units, u)
	}
	if sharesBase(units) {
		return nil, false
	}
	members, ok := assignRoles(units, "")
	if !ok {
		return nil, false
	}
	focalID := g.CanonicalPrimaryDPS(members[:], mode)
	orderMembers(&members, focalID)
	focal, _ := g.data.Unit(focalID)

	comp := composition.Select(focal, opts.CompositionID)
	compID := ""
	if comp != nil {
		compID = comp.ID
	}
	session := g.scorer.Session(synergy.Options{
		Compositions: map[string]string{focalID: compID},
		Investments:  opts.Investments,
	})
	syn := session.Team(members, focalID, mode)
	t := g.build(members, focalID, comp, syn, mode)
	return &t, true
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
