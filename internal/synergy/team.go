package synergy

import (
	"fmt"
	"math"

	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/tierscore"
)

// CuratedBonus is added to the synergy score of a team that exactly matches a
// hand-picked composition team.
const CuratedBonus = 8.0

// CuratedMatch identifies the curated team a generated team matches.
type CuratedMatch struct {
	OwnerID       string           `json:"owner_id"`
	CompositionID string           `json:"composition_id"`
	Name          string           `json:"name"`
	Rating        models.Rating    `json:"rating"`
	Structure     models.Structure `json:"structure,omitempty"`
}

// TeamSynergy is the scored breakdown of a resolved 4-unit team.
type TeamSynergy struct {
	Score         float64               `json:"score"`
	Rating        models.Rating         `json:"rating"`
	PairMean      float64               `json:"pair_mean"`
	TierScore     float64               `json:"tier_score"`
	TeamTier      models.Tier           `json:"team_tier"`
	DualCarry     bool                  `json:"dual_carry"`
	Curated       *CuratedMatch         `json:"curated,omitempty"`
	Reasoning     []string              `json:"reasoning"`
	Contributions []models.Contribution `json:"contributions"`
	Breakdown     []string              `json:"breakdown"`
	Insights      []string              `json:"insights,omitempty"`
}

// Team scores members in mode. primaryID anchors single-carry teams; with two
// damage members both carries are treated symmetrically: each support is
// averaged against both carries and the carry pair itself joins the mean.
func (s *Session) Team(members [models.TeamSize]models.TeamMember, primaryID string, mode models.Mode) TeamSynergy {
	var carries, supports []models.TeamMember
	for _, m := range members {
		if m.Role.IsDamage() {
			carries = append(carries, m)
		} else {
			supports = append(supports, m)
		}
	}

	ts := TeamSynergy{}
	contrib := make(map[string]models.Contribution, models.TeamSize)
	var terms []float64

	if len(carries) == 2 {
		ts.DualCarry = true
		x, y := carries[0].UnitID, carries[1].UnitID
		for _, sup := range supports {
			px := s.Bidirectional(sup.UnitID, x)
			py := s.Bidirectional(sup.UnitID, y)
			avg := (px.Score + py.Score) / 2
			terms = append(terms, avg)
			contrib[sup.UnitID] = models.Contribution{
				UnitID: sup.UnitID,
				Role:   sup.Role,
				Rating: ScoreToRating(avg),
				Score:  avg,
				Reason: firstNonEmpty(px.Reason(), py.Reason()),
			}
			ts.Reasoning = append(ts.Reasoning, pairLine(px), pairLine(py))
		}
		carryPair := s.Bidirectional(x, y)
		terms = append(terms, carryPair.Score)
		ts.Reasoning = append(ts.Reasoning, pairLine(carryPair))

		for _, c := range carries {
			other := y
			if c.UnitID == y {
				other = x
			}
			sum := s.Bidirectional(c.UnitID, other).Score
			for _, sup := range supports {
				sum += s.Bidirectional(c.UnitID, sup.UnitID).Score
			}
			avg := sum / float64(len(supports)+1)
			contrib[c.UnitID] = models.Contribution{
				UnitID: c.UnitID,
				Role:   c.Role,
				Rating: ScoreToRating(avg),
				Score:  avg,
				Reason: "Shares support resources with " + other,
			}
		}
	} else {
		anchor := primaryID
		if anchor == "" || !containsMember(members, anchor) {
			anchor = members[0].UnitID
			if len(carries) > 0 {
				anchor = carries[0].UnitID
			}
		}
		for _, m := range members {
			if m.UnitID == anchor {
				continue
			}
			ps := s.Bidirectional(anchor, m.UnitID)
			terms = append(terms, ps.Score)
			contrib[m.UnitID] = models.Contribution{
				UnitID: m.UnitID,
				Role:   m.Role,
				Rating: ps.Rating,
				Score:  ps.Score,
				Reason: ps.Reason(),
			}
			ts.Reasoning = append(ts.Reasoning, pairLine(ps))
		}
		anchorRole := models.RoleDPS
		for _, m := range members {
			if m.UnitID == anchor {
				anchorRole = m.Role
			}
		}
		mean := average(terms)
		contrib[anchor] = models.Contribution{
			UnitID: anchor,
			Role:   anchorRole,
			Rating: ScoreToRating(mean),
			Score:  mean,
			Reason: "Team anchor",
		}
	}

	ts.PairMean = average(terms)

	tiers := make([]models.Tier, 0, models.TeamSize)
	for _, m := range members {
		tiers = append(tiers, s.data.BestTier(m.UnitID, mode))
	}
	ts.TierScore, ts.TeamTier = tierscore.TeamAverage(tiers)

	ts.Curated = s.FindCurated(members, primaryID)

	ts.Score = ts.PairMean
	if ts.Curated != nil {
		ts.Score += CuratedBonus
	}
	ts.Score = math.Max(0, math.Min(100, ts.Score))
	ts.Rating = ScoreToRating(ts.Score)

	for _, m := range members {
		ts.Contributions = append(ts.Contributions, contrib[m.UnitID])
	}

	ts.Breakdown = append(ts.Breakdown, fmt.Sprintf("Pair synergy %.1f", ts.PairMean))
	ts.Breakdown = append(ts.Breakdown, fmt.Sprintf("Tier composite %.1f (%s in %s)", ts.TierScore, ts.TeamTier, mode.Label()))
	if ts.Curated != nil {
		ts.Breakdown = append(ts.Breakdown, fmt.Sprintf("Curated team bonus +%.0f (%s)", CuratedBonus, ts.Curated.Name))
	}

	if ts.DualCarry {
		ts.Insights = append(ts.Insights, fmt.Sprintf("Dual-carry: %s and %s share support resources", carries[0].UnitID, carries[1].UnitID))
	}
	ts.Insights = append(ts.Insights, s.avoidWarnings(members)...)
	return ts
}

// FindCurated returns the curated team whose unit set equals members. The
// primary unit's compositions are checked first, then the other members in slot order.
func (s *Session) FindCurated(members [models.TeamSize]models.TeamMember, primaryID string) *CuratedMatch {
	ids := make([]string, 0, models.TeamSize)
	for _, m := range members {
		ids = append(ids, m.UnitID)
	}
	key := models.TeamKey(ids)

	order := make([]string, 0, models.TeamSize)
	if primaryID != "" {
		order = append(order, primaryID)
	}
	for _, id := range ids {
		if id != primaryID {
			order = append(order, id)
		}
	}

	for _, id := range order {
		u, ok := s.data.Unit(id)
		if !ok {
			continue
		}
		for _, comp := range u.Compositions {
			for _, ct := range comp.Teams {
				if len(ct.Units) != models.TeamSize || models.TeamKey(ct.Units) != key {
					continue
				}
				name := ct.Name
				if name == "" {
					name = comp.Name
				}
				return &CuratedMatch{
					OwnerID:       u.ID,
					CompositionID: comp.ID,
					Name:          name,
					Rating:        ct.Rating,
					Structure:     ct.Structure,
				}
			}
		}
	}
	return nil
}

func (s *Session) avoidWarnings(members [models.TeamSize]models.TeamMember) []string {
	var out []string
	for _, a := range members {
		u, ok := s.data.Unit(a.UnitID)
		if !ok {
			continue
		}
		for _, b := range members {
			if a.UnitID == b.UnitID {
				continue
			}
			if avoid, ok := u.Avoids(b.UnitID); ok {
				line := fmt.Sprintf("%s avoids %s", a.UnitID, b.UnitID)
				if avoid.Reason != "" {
					line += ": " + avoid.Reason
				}
				out = append(out, line)
			}
		}
	}
	return out
}

func pairLine(ps PairScore) string {
	return fmt.Sprintf("%s <-> %s: %s (%.1f)", ps.A, ps.B, ps.Rating, ps.Score)
}

func containsMember(members [models.TeamSize]models.TeamMember, id string) bool {
	for _, m := range members {
		if m.UnitID == id {
			return true
		}
	}
	return false
}

func average(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
