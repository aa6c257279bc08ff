package tierscore

import (
	"math"

	"github.com/meur/teamforge/internal/models"
)

// UnitLookup is the slice of the dataset the score model needs.
type UnitLookup interface {
	Unit(id string) (*models.Unit, bool)
	BestTier(id string, mode models.Mode) models.Tier
}

// Effective is a unit's baseline score adjusted for the player's investment.
type Effective struct {
	UnitID         string      `json:"unit_id"`
	Mode           models.Mode `json:"mode"`
	BaseTier       models.Tier `json:"base_tier"`
	BaseScore      float64     `json:"base_score"`
	EidolonPenalty float64     `json:"eidolon_penalty"`
	LightConeBonus float64     `json:"light_cone_bonus"`
	Score          float64     `json:"score"`
	Tier           models.Tier `json:"tier"`
	Progress       Progress    `json:"progress"`
}

// EffectiveScore adjusts the unit's best tier in mode by missing eidolons and
// by its light cone. Unknown units fall back to a neutral T2 baseline.
func EffectiveScore(lookup UnitLookup, id string, mode models.Mode, inv *models.UserCharacterInvestment) Effective {
	baseTier := lookup.BestTier(id, mode)
	e := Effective{
		UnitID:    id,
		Mode:      mode,
		BaseTier:  baseTier,
		BaseScore: TierToScore(baseTier),
	}

	if u, ok := lookup.Unit(id); ok {
		e.EidolonPenalty = MissingEidolonPenalty(u.Investment, eidolonOf(inv)) * EidolonScale
		e.LightConeBonus = LightConeBonus(u.Investment, inv)
	}

	e.Score = e.BaseScore - e.EidolonPenalty + e.LightConeBonus
	e.Tier = ScoreToTier(e.Score)
	e.Progress = ProgressToNextTier(e.Score, e.Tier)
	return e
}

// MissingEidolonPenalty sums the tier-point penalties of every eidolon above owned.
func MissingEidolonPenalty(table models.InvestmentTable, owned int) float64 {
	total := 0.0
	for _, ep := range table.Eidolons {
		if ep.Level > owned {
			total += ep.Penalty
		}
	}
	return total
}

// LightConeBonus returns (40 - |penalty|) * LightConeScale for the equipped
// light cone. An empty slot, or a light cone missing from the table, uses the
// 40-point baseline and contributes nothing.
func LightConeBonus(table models.InvestmentTable, inv *models.UserCharacterInvestment) float64 {
	penalty := NoLightConePenalty
	if inv != nil && inv.LightConeID != "" {
		for _, lc := range table.LightCones {
			if lc.ID == inv.LightConeID {
				penalty = InterpolateLightConePenalty(lc.S1Penalty, lc.S5Penalty, inv.Superimposition)
				break
			}
		}
	}
	return (NoLightConePenalty - math.Abs(penalty)) * LightConeScale
}

// InterpolateLightConePenalty linearly interpolates between the S1 and S5
// penalties. Superimposition is clamped to 1..5.
func InterpolateLightConePenalty(s1, s5 float64, superimposition int) float64 {
	if superimposition < 1 {
		superimposition = 1
	}
	if superimposition > 5 {
		superimposition = 5
	}
	return s1 + (s5-s1)/4*float64(superimposition-1)
}

func eidolonOf(inv *models.UserCharacterInvestment) int {
	if inv == nil {
		return 0
	}
	return inv.Eidolon
}
