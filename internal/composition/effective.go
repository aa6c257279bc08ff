package composition

import (
	"github.com/meur/teamforge/internal/models"
)

// EffectiveOptions selects the composition and the roster used for modifiers.
type EffectiveOptions struct {
	CompositionID string
	Investments   models.InvestmentSource
}

// EffectiveRating is a composition-merged rating after investment modifiers.
type EffectiveRating struct {
	UnitID     string                     `json:"unit_id"`
	TeammateID string                     `json:"teammate_id"`
	Role       models.Role                `json:"role"`
	Base       models.Rating              `json:"base"`
	Rating     models.Rating              `json:"rating"`
	Reason     string                     `json:"reason,omitempty"`
	Applied    *models.InvestmentModifier `json:"applied,omitempty"`
	Source     Source                     `json:"source"`
}

// EffectiveRating resolves unitID's rating of teammateID and shifts it by the
// strongest modifier met by unitID's own investment.
func (r *Resolver) EffectiveRating(unitID, teammateID string, opts EffectiveOptions) (EffectiveRating, bool) {
	u, ok := r.units.Unit(unitID)
	if !ok {
		return EffectiveRating{}, false
	}
	res := TeammatesFor(u, opts.CompositionID)
	tm, ok := res.Find(teammateID)
	if !ok {
		return EffectiveRating{}, false
	}
	return r.effective(u, tm, opts.Investments), true
}

// EffectiveTeammates returns every resolved teammate of unitID with investment applied.
func (r *Resolver) EffectiveTeammates(unitID string, opts EffectiveOptions) []EffectiveRating {
	u, ok := r.units.Unit(unitID)
	if !ok {
		return nil
	}
	res := TeammatesFor(u, opts.CompositionID)
	var out []EffectiveRating
	for _, tm := range res.All() {
		out = append(out, r.effective(u, tm, opts.Investments))
	}
	return out
}

func (r *Resolver) effective(u *models.Unit, tm Teammate, investments models.InvestmentSource) EffectiveRating {
	inv := models.InvestmentOf(investments, u.ID)
	mods := append([]models.InvestmentModifier(nil), tm.Modifiers...)
	mods = append(mods, EidolonSynergyModifiers(u, tm.ID)...)

	rating, applied := ApplyModifiers(tm.Rating, mods, inv)
	return EffectiveRating{
		UnitID:     u.ID,
		TeammateID: tm.ID,
		Role:       tm.Role,
		Base:       tm.Rating,
		Rating:     rating,
		Reason:     tm.Reason,
		Applied:    applied,
		Source:     tm.Source,
	}
}

// EidolonSynergyModifiers converts the synergy modifiers declared on u's own
// eidolon table for teammateID into investment modifiers.
func EidolonSynergyModifiers(u *models.Unit, teammateID string) []models.InvestmentModifier {
	var out []models.InvestmentModifier
	for _, ep := range u.Investment.Eidolons {
		for _, sm := range ep.SynergyModifiers {
			if sm.TeammateID != teammateID {
				continue
			}
			out = append(out, models.InvestmentModifier{
				Eidolon:  ep.Level,
				Modifier: sm.Modifier,
				Reason:   sm.Reason,
			})
		}
	}
	return out
}

// ApplyModifiers shifts base by the single met modifier of greatest magnitude.
// Modifiers do not stack; on equal magnitude the first declared wins.
func ApplyModifiers(base models.Rating, mods []models.InvestmentModifier, inv *models.UserCharacterInvestment) (models.Rating, *models.InvestmentModifier) {
	var best *models.InvestmentModifier
	for i := range mods {
		m := mods[i]
		if m.Modifier == 0 || !m.MetBy(inv) {
			continue
		}
		if best == nil || abs(m.Modifier) > abs(best.Modifier) {
			best = &m
		}
	}
	if best == nil {
		return base, nil
	}
	return base.Shift(best.Modifier), best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
