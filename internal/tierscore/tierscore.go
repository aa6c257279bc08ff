// Package tierscore converts between tier labels and numeric scores and
// applies player investment to a unit's baseline score.
package tierscore

import (
	"math"

	"github.com/meur/teamforge/internal/models"
)

const (
	// EidolonScale converts eidolon tier-point penalties into score.
	EidolonScale = 0.35
	// LightConeScale converts light cone tier points into score.
	LightConeScale = 0.35
	// NoLightConePenalty is the penalty of an empty light cone slot.
	NoLightConePenalty = 40.0
	// TierPointScale is the score gained per tier point: scoreBonus = tierPoints * TierPointScale.
	TierPointScale = 0.35
)

// tierScores is the baseline score of each tier, indexed by models.Tier.
// Every value sits inside its own band on the unit scale, so
// ScoreToTier(TierToScore(t)) == t.
var tierScores = [...]float64{115, 106, 100, 93, 85, 75, 65, 55, 45, 35}

type threshold struct {
	tier models.Tier
	min  float64
}

// Scale is an ordered threshold table mapping scores to tiers.
type Scale struct {
	name       string
	thresholds []threshold
}

var (
	// UnitScale is used for investment-adjusted single-unit tiers.
	UnitScale = Scale{name: "unit", thresholds: []threshold{
		{models.TierMinus1, 110},
		{models.TierMinusHalf, 103},
		{models.Tier0, 97.5},
		{models.Tier0Half, 90},
		{models.Tier1, 80},
		{models.Tier1Half, 70},
		{models.Tier2, 60},
		{models.Tier3, 50},
		{models.Tier4, 40},
	}}

	// TeamScale is used when averaging four unit tier scores into a team tier.
	TeamScale = Scale{name: "team", thresholds: []threshold{
		{models.TierMinus1, 110},
		{models.TierMinusHalf, 103},
		{models.Tier0, 95},
		{models.Tier0Half, 85},
		{models.Tier1, 75},
		{models.Tier1Half, 65},
		{models.Tier2, 55},
		{models.Tier3, 45},
		{models.Tier4, 35},
	}}
)

// Tier returns the first tier whose threshold score reaches; anything below the
// last threshold is T5.
func (s Scale) Tier(score float64) models.Tier {
	for _, th := range s.thresholds {
		if score >= th.min {
			return th.tier
		}
	}
	return models.Tier5
}

// Min returns the lowest score that still maps to t. T5 has no lower bound and
// reports the floor of its band, extrapolated from the two worst thresholds.
func (s Scale) Min(t models.Tier) float64 {
	for _, th := range s.thresholds {
		if th.tier == t {
			return th.min
		}
	}
	n := len(s.thresholds)
	last, prev := s.thresholds[n-1].min, s.thresholds[n-2].min
	return last - (prev - last)
}

// Name identifies the scale.
func (s Scale) Name() string { return s.name }

// TierToScore returns the baseline score of t. Unknown tiers score as T2.
func TierToScore(t models.Tier) float64 {
	if !t.Valid() {
		t = models.DefaultTier
	}
	return tierScores[t]
}

// ScoreToTier maps a single-unit score onto the unit scale.
func ScoreToTier(score float64) models.Tier {
	return UnitScale.Tier(score)
}

// TeamScoreToTier maps an averaged team score onto the team scale.
func TeamScoreToTier(score float64) models.Tier {
	return TeamScale.Tier(score)
}

// TeamAverage averages the baseline scores of tiers and maps the result onto the team scale.
func TeamAverage(tiers []models.Tier) (float64, models.Tier) {
	if len(tiers) == 0 {
		return TierToScore(models.DefaultTier), models.DefaultTier
	}
	sum := 0.0
	for _, t := range tiers {
		sum += TierToScore(t)
	}
	avg := sum / float64(len(tiers))
	return avg, TeamScoreToTier(avg)
}

// Progress describes how far a score is from the next better tier.
type Progress struct {
	Current          models.Tier `json:"current"`
	Next             models.Tier `json:"next"`
	HasNext          bool        `json:"has_next"`
	ScoreNeeded      float64     `json:"score_needed"`
	TierPointsNeeded float64     `json:"tier_points_needed"`
	Percent          float64     `json:"percent"`
}

// ProgressToNextTier computes the points needed to cross from current into
// the next better tier on the unit scale, in both score space and tier-point space.
func ProgressToNextTier(score float64, current models.Tier) Progress {
	p := Progress{Current: current, Next: current}
	next, ok := current.Next()
	if !ok {
		p.Percent = 100
		return p
	}
	p.Next, p.HasNext = next, true

	lower := UnitScale.Min(current)
	upper := UnitScale.Min(next)
	p.ScoreNeeded = math.Max(0, upper-score)
	p.TierPointsNeeded = p.ScoreNeeded / TierPointScale

	if span := upper - lower; span > 0 {
		p.Percent = clamp((score-lower)/span*100, 0, 100)
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
