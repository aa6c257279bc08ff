package synergy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/synergy"
	"github.com/meur/teamforge/internal/testhelpers"
)

func TestRatingBands(t *testing.T) {
	for _, r := range models.AllRatings {
		assert.Equal(t, r, synergy.ScoreToRating(synergy.RatingToScore(r)), r.String())
	}
	prev := synergy.ScoreToRating(100)
	for score := 100.0; score >= -50; score -= 0.5 {
		got := synergy.ScoreToRating(score)
		require.False(t, got.Better(prev), "rating improved at %.1f", score)
		prev = got
	}
	assert.Equal(t, models.RatingD, prev)
}

func TestBidirectionalIsSymmetric(t *testing.T) {
	ds := testhelpers.Dataset(t)
	scorer := synergy.NewScorer(ds)
	optsList := []synergy.Options{
		{},
		{Compositions: map[string]string{testhelpers.Acheron: "acheron-harmony"}},
		{Investments: models.Roster{
			testhelpers.Acheron: {UnitID: testhelpers.Acheron, Ownership: models.OwnershipOwned, Eidolon: 2},
		}},
	}

	all := testhelpers.AllIDs()
	for _, opts := range optsList {
		session := scorer.Session(opts)
		for _, a := range all {
			for _, b := range all {
				ab := scorer.Bidirectional(a, b, opts)
				ba := scorer.Bidirectional(b, a, opts)
				require.Equal(t, ab.Score, ba.Score, "%s/%s", a, b)
				require.Equal(t, ab.Score, session.Bidirectional(b, a).Score, "%s/%s cached", a, b)
				require.Equal(t, a, session.Bidirectional(a, b).A)
			}
		}
	}
}

func TestDirectional(t *testing.T) {
	ds := testhelpers.Dataset(t)
	s := synergy.NewScorer(ds).Session(synergy.Options{})

	d := s.Directional(testhelpers.Seele, testhelpers.SilverWolf)
	assert.True(t, d.Found)
	assert.Equal(t, models.RatingSPlus, d.Rating)
	assert.Equal(t, 100.0, d.Score)

	d = s.Directional(testhelpers.Acheron, testhelpers.Kafka)
	assert.False(t, d.Found)
	assert.Zero(t, d.Score)

	d = s.Directional(testhelpers.Kafka, testhelpers.Aventurine)
	assert.True(t, d.Avoided)
	assert.Equal(t, synergy.AvoidPenalty, d.Score)
	assert.Equal(t, "No energy for DoT detonation", d.Reason)

	ps := s.Bidirectional(testhelpers.Aventurine, testhelpers.Kafka)
	assert.Equal(t, synergy.AvoidPenalty/2, ps.Score)
	assert.Equal(t, models.RatingD, ps.Rating)
}

func TestTeamDualCarryContributions(t *testing.T) {
	ds := testhelpers.Dataset(t)
	scorer := synergy.NewScorer(ds)
	s := scorer.Session(synergy.Options{})

	members := [models.TeamSize]models.TeamMember{
		{UnitID: testhelpers.Seele, Role: models.RoleDPS},
		{UnitID: testhelpers.Topaz, Role: models.RoleSupportDPS},
		{UnitID: testhelpers.Sparkle, Role: models.RoleAmplifier},
		{UnitID: testhelpers.FuXuan, Role: models.RoleSustain},
	}
	ts := s.Team(members, testhelpers.Seele, models.ModeMoC)
	require.True(t, ts.DualCarry)

	pair := func(a, b string) float64 { return scorer.Bidirectional(a, b, synergy.Options{}).Score }
	sparkle := (pair(testhelpers.Sparkle, testhelpers.Seele) + pair(testhelpers.Sparkle, testhelpers.Topaz)) / 2
	fuxuan := (pair(testhelpers.FuXuan, testhelpers.Seele) + pair(testhelpers.FuXuan, testhelpers.Topaz)) / 2
	carries := pair(testhelpers.Seele, testhelpers.Topaz)

	byID := map[string]models.Contribution{}
	for _, c := range ts.Contributions {
		byID[c.UnitID] = c
	}
	assert.InDelta(t, sparkle, byID[testhelpers.Sparkle].Score, 1e-9)
	assert.InDelta(t, fuxuan, byID[testhelpers.FuXuan].Score, 1e-9)
	assert.InDelta(t, (sparkle+fuxuan+carries)/3, ts.PairMean, 1e-9)
	assert.InDelta(t, 155.0/3, ts.PairMean, 1e-9)
	assert.Nil(t, ts.Curated)
	assert.Len(t, ts.Contributions, models.TeamSize)
}

func TestTeamCuratedBonus(t *testing.T) {
	ds := testhelpers.Dataset(t)
	s := synergy.NewScorer(ds).Session(synergy.Options{})

	members := [models.TeamSize]models.TeamMember{
		{UnitID: testhelpers.Acheron, Role: models.RoleDPS},
		{UnitID: testhelpers.Pela, Role: models.RoleAmplifier},
		{UnitID: testhelpers.SilverWolf, Role: models.RoleAmplifier},
		{UnitID: testhelpers.Aventurine, Role: models.RoleSustain},
	}
	ts := s.Team(members, testhelpers.Acheron, models.ModeMoC)

	require.NotNil(t, ts.Curated)
	assert.Equal(t, "Acheron Nihility", ts.Curated.Name)
	assert.Equal(t, "acheron-nihility", ts.Curated.CompositionID)
	assert.False(t, ts.DualCarry)
	assert.InDelta(t, 92.5, ts.PairMean, 1e-9)
	assert.Equal(t, 100.0, ts.Score, "pair mean plus curated bonus is clamped")
	assert.Equal(t, models.RatingSPlus, ts.Rating)
	assert.InDelta(t, 103.5, ts.TierScore, 1e-9)
	assert.Equal(t, models.TierMinusHalf, ts.TeamTier)
}

func TestTeamAvoidInsight(t *testing.T) {
	ds := testhelpers.Dataset(t)
	s := synergy.NewScorer(ds).Session(synergy.Options{})

	members := [models.TeamSize]models.TeamMember{
		{UnitID: testhelpers.Kafka, Role: models.RoleDPS},
		{UnitID: testhelpers.Robin, Role: models.RoleAmplifier},
		{UnitID: testhelpers.Bronya, Role: models.RoleAmplifier},
		{UnitID: testhelpers.Aventurine, Role: models.RoleSustain},
	}
	ts := s.Team(members, testhelpers.Kafka, models.ModeMoC)
	assert.Contains(t, ts.Insights, "kafka avoids aventurine: No energy for DoT detonation")
	assert.GreaterOrEqual(t, ts.Score, 0.0)
}
