// Package testhelpers provides a small fixed dataset shared by package tests.
package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/models"
)

// FixtureVersion is the version string of the fixture dataset.
const FixtureVersion = "fixture-1"

// Damage dealers.
const (
	Acheron = "acheron"
	Seele   = "seele"
	Kafka   = "kafka"
	Topaz   = "topaz" // Sub-DPS or Amplifier
)

// Amplifiers.
const (
	Pela       = "pela"
	SilverWolf = "silverwolf"
	Sparkle    = "sparkle"
	Robin      = "robin"
	Bronya     = "bronya"
	RuanMei    = "ruanmei"
	Tingyun    = "tingyun"
)

// Sustains and the two forms of March 7th.
const (
	Aventurine = "aventurine"
	FuXuan     = "fuxuan"
	March7     = "march7"
	March7Hunt = "march7-hunt"
)

// Light cones referenced by the fixture.
const (
	LCAlongThePassingShore = "along-the-passing-shore"
	LCGoodNight            = "good-night-and-sleep-well"
)

func rec(id string, r models.Rating, reason string) models.TeammateRec {
	return models.TeammateRec{ID: id, Rating: r, Reason: reason}
}

func ratingPtr(r models.Rating) *models.Rating { return &r }

// Units returns a fresh copy of the fixture units in dataset order.
func Units() []models.Unit {
	return []models.Unit{
		{
			ID: Acheron, Name: "Acheron", Element: "Lightning", Path: "Nihility", Rarity: 5,
			Roles:  []models.Role{models.RoleDPS},
			Labels: []string{"debuff"},
			BaseTeammates: map[models.Role][]models.TeammateRec{
				models.RoleAmplifier: {
					rec(Pela, models.RatingSPlus, "Defense shred and debuff stacks"),
					rec(SilverWolf, models.RatingS, "Implant and defense shred"),
					rec(Sparkle, models.RatingA, "Action advance"),
					rec(Robin, models.RatingB, ""),
				},
				models.RoleSustain: {
					{
						ID: Aventurine, Rating: models.RatingS, Reason: "Shields and follow-up debuffs",
						TheirInvestmentModifiers: []models.InvestmentModifier{
							{Eidolon: 2, Modifier: 1, Reason: "E2 adds a stack per ultimate"},
						},
					},
					rec(FuXuan, models.RatingS, "Crit rate"),
				},
			},
			Compositions: []models.Composition{
				{
					ID: "acheron-nihility", Name: "Double Nihility", IsPrimary: true,
					PathRequirements: []models.PathRequirement{{Count: 2, Path: "Nihility", Reason: "Trace bonus"}},
					WeakModes:        []models.Mode{models.ModePF},
					Teams: []models.CuratedTeam{{
						Name:      "Acheron Nihility",
						Units:     []string{Acheron, Pela, SilverWolf, Aventurine},
						Rating:    models.RatingSPlus,
						Structure: models.StructureHypercarry,
					}},
				},
				{
					ID: "acheron-harmony", Name: "Harmony",
					TeammateOverrides: map[models.Role][]models.TeammateOverride{
						models.RoleAmplifier: {
							{ID: Sparkle, Rating: ratingPtr(models.RatingSPlus), Reason: "Speed tuning"},
							{ID: Pela, Excluded: true},
							{ID: RuanMei, Rating: ratingPtr(models.RatingS), Reason: "Break efficiency"},
						},
					},
				},
			},
			Investment: models.InvestmentTable{
				Eidolons: []models.EidolonPenalty{
					{Level: 1, Penalty: 10},
					{Level: 2, Penalty: 15, SynergyModifiers: []models.SynergyModifier{
						{TeammateID: Sparkle, Modifier: 1, Reason: "E2 removes the Nihility requirement"},
					}},
				},
				LightCones: []models.LightConePenalty{
					{ID: LCAlongThePassingShore, Name: "Along the Passing Shore", S1Penalty: 0, S5Penalty: 0},
					{ID: LCGoodNight, Name: "Good Night and Sleep Well", S1Penalty: 20, S5Penalty: 0},
				},
			},
		},
		{
			ID: Seele, Name: "Seele", Element: "Quantum", Path: "Hunt", Rarity: 5,
			Roles: []models.Role{models.RoleDPS},
			BaseTeammates: map[models.Role][]models.TeammateRec{
				models.RoleSupportDPS: {rec(Topaz, models.RatingB, "")},
				models.RoleAmplifier: {
					rec(SilverWolf, models.RatingSPlus, "Quantum weakness implant"),
					rec(Sparkle, models.RatingS, "Action advance"),
					rec(Robin, models.RatingA, ""),
				},
				models.RoleSustain: {
					rec(FuXuan, models.RatingSPlus, "Quantum crit rate"),
					rec(Aventurine, models.RatingA, ""),
				},
			},
		},
		{
			ID: Kafka, Name: "Kafka", Element: "Lightning", Path: "Nihility", Rarity: 5,
			Roles:  []models.Role{models.RoleDPS},
			Labels: []string{"dot"},
			BaseTeammates: map[models.Role][]models.TeammateRec{
				models.RoleAmplifier: {rec(Robin, models.RatingS, "")},
				models.RoleSustain:   {rec(FuXuan, models.RatingA, "")},
			},
			Restrictions: models.Restrictions{
				Avoid: []models.AvoidEntry{{ID: Aventurine, Reason: "No energy for DoT detonation"}},
			},
		},
		{
			ID: Topaz, Name: "Topaz", Element: "Fire", Path: "Hunt", Rarity: 5,
			Roles:  []models.Role{models.RoleSupportDPS, models.RoleAmplifier},
			Labels: []string{"follow-up"},
			BaseTeammates: map[models.Role][]models.TeammateRec{
				models.RoleDPS:       {rec(Seele, models.RatingA, "")},
				models.RoleAmplifier: {rec(Robin, models.RatingSPlus, "Follow-up crit damage")},
			},
		},
		amplifier(Pela, "Pela", "Ice", "Nihility", 4, rec(Acheron, models.RatingSPlus, "Debuff stacks")),
		amplifier(SilverWolf, "Silver Wolf", "Quantum", "Nihility", 5,
			rec(Seele, models.RatingSPlus, "Quantum weakness"), rec(Acheron, models.RatingS, "")),
		amplifier(Sparkle, "Sparkle", "Quantum", "Harmony", 5, rec(Seele, models.RatingS, "")),
		amplifier(Robin, "Robin", "Physical", "Harmony", 5, rec(Topaz, models.RatingS, "")),
		amplifier(Bronya, "Bronya", "Wind", "Harmony", 5),
		amplifier(RuanMei, "Ruan Mei", "Ice", "Harmony", 5),
		amplifier(Tingyun, "Tingyun", "Lightning", "Harmony", 4),
		{
			ID: Aventurine, Name: "Aventurine", Element: "Imaginary", Path: "Preservation", Rarity: 5,
			Roles: []models.Role{models.RoleSustain},
			BaseTeammates: map[models.Role][]models.TeammateRec{
				models.RoleDPS: {rec(Acheron, models.RatingSPlus, "Follow-up debuffs")},
			},
		},
		{
			ID: FuXuan, Name: "Fu Xuan", Element: "Quantum", Path: "Preservation", Rarity: 5,
			Roles: []models.Role{models.RoleSustain},
			BaseTeammates: map[models.Role][]models.TeammateRec{
				models.RoleDPS: {rec(Seele, models.RatingSPlus, "")},
			},
		},
		{
			ID: March7, Name: "March 7th", Element: "Ice", Path: "Preservation", Rarity: 4,
			Roles: []models.Role{models.RoleSustain},
		},
		{
			ID: March7Hunt, BaseID: March7, Name: "March 7th (Hunt)", Element: "Imaginary", Path: "Hunt", Rarity: 4,
			Roles: []models.Role{models.RoleSupportDPS, models.RoleAmplifier},
		},
	}
}

func amplifier(id, name, element, path string, rarity int, wants ...models.TeammateRec) models.Unit {
	u := models.Unit{
		ID: id, Name: name, Element: element, Path: path, Rarity: rarity,
		Roles: []models.Role{models.RoleAmplifier},
	}
	if len(wants) > 0 {
		u.BaseTeammates = map[models.Role][]models.TeammateRec{models.RoleDPS: wants}
	}
	return u
}

func tiers(moc models.Tier, role models.Role) map[models.Mode]map[models.Role]models.Tier {
	return map[models.Mode]map[models.Role]models.Tier{
		models.ModeMoC: {role: moc},
	}
}

// Tiers returns the fixture tier table. Only Acheron and Seele carry Pure
// Fiction and Apocalyptic Shadow entries; everything else falls back there.
func Tiers() models.TierData {
	return models.TierData{
		Acheron: {
			models.ModeMoC: {models.RoleDPS: models.TierMinus1},
			models.ModePF:  {models.RoleDPS: models.Tier1},
			models.ModeAS:  {models.RoleDPS: models.Tier0},
		},
		Seele: {
			models.ModeMoC: {models.RoleDPS: models.Tier1},
			models.ModePF:  {models.RoleDPS: models.Tier3},
			models.ModeAS:  {models.RoleDPS: models.Tier1Half},
		},
		Topaz: {
			models.ModeMoC: {models.RoleSupportDPS: models.Tier0Half, models.RoleAmplifier: models.Tier1},
		},
		Kafka:      tiers(models.Tier0, models.RoleDPS),
		Pela:       tiers(models.Tier0, models.RoleAmplifier),
		SilverWolf: tiers(models.Tier0Half, models.RoleAmplifier),
		Sparkle:    tiers(models.Tier0, models.RoleAmplifier),
		Robin:      tiers(models.TierMinusHalf, models.RoleAmplifier),
		Bronya:     tiers(models.Tier0Half, models.RoleAmplifier),
		RuanMei:    tiers(models.TierMinusHalf, models.RoleAmplifier),
		Tingyun:    tiers(models.Tier1Half, models.RoleAmplifier),
		Aventurine: tiers(models.TierMinusHalf, models.RoleSustain),
		FuXuan:     tiers(models.Tier1, models.RoleSustain),
		March7:     tiers(models.Tier3, models.RoleSustain),
		March7Hunt: tiers(models.Tier1Half, models.RoleSupportDPS),
	}
}

// Dataset builds the fixture dataset.
func Dataset(t testing.TB) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(FixtureVersion, Units(), Tiers())
	require.NoError(t, err)
	return ds
}

// AllIDs returns every fixture unit id in dataset order.
func AllIDs() []string {
	units := Units()
	ids := make([]string, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.ID)
	}
	return ids
}
