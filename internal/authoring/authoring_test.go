package authoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/teamforge/internal/apperrors"
	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/models"
)

func rating(r models.Rating) *models.Rating { return &r }

// three units: carry wants amp (S) and healer (A); amp lists carry at C;
// healer lists nobody.
func smallDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	units := []models.Unit{
		{
			ID: "carry", Name: "Carry", Path: "Hunt", Rarity: 5,
			Roles: []models.Role{models.RoleDPS},
			BaseTeammates: map[models.Role][]models.TeammateRec{
				models.RoleAmplifier: {{ID: "amp", Rating: models.RatingS}},
				models.RoleSustain:   {{ID: "healer", Rating: models.RatingA}},
			},
		},
		{
			ID: "amp", Name: "Amp", Path: "Harmony", Rarity: 5,
			Roles: []models.Role{models.RoleAmplifier},
			BaseTeammates: map[models.Role][]models.TeammateRec{
				models.RoleDPS: {{ID: "carry", Rating: models.RatingC}},
			},
		},
		{
			ID: "healer", Name: "Healer", Path: "Abundance", Rarity: 4,
			Roles: []models.Role{models.RoleSustain},
		},
	}
	ds, err := dataset.New("test", units, nil)
	require.NoError(t, err)
	return ds
}

func TestSuggestReciprocals(t *testing.T) {
	ds := smallDataset(t)

	got := SuggestReciprocals(ds)
	require.Len(t, got, 2)

	update := got[0]
	assert.Equal(t, SuggestUpdate, update.Kind)
	assert.Equal(t, "amp", update.UnitID)
	assert.Equal(t, "carry", update.TeammateID)
	assert.Equal(t, models.RoleDPS, update.Role)
	assert.Equal(t, models.RatingS, update.Rating)
	require.NotNil(t, update.Current)
	assert.Equal(t, models.RatingC, *update.Current)

	add := got[1]
	assert.Equal(t, SuggestAdd, add.Kind)
	assert.Equal(t, "healer", add.UnitID)
	assert.Equal(t, "carry", add.TeammateID)
	assert.Equal(t, models.RatingA, add.Rating)
	assert.Nil(t, add.Current)
}

func TestSuggestReciprocals_SmallGapIsIgnored(t *testing.T) {
	units := []models.Unit{
		{ID: "a", Name: "A", Rarity: 5, Roles: []models.Role{models.RoleDPS},
			BaseTeammates: map[models.Role][]models.TeammateRec{models.RoleAmplifier: {{ID: "b", Rating: models.RatingS}}}},
		{ID: "b", Name: "B", Rarity: 5, Roles: []models.Role{models.RoleAmplifier},
			BaseTeammates: map[models.Role][]models.TeammateRec{models.RoleDPS: {{ID: "a", Rating: models.RatingA}}}},
	}
	ds, err := dataset.New("test", units, nil)
	require.NoError(t, err)

	assert.Empty(t, SuggestReciprocals(ds))
}

func TestReview_AcceptSkipApply(t *testing.T) {
	ds := smallDataset(t)
	review := NewReview(SuggestReciprocals(ds))
	require.Len(t, review.Pending(), 2)

	require.NoError(t, review.Skip("amp>carry"))
	require.NoError(t, review.Accept("healer>carry", &Edit{Rating: rating(models.RatingS)}))

	assert.Empty(t, review.Pending())
	assert.Equal(t, DecisionSkipped, review.Decision("amp>carry"))
	assert.Equal(t, DecisionAccepted, review.Decision("healer>carry"))

	patched := review.Apply(ds)
	require.Len(t, patched, 1)
	healer := patched[0]
	assert.Equal(t, "healer", healer.ID)
	require.Len(t, healer.BaseTeammates[models.RoleDPS], 1)
	assert.Equal(t, "carry", healer.BaseTeammates[models.RoleDPS][0].ID)
	assert.Equal(t, models.RatingS, healer.BaseTeammates[models.RoleDPS][0].Rating)

	// the dataset is untouched
	orig, _ := ds.Unit("healer")
	assert.Empty(t, orig.BaseTeammates[models.RoleDPS])
}

func TestReview_ApplyUpdateAndRoleMove(t *testing.T) {
	ds := smallDataset(t)
	review := NewReview(SuggestReciprocals(ds))

	role := models.RoleSupportDPS
	require.NoError(t, review.Accept("amp>carry", &Edit{Role: &role}))

	patched := review.Apply(ds)
	require.Len(t, patched, 1)
	amp := patched[0]
	assert.Empty(t, amp.BaseTeammates[models.RoleDPS])
	require.Len(t, amp.BaseTeammates[models.RoleSupportDPS], 1)
	assert.Equal(t, models.RatingS, amp.BaseTeammates[models.RoleSupportDPS][0].Rating)

	orig, _ := ds.Unit("amp")
	require.Len(t, orig.BaseTeammates[models.RoleDPS], 1)
	assert.Equal(t, models.RatingC, orig.BaseTeammates[models.RoleDPS][0].Rating)
}

func TestReview_Errors(t *testing.T) {
	review := NewReview(SuggestReciprocals(smallDataset(t)))

	err := review.Accept("nobody>carry", nil)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = review.Skip("nobody>carry")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = review.Accept("amp>carry", &Edit{Rating: rating(models.Rating(42))})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, DecisionPending, review.Decision("amp>carry"))
}

func TestValidateUnit(t *testing.T) {
	ds := smallDataset(t)

	tests := []struct {
		name   string
		mutate func(u *models.Unit)
		fields []string
	}{
		{"valid", func(u *models.Unit) {}, nil},
		{"missing name and bad rarity", func(u *models.Unit) {
			u.Name = ""
			u.Rarity = 3
		}, []string{"name", "rarity"}},
		{"no roles", func(u *models.Unit) { u.Roles = nil }, []string{"roles"}},
		{"unknown teammate", func(u *models.Unit) {
			u.BaseTeammates[models.RoleSustain] = []models.TeammateRec{{ID: "ghost", Rating: models.RatingA}}
		}, []string{"baseTeammates.Sustain[0].id"}},
		{"recommended and avoided", func(u *models.Unit) {
			u.Restrictions.Avoid = []models.AvoidEntry{{ID: "healer"}}
		}, []string{"baseTeammates.Sustain[0].id"}},
		{"eidolon out of range", func(u *models.Unit) {
			u.Investment.Eidolons = []models.EidolonPenalty{{Level: 7, Penalty: 5}}
		}, []string{"investment.eidolons[0].level"}},
		{"s5 above s1", func(u *models.Unit) {
			u.Investment.LightCones = []models.LightConePenalty{{ID: "lc", S1Penalty: 5, S5Penalty: 10}}
		}, []string{"investment.lightCones[0].s5Penalty"}},
		{"two primary compositions", func(u *models.Unit) {
			u.Compositions = []models.Composition{{ID: "x", IsPrimary: true}, {ID: "y", IsPrimary: true}}
		}, []string{"compositions"}},
		{"curated team without the unit", func(u *models.Unit) {
			u.Compositions = []models.Composition{{ID: "x", Teams: []models.CuratedTeam{
				{Units: []string{"amp", "healer", "amp", "healer"}, Rating: models.RatingS},
			}}}
		}, []string{"compositions[0].teams[0].units"}},
		{"zero modifier", func(u *models.Unit) {
			u.BaseTeammates[models.RoleAmplifier][0].TheirInvestmentModifiers = []models.InvestmentModifier{{Eidolon: 1}}
		}, []string{"baseTeammates.Amplifier[0].theirInvestmentModifiers[0].modifier"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig, _ := ds.Unit("carry")
			u := cloneTeammates(orig)
			tt.mutate(u)

			errs := ValidateUnit(u, ds)
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestDiffCompositions(t *testing.T) {
	before := []models.Composition{
		{ID: "mono", Name: "Mono", IsPrimary: true,
			TeammateOverrides: map[models.Role][]models.TeammateOverride{
				models.RoleAmplifier: {{ID: "amp", Rating: rating(models.RatingS)}, {ID: "other", Excluded: true}},
			},
			PathRequirements: []models.PathRequirement{{Count: 2, Path: "Nihility"}},
		},
		{ID: "old"},
	}
	after := []models.Composition{
		{ID: "mono", Name: "Mono", IsPrimary: false,
			TeammateOverrides: map[models.Role][]models.TeammateOverride{
				models.RoleAmplifier: {{ID: "amp", Rating: rating(models.RatingSPlus)}},
			},
			PathRequirements: []models.PathRequirement{{Count: 2, Path: "Nihility"}},
			WeakModes:        []models.Mode{models.ModePF},
		},
		{ID: "new"},
	}

	diff := DiffCompositions(before, after)
	assert.Equal(t, []string{"new"}, diff.Added)
	assert.Equal(t, []string{"old"}, diff.Removed)
	require.Len(t, diff.Changed, 1)
	assert.Equal(t, "mono", diff.Changed[0].ID)
	assert.Equal(t, []Change{
		{Field: "isPrimary", Before: "true", After: "false"},
		{Field: "teammateOverrides.Amplifier.amp", Before: "S", After: "S+"},
		{Field: "teammateOverrides.Amplifier.other", Before: "excluded", After: ""},
		{Field: "weakModes", Before: "", After: "pf"},
	}, diff.Changed[0].Changes)

	assert.True(t, DiffCompositions(before, before).Empty())
}
