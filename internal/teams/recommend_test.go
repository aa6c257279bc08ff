package teams_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/teams"
	"github.com/meur/teamforge/internal/testhelpers"
)

func TestValidateSelection(t *testing.T) {
	_, ds := newGenerator(t)

	tests := []struct {
		name     string
		selected []string
		want     teams.SelectionProblem
	}{
		{"empty", nil, teams.SelectionOK},
		{"two carries and a flex unit", []string{testhelpers.Acheron, testhelpers.Seele, testhelpers.Topaz}, teams.SelectionOK},
		{"three carries", []string{testhelpers.Acheron, testhelpers.Seele, testhelpers.Kafka}, teams.SelectionTooManyDamage},
		{"two sustains", []string{testhelpers.Aventurine, testhelpers.FuXuan}, teams.SelectionTooManySustains},
		{"two forms of one unit", []string{testhelpers.March7, testhelpers.March7Hunt}, teams.SelectionDuplicateUnit},
		{"unknown unit", []string{"nobody"}, teams.SelectionUnknownUnit},
		{"five units", []string{
			testhelpers.Acheron, testhelpers.Pela, testhelpers.SilverWolf, testhelpers.Sparkle, testhelpers.FuXuan,
		}, teams.SelectionTooMany},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, teams.ValidateSelection(ds, tt.selected))
		})
	}
}

func TestValidate(t *testing.T) {
	_, ds := newGenerator(t)

	ok := []models.TeamMember{
		member(testhelpers.Seele, models.RoleDPS), member(testhelpers.Topaz, models.RoleSupportDPS),
		member(testhelpers.Sparkle, models.RoleAmplifier), member(testhelpers.FuXuan, models.RoleSustain),
	}
	assert.NoError(t, teams.Validate(ds, ok))

	noSustain := []models.TeamMember{
		member(testhelpers.Seele, models.RoleDPS), member(testhelpers.Topaz, models.RoleAmplifier),
		member(testhelpers.Sparkle, models.RoleAmplifier), member(testhelpers.Pela, models.RoleAmplifier),
	}
	assert.Error(t, teams.Validate(ds, noSustain))

	wrongRole := []models.TeamMember{
		member(testhelpers.Seele, models.RoleDPS), member(testhelpers.Sparkle, models.RoleSupportDPS),
		member(testhelpers.Pela, models.RoleAmplifier), member(testhelpers.FuXuan, models.RoleSustain),
	}
	assert.Error(t, teams.Validate(ds, wrongRole))

	sameBase := []models.TeamMember{
		member(testhelpers.Seele, models.RoleDPS), member(testhelpers.March7Hunt, models.RoleAmplifier),
		member(testhelpers.Pela, models.RoleAmplifier), member(testhelpers.March7, models.RoleSustain),
	}
	assert.Error(t, teams.Validate(ds, sameBase))

	assert.Error(t, teams.Validate(ds, ok[:3]))
}

func TestRecommendFocusedSelection(t *testing.T) {
	g, ds := newGenerator(t)

	rec := g.Recommend(teams.Query{Selected: []string{testhelpers.Seele}, Pool: testhelpers.AllIDs(), Mode: models.ModeMoC})
	assert.Equal(t, teams.ViewFocused, rec.View)
	assert.Empty(t, rec.Reason)
	require.NotEmpty(t, rec.Teams)
	assert.LessOrEqual(t, len(rec.Teams), 12)
	requireValidTeams(t, ds, rec.Teams)
	for _, team := range rec.Teams {
		assert.True(t, team.Contains(testhelpers.Seele))
	}
}

func TestRecommendTwoCarriesRequireEachOther(t *testing.T) {
	g, _ := newGenerator(t)

	rec := g.Recommend(teams.Query{
		Selected: []string{testhelpers.Seele, testhelpers.Topaz},
		Pool:     testhelpers.AllIDs(),
	})
	require.NotEmpty(t, rec.Teams)
	for _, team := range rec.Teams {
		assert.True(t, team.Contains(testhelpers.Seele) && team.Contains(testhelpers.Topaz), team.Key())
		assert.True(t, teams.IsDualCarryTeam(team.Members[:]))
	}
}

func TestRecommendSupportSelection(t *testing.T) {
	g, ds := newGenerator(t)

	rec := g.Recommend(teams.Query{Selected: []string{testhelpers.SilverWolf}, Pool: testhelpers.AllIDs()})
	assert.Equal(t, teams.ViewSupport, rec.View)
	require.NotEmpty(t, rec.Teams)
	assert.LessOrEqual(t, len(rec.Teams), 15)
	requireValidTeams(t, ds, rec.Teams)
	for _, team := range rec.Teams {
		assert.True(t, team.Contains(testhelpers.SilverWolf))
	}

	rec = g.Recommend(teams.Query{Selected: []string{testhelpers.SilverWolf, testhelpers.FuXuan}, Pool: testhelpers.AllIDs()})
	require.NotEmpty(t, rec.Teams)
	for _, team := range rec.Teams {
		assert.True(t, team.Contains(testhelpers.SilverWolf) && team.Contains(testhelpers.FuXuan), team.Key())
	}
}

func TestRecommendWholeRoster(t *testing.T) {
	g, ds := newGenerator(t)

	rec := g.Recommend(teams.Query{Pool: testhelpers.AllIDs(), Mode: models.ModeAS})
	assert.Equal(t, teams.ViewRoster, rec.View)
	require.NotEmpty(t, rec.Teams)
	assert.LessOrEqual(t, len(rec.Teams), 18)
	assert.Greater(t, rec.Candidates, len(rec.Teams))
	requireValidTeams(t, ds, rec.Teams)

	again := g.Recommend(teams.Query{Pool: testhelpers.AllIDs(), Mode: models.ModeAS})
	assert.Equal(t, rec, again)
}

func TestRecommendEmptyResults(t *testing.T) {
	g, _ := newGenerator(t)

	rec := g.Recommend(teams.Query{
		Selected: []string{testhelpers.Acheron, testhelpers.Seele, testhelpers.Kafka},
		Pool:     testhelpers.AllIDs(),
	})
	assert.Empty(t, rec.Teams)
	assert.Equal(t, string(teams.SelectionTooManyDamage), rec.Reason)

	rec = g.Recommend(teams.Query{Pool: []string{testhelpers.Seele, testhelpers.FuXuan}})
	assert.Empty(t, rec.Teams)
	assert.Equal(t, teams.ReasonNotEnoughUnits, rec.Reason)

	rec = g.Recommend(teams.Query{Pool: []string{testhelpers.Pela, testhelpers.Robin, testhelpers.Sparkle, testhelpers.Bronya}})
	assert.Empty(t, rec.Teams)
	assert.Equal(t, teams.ReasonNoValidTeams, rec.Reason)
}

func TestGenerateTeamsForSupport(t *testing.T) {
	g, ds := newGenerator(t)

	res := g.GenerateTeamsForSupport(testhelpers.Pela, testhelpers.AllIDs(), teams.Options{MaxTeams: 6, Mode: models.ModeMoC})
	require.NotEmpty(t, res.FocalTeams)
	for _, team := range res.FocalTeams {
		assert.Equal(t, testhelpers.Acheron, team.FocalID, "only acheron wants pela")
		assert.True(t, team.Contains(testhelpers.Pela))
	}
	require.NotEmpty(t, res.SupportingTeams)
	for _, team := range res.SupportingTeams {
		assert.NotEqual(t, testhelpers.Acheron, team.FocalID)
		assert.True(t, team.Contains(testhelpers.Pela))
	}
	requireValidTeams(t, ds, res.All())

	assert.Empty(t, g.GenerateTeamsForSupport("nobody", testhelpers.AllIDs(), teams.Options{}).All())
}

func TestReconstruct(t *testing.T) {
	g, _ := newGenerator(t)

	team, ok := g.Reconstruct([]string{testhelpers.FuXuan, testhelpers.Sparkle, testhelpers.SilverWolf, testhelpers.Seele}, teams.Options{})
	require.True(t, ok)
	assert.Equal(t, testhelpers.Seele, team.FocalID)
	assert.Equal(t, testhelpers.Seele, team.Members[0].UnitID)
	assert.Equal(t, models.RoleSustain, team.Members[3].Role)
	assert.InDelta(t, 95, team.Score, 1e-9)

	curated, ok := g.Reconstruct([]string{testhelpers.Aventurine, testhelpers.SilverWolf, testhelpers.Pela, testhelpers.Acheron}, teams.Options{})
	require.True(t, ok)
	assert.Equal(t, "Acheron Nihility", curated.CuratedMatch)

	invalid := [][]string{
		{testhelpers.Acheron, testhelpers.Kafka, testhelpers.Seele, testhelpers.FuXuan},
		{testhelpers.March7, testhelpers.March7Hunt, testhelpers.Seele, testhelpers.Pela},
		{testhelpers.Seele, testhelpers.Pela, testhelpers.FuXuan},
		{testhelpers.Seele, testhelpers.Pela, testhelpers.FuXuan, "nobody"},
		{testhelpers.Pela, testhelpers.Robin, testhelpers.Sparkle, testhelpers.FuXuan},
	}
	for _, ids := range invalid {
		_, ok := g.Reconstruct(ids, teams.Options{})
		assert.False(t, ok, "%v", ids)
	}
}
