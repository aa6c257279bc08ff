package teams

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/synergy"
)

// largeDataset has perRole units of each of DPS, Amplifier and Sustain.
// dps-00 wants amp-07 (S+), amp-13 (S) and sus-11 (S+).
func largeDataset(tb testing.TB, perRole int) (*dataset.Dataset, []string) {
	tb.Helper()
	var units []models.Unit
	var ids []string
	add := func(prefix string, role models.Role) {
		for i := 0; i < perRole; i++ {
			id := fmt.Sprintf("%s-%02d", prefix, i)
			units = append(units, models.Unit{ID: id, Name: id, Path: prefix, Rarity: 5, Roles: []models.Role{role}})
			ids = append(ids, id)
		}
	}
	add("dps", models.RoleDPS)
	add("amp", models.RoleAmplifier)
	add("sus", models.RoleSustain)

	units[0].BaseTeammates = map[models.Role][]models.TeammateRec{
		models.RoleAmplifier: {
			{ID: "amp-07", Rating: models.RatingSPlus},
			{ID: "amp-13", Rating: models.RatingS},
		},
		models.RoleSustain: {
			{ID: "sus-11", Rating: models.RatingSPlus},
		},
	}
	ds, err := dataset.New("large", units, nil)
	require.NoError(tb, err)
	return ds, ids
}

func TestPruneCandidatesBoundsEachSlot(t *testing.T) {
	ds, ids := largeDataset(t, 20)
	g := NewGenerator(ds, nil)
	focal, _ := ds.Unit("dps-00")

	rest := g.candidatePool(focal, ids)
	require.Len(t, rest, 59)

	session := g.scorer.Session(synergy.Options{})
	pruned := pruneCandidates(ds, session, focal, rest, nil)
	assert.Len(t, pruned, maxCandidates)

	perRole := make(map[models.Role]int)
	got := make(map[string]bool, len(pruned))
	for _, u := range pruned {
		got[u.ID] = true
		perRole[u.PrimaryRole()]++
	}
	assert.Equal(t, maxSustainCandidates, perRole[models.RoleSustain])
	assert.Equal(t, maxAmplifierCandidates, perRole[models.RoleAmplifier])
	assert.Equal(t, maxDamageCandidates, perRole[models.RoleDPS])
	for _, id := range []string{"amp-07", "amp-13", "sus-11"} {
		assert.True(t, got[id], id)
	}

	// Small pools are left alone.
	assert.Len(t, pruneCandidates(ds, session, focal, rest[:maxCandidates], nil), maxCandidates)
}

func TestPruneCandidatesKeepsRequirementMatches(t *testing.T) {
	ds, ids := largeDataset(t, 20)
	g := NewGenerator(ds, nil)
	focal, _ := ds.Unit("dps-00")
	comp := &models.Composition{ID: "triple", PathRequirements: []models.PathRequirement{{Count: 2, Path: "dps"}}}

	pruned := pruneCandidates(ds, g.scorer.Session(synergy.Options{}), focal, g.candidatePool(focal, ids), comp)
	n := 0
	for _, u := range pruned {
		if u.Path == "dps" {
			n++
		}
	}
	assert.GreaterOrEqual(t, n, 2)
}

func TestGenerateTeamsLargePool(t *testing.T) {
	ds, ids := largeDataset(t, 20)
	g := NewGenerator(ds, nil)

	list := g.GenerateTeams("dps-00", ids, Options{MaxTeams: 5, Mode: models.ModeMoC})
	require.Len(t, list, 5)
	for _, team := range list {
		require.NoError(t, Validate(ds, team.Members[:]), team.Key())
	}
	assert.Equal(t, models.TeamKey([]string{"dps-00", "amp-07", "amp-13", "sus-11"}), list[0].Key())

	again := g.GenerateTeams("dps-00", ids, Options{MaxTeams: 5, Mode: models.ModeMoC})
	assert.Equal(t, list, again)
}

func TestRecommendWholeLargeRoster(t *testing.T) {
	ds, ids := largeDataset(t, 20)
	g := NewGenerator(ds, nil)

	rec := g.Recommend(Query{Pool: ids, Mode: models.ModeMoC})
	assert.Equal(t, ViewRoster, rec.View)
	require.NotEmpty(t, rec.Teams)
	assert.LessOrEqual(t, len(rec.Teams), DisplayCap(ViewRoster))
	for _, team := range rec.Teams {
		require.NoError(t, Validate(ds, team.Members[:]), team.Key())
	}
}

func BenchmarkRecommendWholeRoster(b *testing.B) {
	for _, perRole := range []int{10, 20, 40} {
		ds, ids := largeDataset(b, perRole)
		g := NewGenerator(ds, nil)
		b.Run(fmt.Sprintf("units=%d", len(ids)), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				g.Recommend(Query{Pool: ids, Mode: models.ModeMoC})
			}
		})
	}
}

func TestPruneCandidatesKeepsAmplifiersWhenDamageScoresHigher(t *testing.T) {
	ds, ids := largeDataset(t, 20)
	units := ds.Units()
	var wants []models.TeammateRec
	for i := 1; i < 20; i++ {
		wants = append(wants, models.TeammateRec{ID: fmt.Sprintf("dps-%02d", i), Rating: models.RatingSPlus})
	}
	units[0].BaseTeammates = map[models.Role][]models.TeammateRec{models.RoleDPS: wants}
	ds, err := dataset.New("damage-heavy", units, nil)
	require.NoError(t, err)

	g := NewGenerator(ds, nil)
	list := g.GenerateTeams("dps-00", ids, Options{MaxTeams: 5, Mode: models.ModeMoC})
	require.Len(t, list, 5)
	for _, team := range list {
		require.NoError(t, Validate(ds, team.Members[:]), team.Key())
	}
}
