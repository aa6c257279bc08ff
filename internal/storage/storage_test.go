package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/teamforge/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "teamforge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew_AppliesMigrations(t *testing.T) {
	s := newTestStore(t)

	version, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamforge.db")
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertInvestment(&models.UserCharacterInvestment{UnitID: "acheron", Ownership: models.OwnershipOwned}))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	inv, err := s.GetInvestment("acheron")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, models.OwnershipOwned, inv.Ownership)
}

func TestUpsertInvestment(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertInvestment(&models.UserCharacterInvestment{
		UnitID: "acheron", Ownership: models.OwnershipOwned, Eidolon: 1,
	}))
	require.NoError(t, s.UpsertInvestment(&models.UserCharacterInvestment{
		UnitID: "acheron", Ownership: models.OwnershipOwned, Eidolon: 2,
		LightConeID: "along-the-passing-shore", Superimposition: 1,
	}))

	inv, err := s.GetInvestment("acheron")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, 2, inv.Eidolon)
	assert.Equal(t, "along-the-passing-shore", inv.LightConeID)
	assert.Equal(t, 1, inv.Superimposition)
	assert.False(t, inv.UpdatedAt.IsZero())
}

func TestUpsertInvestment_Invalid(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name string
		inv  models.UserCharacterInvestment
	}{
		{"missing id", models.UserCharacterInvestment{Ownership: models.OwnershipOwned}},
		{"bad ownership", models.UserCharacterInvestment{UnitID: "seele", Ownership: "maybe"}},
		{"eidolon too high", models.UserCharacterInvestment{UnitID: "seele", Ownership: models.OwnershipOwned, Eidolon: 7}},
		{"superimposition missing", models.UserCharacterInvestment{UnitID: "seele", Ownership: models.OwnershipOwned, LightConeID: "in-the-night"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := tt.inv
			assert.Error(t, s.UpsertInvestment(&inv))
		})
	}

	invs, err := s.ListInvestments()
	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestGetInvestment_NotFound(t *testing.T) {
	s := newTestStore(t)

	inv, err := s.GetInvestment("nobody")
	require.NoError(t, err)
	assert.Nil(t, inv)
}

func TestBulkUpsertInvestments(t *testing.T) {
	s := newTestStore(t)

	err := s.BulkUpsertInvestments([]models.UserCharacterInvestment{
		{UnitID: "seele", Ownership: models.OwnershipOwned},
		{UnitID: "acheron", Ownership: models.OwnershipConcept},
		{UnitID: "pela", Ownership: models.OwnershipOwned, Eidolon: 6},
	})
	require.NoError(t, err)

	invs, err := s.ListInvestments()
	require.NoError(t, err)
	require.Len(t, invs, 3)
	assert.Equal(t, "acheron", invs[0].UnitID)
	assert.Equal(t, "pela", invs[1].UnitID)
	assert.Equal(t, "seele", invs[2].UnitID)
}

func TestBulkUpsertInvestments_RollsBackOnInvalid(t *testing.T) {
	s := newTestStore(t)

	err := s.BulkUpsertInvestments([]models.UserCharacterInvestment{
		{UnitID: "seele", Ownership: models.OwnershipOwned},
		{UnitID: "pela", Ownership: models.OwnershipOwned, Eidolon: -1},
	})
	require.Error(t, err)

	invs, err := s.ListInvestments()
	require.NoError(t, err)
	assert.Empty(t, invs)
}

func TestDeleteInvestment(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertInvestment(&models.UserCharacterInvestment{UnitID: "pela", Ownership: models.OwnershipOwned}))

	deleted, err := s.DeleteInvestment("pela")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteInvestment("pela")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestLoadRoster(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.BulkUpsertInvestments([]models.UserCharacterInvestment{
		{UnitID: "seele", Ownership: models.OwnershipOwned, Eidolon: 2},
		{UnitID: "acheron", Ownership: models.OwnershipConcept},
	}))

	roster, err := s.LoadRoster()
	require.NoError(t, err)
	assert.Equal(t, models.OwnershipOwned, roster.Ownership("seele"))
	assert.Equal(t, models.OwnershipConcept, roster.Ownership("acheron"))
	assert.Equal(t, models.OwnershipNone, roster.Ownership("pela"))
	assert.Equal(t, 2, roster.Investment("seele").Eidolon)
}

func TestSaveTeam(t *testing.T) {
	s := newTestStore(t)
	req := &models.SavedTeamCreate{
		UnitIDs: []string{"acheron", "pela", "silverwolf", "aventurine"},
		Kind:    models.SavedTeamFavorite,
		Note:    "mono nihility",
	}

	team, created, err := s.SaveTeam(req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "acheron,aventurine,pela,silverwolf", team.Key)
	assert.Len(t, team.ShareCode, 8)
	assert.Equal(t, team.ID[:8], team.ShareCode)

	got, err := s.GetSavedTeam(team.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, req.UnitIDs, got.UnitIDs)
	assert.Equal(t, "mono nihility", got.Note)

	byCode, err := s.GetSavedTeamByShareCode(team.ShareCode)
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, team.ID, byCode.ID)
}

func TestSaveTeam_SameSetIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	first, created, err := s.SaveTeam(&models.SavedTeamCreate{
		UnitIDs: []string{"acheron", "pela", "silverwolf", "aventurine"},
		Kind:    models.SavedTeamLocked,
	})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := s.SaveTeam(&models.SavedTeamCreate{
		UnitIDs: []string{"aventurine", "silverwolf", "pela", "acheron"},
		Kind:    models.SavedTeamLocked,
		Note:    "reordered",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "reordered", second.Note)

	// the same set under another kind is a separate record
	fav, created, err := s.SaveTeam(&models.SavedTeamCreate{
		UnitIDs: []string{"acheron", "pela", "silverwolf", "aventurine"},
		Kind:    models.SavedTeamFavorite,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, fav.ID)

	locked, err := s.ListSavedTeams(models.SavedTeamLocked)
	require.NoError(t, err)
	assert.Len(t, locked, 1)

	all, err := s.ListSavedTeams("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveTeam_Invalid(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name string
		req  models.SavedTeamCreate
	}{
		{"three units", models.SavedTeamCreate{UnitIDs: []string{"a", "b", "c"}, Kind: models.SavedTeamLocked}},
		{"unknown kind", models.SavedTeamCreate{UnitIDs: []string{"a", "b", "c", "d"}, Kind: "pinned"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, _, err := s.SaveTeam(&req)
			assert.Error(t, err)
		})
	}
}

func TestDeleteSavedTeam(t *testing.T) {
	s := newTestStore(t)
	team, _, err := s.SaveTeam(&models.SavedTeamCreate{
		UnitIDs: []string{"seele", "silverwolf", "sparkle", "fuxuan"},
		Kind:    models.SavedTeamFavorite,
	})
	require.NoError(t, err)

	deleted, err := s.DeleteSavedTeam(team.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := s.GetSavedTeam(team.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err = s.DeleteSavedTeam(team.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
