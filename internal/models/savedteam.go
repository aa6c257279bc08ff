package models

import (
	"time"
)

// SavedTeamKind distinguishes locked teams from favorites.
type SavedTeamKind string

const (
	SavedTeamLocked   SavedTeamKind = "locked"
	SavedTeamFavorite SavedTeamKind = "favorite"
)

// Valid reports whether k is a known kind.
func (k SavedTeamKind) Valid() bool {
	return k == SavedTeamLocked || k == SavedTeamFavorite
}

// SavedTeam is a persisted team. Only the four ids are stored; everything
// else is recomputed from the dataset when the team is displayed.
type SavedTeam struct {
	ID        string        `json:"id"`
	Key       string        `json:"key"`
	UnitIDs   []string      `json:"unit_ids"`
	Kind      SavedTeamKind `json:"kind"`
	Note      string        `json:"note,omitempty"`
	ShareCode string        `json:"share_code"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SavedTeamCreate is the request body for saving a team
type SavedTeamCreate struct {
	UnitIDs []string      `json:"unit_ids"`
	Kind    SavedTeamKind `json:"kind"`
	Note    string        `json:"note"`
}

// SavedTeamView pairs a saved team with its recomputed, displayable form.
type SavedTeamView struct {
	SavedTeam
	Team *GeneratedTeam `json:"team,omitempty"`
}
