package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meur/teamforge/internal/models"
)

// savedTeamID derives a stable id so saving the same set twice maps to one row.
func savedTeamID(kind models.SavedTeamKind, key string) string {
	input := fmt.Sprintf("saved-team:%s:%s", kind, key)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(input)).String()
}

// generateShareCode creates a short share code from the team id
func generateShareCode(id string) string {
	return id[:8]
}

// SaveTeam stores the unit ids of a team under kind. Saving a set that is
// already stored under the same kind updates its note and returns the
// existing record with created=false.
func (s *Store) SaveTeam(req *models.SavedTeamCreate) (team *models.SavedTeam, created bool, err error) {
	if len(req.UnitIDs) != models.TeamSize {
		return nil, false, fmt.Errorf("a saved team needs %d units, got %d", models.TeamSize, len(req.UnitIDs))
	}
	if !req.Kind.Valid() {
		return nil, false, fmt.Errorf("invalid saved team kind %q", req.Kind)
	}

	key := models.TeamKey(req.UnitIDs)
	id := savedTeamID(req.Kind, key)

	existing, err := s.GetSavedTeam(id)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if req.Note != "" && req.Note != existing.Note {
			now := time.Now().UTC()
			if _, err := s.db.Exec(`UPDATE saved_teams SET note = ?, updated_at = ? WHERE id = ?`, req.Note, now, id); err != nil {
				return nil, false, fmt.Errorf("failed to update saved team: %w", err)
			}
			existing.Note, existing.UpdatedAt = req.Note, now
		}
		return existing, false, nil
	}

	unitIDs, err := json.Marshal(req.UnitIDs)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	shareCode := generateShareCode(id)

	_, err = s.db.Exec(`
		INSERT INTO saved_teams (id, team_key, unit_ids, kind, note, share_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, key, unitIDs, req.Kind, req.Note, shareCode, now, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save team: %w", err)
	}

	return &models.SavedTeam{
		ID:        id,
		Key:       key,
		UnitIDs:   append([]string(nil), req.UnitIDs...),
		Kind:      req.Kind,
		Note:      req.Note,
		ShareCode: shareCode,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

const savedTeamColumns = `id, team_key, unit_ids, kind, note, share_code, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSavedTeam(row rowScanner) (*models.SavedTeam, error) {
	var t models.SavedTeam
	var unitIDs string
	if err := row.Scan(&t.ID, &t.Key, &unitIDs, &t.Kind, &t.Note, &t.ShareCode, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(unitIDs), &t.UnitIDs); err != nil {
		return nil, fmt.Errorf("saved team %s has malformed unit ids: %w", t.ID, err)
	}
	return &t, nil
}

// GetSavedTeam returns a saved team by ID
func (s *Store) GetSavedTeam(id string) (*models.SavedTeam, error) {
	t, err := scanSavedTeam(s.db.QueryRow(`SELECT `+savedTeamColumns+` FROM saved_teams WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// GetSavedTeamByShareCode returns a saved team by share code
func (s *Store) GetSavedTeamByShareCode(code string) (*models.SavedTeam, error) {
	t, err := scanSavedTeam(s.db.QueryRow(`SELECT `+savedTeamColumns+` FROM saved_teams WHERE share_code = ?`, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// ListSavedTeams returns saved teams, newest first, optionally filtered by kind
func (s *Store) ListSavedTeams(kind models.SavedTeamKind) ([]models.SavedTeam, error) {
	var rows *sql.Rows
	var err error

	if kind != "" {
		rows, err = s.db.Query(`SELECT `+savedTeamColumns+` FROM saved_teams WHERE kind = ? ORDER BY created_at DESC, id`, kind)
	} else {
		rows, err = s.db.Query(`SELECT ` + savedTeamColumns + ` FROM saved_teams ORDER BY created_at DESC, id`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SavedTeam
	for rows.Next() {
		t, err := scanSavedTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// DeleteSavedTeam deletes a saved team by ID. It reports whether a row existed.
func (s *Store) DeleteSavedTeam(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM saved_teams WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
