package api

import (
	"fmt"
	"net/http"

	"github.com/meur/teamforge/internal/apperrors"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/teams"
)

type recommendRequest struct {
	Focal []string `json:"focal"`
	// Pool replaces the owned roster when set.
	Pool            []string          `json:"pool,omitempty"`
	Mode            string            `json:"mode"`
	Composition     string            `json:"composition"`
	Compositions    map[string]string `json:"compositions,omitempty"`
	View            teams.View        `json:"view"`
	MaxTeams        int               `json:"max_teams"`
	IncludeConcepts *bool             `json:"include_concepts,omitempty"`
}

type recommendResponse struct {
	teams.Recommendation
	Mode    models.Mode `json:"mode"`
	Version string      `json:"version"`
}

type reconstructRequest struct {
	IDs         []string `json:"ids"`
	Mode        string   `json:"mode"`
	Composition string   `json:"composition"`
}

// handleRecommend generates and ranks teams for the selected units out of the roster
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	mode, err := parseMode(req.Mode, s.opts.DefaultMode)
	if err != nil {
		s.respondErr(w, err, "Invalid mode")
		return
	}
	if req.View != "" && !req.View.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown view %q", req.View))
		return
	}
	if req.MaxTeams < 0 {
		respondError(w, http.StatusBadRequest, "max_teams must not be negative")
		return
	}

	roster, err := s.store.LoadRoster()
	if err != nil {
		s.respondErr(w, err, "Failed to fetch roster")
		return
	}
	eng := s.current()

	pool := req.Pool
	if len(pool) == 0 {
		includeConcepts := s.opts.IncludeConcepts
		if req.IncludeConcepts != nil {
			includeConcepts = *req.IncludeConcepts
		}
		pool = roster.OwnedIDs(eng.data.Units(), includeConcepts)
	}

	compositions := make(map[string]string, len(req.Focal))
	for _, id := range req.Focal {
		if req.Composition != "" {
			compositions[id] = req.Composition
		}
	}
	for id, c := range req.Compositions {
		compositions[id] = c
	}

	view := req.View
	if view == "" {
		view = s.opts.DefaultView
	}
	maxTeams := req.MaxTeams
	if maxTeams == 0 {
		maxTeams = s.opts.MaxTeams
	}

	rec := eng.generator.Recommend(teams.Query{
		Selected:     req.Focal,
		Pool:         pool,
		Mode:         mode,
		Compositions: compositions,
		View:         view,
		MaxTeams:     maxTeams,
		Investments:  roster,
	})
	if rec.Teams == nil {
		rec.Teams = []models.GeneratedTeam{}
	}

	respondJSON(w, http.StatusOK, recommendResponse{
		Recommendation: rec,
		Mode:           mode,
		Version:        eng.data.Version(),
	})
}

// handleReconstruct scores a team given by its 4 unit ids
func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	var req reconstructRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	mode, err := parseMode(req.Mode, s.opts.DefaultMode)
	if err != nil {
		s.respondErr(w, err, "Invalid mode")
		return
	}

	team, err := s.reconstruct(req.IDs, mode, req.Composition)
	if err != nil {
		s.respondErr(w, err, "Failed to rebuild team")
		return
	}
	respondJSON(w, http.StatusOK, team)
}

// reconstruct rebuilds a team against the current dataset and the stored roster.
func (s *Server) reconstruct(ids []string, mode models.Mode, compositionID string) (*models.GeneratedTeam, error) {
	if len(ids) != models.TeamSize {
		return nil, fmt.Errorf("a team needs %d units, got %d: %w", models.TeamSize, len(ids), apperrors.ErrInvalidInput)
	}
	eng := s.current()
	for _, id := range ids {
		if _, ok := eng.data.Unit(id); !ok {
			return nil, fmt.Errorf("unit %s: %w", id, apperrors.ErrNotFound)
		}
	}
	roster, err := s.store.LoadRoster()
	if err != nil {
		return nil, err
	}

	team, ok := eng.generator.Reconstruct(ids, teams.Options{
		Mode:          mode,
		CompositionID: compositionID,
		Investments:   roster,
	})
	if !ok {
		return nil, apperrors.ErrInvalidSelection
	}
	return team, nil
}
