package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/teamforge/internal/apperrors"
	"github.com/meur/teamforge/internal/models"
)

// view recomputes the displayable team of a saved record. A team that no
// longer fits the dataset is returned without it.
func (s *Server) view(t *models.SavedTeam) models.SavedTeamView {
	v := models.SavedTeamView{SavedTeam: *t}
	team, err := s.reconstruct(t.UnitIDs, s.opts.DefaultMode, "")
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidSelection) && !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Failed to rebuild saved team", zap.String("id", t.ID), zap.Error(err))
		}
		return v
	}
	v.Team = team
	return v
}

// handleSaveTeam locks or favorites a team. Saving the same set again returns the existing record.
func (s *Server) handleSaveTeam(w http.ResponseWriter, r *http.Request) {
	var req models.SavedTeamCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Kind == "" {
		req.Kind = models.SavedTeamFavorite
	}
	if !req.Kind.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown kind %q", req.Kind))
		return
	}

	// only teams that can be rebuilt are stored
	if _, err := s.reconstruct(req.UnitIDs, s.opts.DefaultMode, ""); err != nil {
		s.respondErr(w, err, "Failed to validate team")
		return
	}

	saved, created, err := s.store.SaveTeam(&req)
	if err != nil {
		s.respondErr(w, err, "Failed to save team")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, s.view(saved))
}

// handleGetSavedTeams lists saved teams, optionally filtered by ?kind=
func (s *Server) handleGetSavedTeams(w http.ResponseWriter, r *http.Request) {
	kind := models.SavedTeamKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown kind %q", kind))
		return
	}

	saved, err := s.store.ListSavedTeams(kind)
	if err != nil {
		s.respondErr(w, err, "Failed to fetch saved teams")
		return
	}

	out := make([]models.SavedTeamView, 0, len(saved))
	for i := range saved {
		out = append(out, s.view(&saved[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleGetSavedTeam returns a saved team by ID
func (s *Server) handleGetSavedTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	saved, err := s.store.GetSavedTeam(id)
	if err != nil {
		s.respondErr(w, err, "Failed to fetch saved team")
		return
	}
	if saved == nil {
		respondError(w, http.StatusNotFound, "Saved team not found")
		return
	}

	respondJSON(w, http.StatusOK, s.view(saved))
}

// handleGetSavedTeamByCode returns a saved team by share code
func (s *Server) handleGetSavedTeamByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	saved, err := s.store.GetSavedTeamByShareCode(code)
	if err != nil {
		s.respondErr(w, err, "Failed to fetch saved team")
		return
	}
	if saved == nil {
		respondError(w, http.StatusNotFound, "Saved team not found")
		return
	}

	respondJSON(w, http.StatusOK, s.view(saved))
}

// handleDeleteSavedTeam deletes a saved team by ID
func (s *Server) handleDeleteSavedTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.store.DeleteSavedTeam(id)
	if err != nil {
		s.respondErr(w, err, "Failed to delete saved team")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Saved team not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
