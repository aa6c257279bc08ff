package api

import (
	"net/http"

	"github.com/meur/teamforge/internal/authoring"
	"github.com/meur/teamforge/internal/models"
)

type validateResponse struct {
	Valid  bool                   `json:"valid"`
	Errors []authoring.FieldError `json:"errors"`
}

type diffRequest struct {
	Before []models.Composition `json:"before"`
	After  []models.Composition `json:"after"`
}

// handleGetSuggestions lists missing or mismatched reciprocal recommendations
func (s *Server) handleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions := authoring.SuggestReciprocals(s.current().data)
	if suggestions == nil {
		suggestions = []authoring.Suggestion{}
	}
	respondJSON(w, http.StatusOK, suggestions)
}

// handleValidateUnit checks a unit record against the current dataset
func (s *Server) handleValidateUnit(w http.ResponseWriter, r *http.Request) {
	var u models.Unit
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := authoring.ValidateUnit(&u, s.current().data)
	if errs == nil {
		errs = []authoring.FieldError{}
	}
	respondJSON(w, http.StatusOK, validateResponse{Valid: len(errs) == 0, Errors: errs})
}

// handleDiffCompositions compares two versions of a unit's compositions
func (s *Server) handleDiffCompositions(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, authoring.DiffCompositions(req.Before, req.After))
}
