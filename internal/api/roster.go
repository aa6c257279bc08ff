package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meur/teamforge/internal/models"
)

// handleGetRoster lists every stored investment
func (s *Server) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	invs, err := s.store.ListInvestments()
	if err != nil {
		s.respondErr(w, err, "Failed to fetch roster")
		return
	}
	if invs == nil {
		invs = []models.UserCharacterInvestment{}
	}
	respondJSON(w, http.StatusOK, invs)
}

// handleGetInvestment returns the investment of one unit
func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	inv, err := s.store.GetInvestment(id)
	if err != nil {
		s.respondErr(w, err, "Failed to fetch investment")
		return
	}
	if inv == nil {
		respondError(w, http.StatusNotFound, "Investment not found")
		return
	}

	respondJSON(w, http.StatusOK, inv)
}

// handlePutInvestment creates or replaces the investment of one unit
func (s *Server) handlePutInvestment(w http.ResponseWriter, r *http.Request) {
	u, ok := s.unitParam(w, r)
	if !ok {
		return
	}

	var inv models.UserCharacterInvestment
	if err := decodeJSON(r, &inv); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if inv.UnitID != "" && inv.UnitID != u.ID {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unit_id %s does not match %s", inv.UnitID, u.ID))
		return
	}
	inv.UnitID = u.ID
	if inv.Ownership == "" {
		inv.Ownership = models.OwnershipOwned
	}
	if err := inv.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpsertInvestment(&inv); err != nil {
		s.respondErr(w, err, "Failed to save investment")
		return
	}

	respondJSON(w, http.StatusOK, inv)
}

// handleDeleteInvestment removes a unit from the roster
func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.store.DeleteInvestment(id)
	if err != nil {
		s.respondErr(w, err, "Failed to delete investment")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Investment not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
