package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meur/teamforge/internal/composition"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/relations"
	"github.com/meur/teamforge/internal/tierscore"
)

type unitSummary struct {
	ID        string                      `json:"id"`
	Name      string                      `json:"name"`
	Element   string                      `json:"element"`
	Path      string                      `json:"path"`
	Rarity    int                         `json:"rarity"`
	Roles     []models.Role               `json:"roles"`
	Labels    []string                    `json:"labels,omitempty"`
	BestTiers map[models.Mode]models.Tier `json:"best_tiers"`
	Ownership models.Ownership            `json:"ownership"`
}

type unitDetail struct {
	models.Unit
	Tiers     map[models.Mode]map[string]models.Tier `json:"tiers"`
	Ownership models.Ownership                       `json:"ownership"`
}

// handleGetTiers returns the tier display configuration
func (s *Server) handleGetTiers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.DefaultTiers())
}

// handleGetUnits lists every unit, optionally filtered by ?role= and ?path=
func (s *Server) handleGetUnits(w http.ResponseWriter, r *http.Request) {
	eng := s.current()

	var role *models.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := models.ParseRole(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		role = &parsed
	}
	path := r.URL.Query().Get("path")

	roster, err := s.store.LoadRoster()
	if err != nil {
		s.respondErr(w, err, "Failed to fetch roster")
		return
	}

	units := eng.data.Units()
	out := make([]unitSummary, 0, len(units))
	for i := range units {
		u := &units[i]
		if role != nil && !u.HasRole(*role) {
			continue
		}
		if path != "" && u.Path != path {
			continue
		}
		best := make(map[models.Mode]models.Tier, len(models.AllModes))
		for _, m := range models.AllModes {
			best[m] = eng.data.BestTier(u.ID, m)
		}
		out = append(out, unitSummary{
			ID:        u.ID,
			Name:      u.Name,
			Element:   u.Element,
			Path:      u.Path,
			Rarity:    u.Rarity,
			Roles:     u.Roles,
			Labels:    u.Labels,
			BestTiers: best,
			Ownership: roster.Ownership(u.ID),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"version": eng.data.Version(),
		"units":   out,
	})
}

func (s *Server) unitParam(w http.ResponseWriter, r *http.Request) (*models.Unit, bool) {
	return unitIn(s.current(), w, r)
}

// unitIn resolves the {id} URL parameter against one engine snapshot.
func unitIn(e *engine, w http.ResponseWriter, r *http.Request) (*models.Unit, bool) {
	id := chi.URLParam(r, "id")
	u, ok := e.data.Unit(id)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Unit %s not found", id))
		return nil, false
	}
	return u, true
}

// handleGetUnit returns a unit with its per-mode, per-role tiers
func (s *Server) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	u, ok := s.unitParam(w, r)
	if !ok {
		return
	}
	eng := s.current()

	tiers := make(map[models.Mode]map[string]models.Tier, len(models.AllModes))
	for _, m := range models.AllModes {
		byRole := make(map[string]models.Tier, len(u.Roles))
		for _, role := range u.Roles {
			byRole[role.String()] = eng.data.Tier(u.ID, m, role)
		}
		tiers[m] = byRole
	}

	inv, err := s.store.GetInvestment(u.ID)
	if err != nil {
		s.respondErr(w, err, "Failed to fetch investment")
		return
	}
	ownership := models.OwnershipNone
	if inv != nil {
		ownership = inv.Ownership
	}

	respondJSON(w, http.StatusOK, unitDetail{Unit: *u, Tiers: tiers, Ownership: ownership})
}

// handleGetTeammates returns the composition-resolved, investment-adjusted teammate ratings
func (s *Server) handleGetTeammates(w http.ResponseWriter, r *http.Request) {
	u, ok := s.unitParam(w, r)
	if !ok {
		return
	}
	roster, err := s.store.LoadRoster()
	if err != nil {
		s.respondErr(w, err, "Failed to fetch roster")
		return
	}

	compID := ""
	if comp := composition.Select(u, r.URL.Query().Get("composition")); comp != nil {
		compID = comp.ID
	}
	teammates := s.current().resolver.EffectiveTeammates(u.ID, composition.EffectiveOptions{
		CompositionID: compID,
		Investments:   roster,
	})
	if teammates == nil {
		teammates = []composition.EffectiveRating{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"unit_id":        u.ID,
		"composition_id": compID,
		"teammates":      teammates,
	})
}

// handleGetWantedBy returns the units recommending this one, grouped by their role
func (s *Server) handleGetWantedBy(w http.ResponseWriter, r *http.Request) {
	e := s.current()
	u, ok := unitIn(e, w, r)
	if !ok {
		return
	}
	grouped := e.relations.Grouped(u.ID)
	if grouped.DPS == nil {
		grouped.DPS = []relations.WantedEntry{}
	}
	if grouped.Supports == nil {
		grouped.Supports = []relations.WantedEntry{}
	}
	if grouped.Sustains == nil {
		grouped.Sustains = []relations.WantedEntry{}
	}
	respondJSON(w, http.StatusOK, grouped)
}

// handleGetAvoidedBy returns the units that avoid this one
func (s *Server) handleGetAvoidedBy(w http.ResponseWriter, r *http.Request) {
	e := s.current()
	u, ok := unitIn(e, w, r)
	if !ok {
		return
	}
	avoided := e.relations.WhoAvoids(u.ID)
	if avoided == nil {
		avoided = []relations.AvoidedEntry{}
	}
	respondJSON(w, http.StatusOK, avoided)
}

// handleGetScore returns the effective score of a unit for the stored investment
func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	u, ok := s.unitParam(w, r)
	if !ok {
		return
	}
	mode, err := parseMode(r.URL.Query().Get("mode"), s.opts.DefaultMode)
	if err != nil {
		s.respondErr(w, err, "Invalid mode")
		return
	}
	inv, err := s.store.GetInvestment(u.ID)
	if err != nil {
		s.respondErr(w, err, "Failed to fetch investment")
		return
	}

	respondJSON(w, http.StatusOK, tierscore.EffectiveScore(s.current().data, u.ID, mode, inv))
}
