package authoring

import (
	"fmt"

	"github.com/meur/teamforge/internal/models"
)

// FieldError is one problem found in a unit record.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type fieldErrors []FieldError

func (fe *fieldErrors) add(field, format string, args ...any) {
	*fe = append(*fe, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ValidateUnit checks u field by field against the dataset it belongs to.
// References to other units are resolved through data. A nil result means
// the unit is valid.
func ValidateUnit(u *models.Unit, data Lookup) []FieldError {
	var errs fieldErrors

	if u.ID == "" {
		errs.add("id", "is required")
	}
	if u.Name == "" {
		errs.add("name", "is required")
	}
	if u.Rarity != 4 && u.Rarity != 5 {
		errs.add("rarity", "must be 4 or 5, got %d", u.Rarity)
	}

	if len(u.Roles) == 0 {
		errs.add("roles", "at least one role is required")
	}
	seenRole := make(map[models.Role]bool)
	for i, r := range u.Roles {
		if !r.Valid() {
			errs.add(fmt.Sprintf("roles[%d]", i), "unknown role %d", int(r))
		} else if seenRole[r] {
			errs.add(fmt.Sprintf("roles[%d]", i), "duplicate role %s", r)
		}
		seenRole[r] = true
	}

	known := func(id string) bool {
		_, ok := data.Unit(id)
		return ok
	}

	for _, role := range models.AllRoles {
		seen := make(map[string]bool)
		for i, rec := range u.BaseTeammates[role] {
			field := fmt.Sprintf("baseTeammates.%s[%d]", role, i)
			switch {
			case rec.ID == "":
				errs.add(field+".id", "is required")
			case rec.ID == u.ID:
				errs.add(field+".id", "a unit cannot recommend itself")
			case !known(rec.ID):
				errs.add(field+".id", "unknown unit %q", rec.ID)
			case seen[rec.ID]:
				errs.add(field+".id", "%q is listed twice", rec.ID)
			}
			seen[rec.ID] = true
			if !rec.Rating.Valid() {
				errs.add(field+".rating", "invalid rating %d", int(rec.Rating))
			}
			if _, avoided := u.Avoids(rec.ID); avoided {
				errs.add(field+".id", "%q is both recommended and avoided", rec.ID)
			}
			validateModifiers(&errs, field+".theirInvestmentModifiers", rec.TheirInvestmentModifiers)
		}
	}

	for i, a := range u.Restrictions.Avoid {
		field := fmt.Sprintf("restrictions.avoid[%d].id", i)
		switch {
		case a.ID == u.ID:
			errs.add(field, "a unit cannot avoid itself")
		case !known(a.ID):
			errs.add(field, "unknown unit %q", a.ID)
		}
	}

	seenLevel := make(map[int]bool)
	for i, e := range u.Investment.Eidolons {
		field := fmt.Sprintf("investment.eidolons[%d]", i)
		if e.Level < 1 || e.Level > 6 {
			errs.add(field+".level", "must be in [1..6], got %d", e.Level)
		} else if seenLevel[e.Level] {
			errs.add(field+".level", "eidolon %d is listed twice", e.Level)
		}
		seenLevel[e.Level] = true
		if e.Penalty < 0 {
			errs.add(field+".penalty", "must not be negative")
		}
		for j, sm := range e.SynergyModifiers {
			if !known(sm.TeammateID) {
				errs.add(fmt.Sprintf("%s.synergyModifiers[%d].teammateId", field, j), "unknown unit %q", sm.TeammateID)
			}
		}
	}
	for i, lc := range u.Investment.LightCones {
		field := fmt.Sprintf("investment.lightCones[%d]", i)
		if lc.ID == "" {
			errs.add(field+".id", "is required")
		}
		if lc.S1Penalty < 0 || lc.S5Penalty < 0 {
			errs.add(field, "penalties must not be negative")
		}
		if lc.S5Penalty > lc.S1Penalty {
			errs.add(field+".s5Penalty", "must not exceed s1Penalty (%.1f > %.1f)", lc.S5Penalty, lc.S1Penalty)
		}
	}

	validateCompositions(&errs, u, known)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateModifiers(errs *fieldErrors, field string, mods []models.InvestmentModifier) {
	for i, m := range mods {
		f := fmt.Sprintf("%s[%d]", field, i)
		if m.Eidolon < 0 || m.Eidolon > 6 {
			errs.add(f+".eidolon", "must be in [0..6], got %d", m.Eidolon)
		}
		if m.Superimposition < 0 || m.Superimposition > 5 {
			errs.add(f+".superimposition", "must be in [0..5], got %d", m.Superimposition)
		}
		if m.Modifier == 0 {
			errs.add(f+".modifier", "must not be zero")
		}
	}
}

func validateCompositions(errs *fieldErrors, u *models.Unit, known func(string) bool) {
	seenID := make(map[string]bool)
	primaries := 0
	for i := range u.Compositions {
		c := &u.Compositions[i]
		field := fmt.Sprintf("compositions[%d]", i)

		if c.ID == "" {
			errs.add(field+".id", "is required")
		} else if seenID[c.ID] {
			errs.add(field+".id", "duplicate composition id %q", c.ID)
		}
		seenID[c.ID] = true
		if c.IsPrimary {
			primaries++
		}

		for _, role := range models.AllRoles {
			for j, o := range c.TeammateOverrides[role] {
				f := fmt.Sprintf("%s.teammateOverrides.%s[%d]", field, role, j)
				if !known(o.ID) {
					errs.add(f+".id", "unknown unit %q", o.ID)
				}
				if o.Rating != nil && !o.Rating.Valid() {
					errs.add(f+".rating", "invalid rating %d", int(*o.Rating))
				}
				if !o.Excluded && o.Rating == nil {
					errs.add(f, "an override needs a rating or excluded")
				}
				validateModifiers(errs, f+".theirInvestmentModifiers", o.TheirInvestmentModifiers)
			}
		}

		for j, cu := range c.Core.Units {
			f := fmt.Sprintf("%s.core.units[%d]", field, j)
			if !known(cu.ID) {
				errs.add(f+".id", "unknown unit %q", cu.ID)
			}
			if cu.MinEidolon < 0 || cu.MinEidolon > 6 {
				errs.add(f+".minEidolon", "must be in [0..6], got %d", cu.MinEidolon)
			}
		}
		for j, pr := range c.PathRequirements {
			f := fmt.Sprintf("%s.pathRequirements[%d]", field, j)
			if pr.Path == "" {
				errs.add(f+".path", "is required")
			}
			if pr.Count < 1 || pr.Count > models.TeamSize {
				errs.add(f+".count", "must be in [1..%d], got %d", models.TeamSize, pr.Count)
			}
		}
		for j, lr := range c.LabelRequirements {
			f := fmt.Sprintf("%s.labelRequirements[%d]", field, j)
			if lr.Label == "" {
				errs.add(f+".label", "is required")
			}
			if lr.Count < 1 || lr.Count > models.TeamSize {
				errs.add(f+".count", "must be in [1..%d], got %d", models.TeamSize, lr.Count)
			}
		}
		for j, m := range c.WeakModes {
			if !m.Valid() {
				errs.add(fmt.Sprintf("%s.weakModes[%d]", field, j), "unknown mode %q", m)
			}
		}
		for j, t := range c.Teams {
			f := fmt.Sprintf("%s.teams[%d]", field, j)
			if len(t.Units) != models.TeamSize {
				errs.add(f+".units", "a team needs %d units, got %d", models.TeamSize, len(t.Units))
			}
			hasSelf := false
			for _, id := range t.Units {
				if id == u.ID {
					hasSelf = true
				} else if !known(id) {
					errs.add(f+".units", "unknown unit %q", id)
				}
			}
			if !hasSelf {
				errs.add(f+".units", "must include %s", u.ID)
			}
			if !t.Rating.Valid() {
				errs.add(f+".rating", "invalid rating %d", int(t.Rating))
			}
		}
	}
	if primaries > 1 {
		errs.add("compositions", "%d compositions are flagged primary, at most one allowed", primaries)
	}
}
