package teams

import (
	"errors"
	"fmt"
	"sort"

	"github.com/meur/teamforge/internal/models"
)

// Team shape limits.
const (
	MaxDamageUnits = 2
	SustainSlots   = 1
)

var (
	errTeamSize      = errors.New("team must have exactly 4 units")
	errTooManyDamage = errors.New("team has more than 2 damage units")
	errSustainCount  = errors.New("team must have exactly 1 sustain")
	errDuplicateBase = errors.New("team contains two forms of the same unit")
	errUnknownUnit   = errors.New("team contains an unknown unit")
)

// Validate checks the team invariants: 4 members, at most 2 damage roles,
// exactly 1 Sustain, Amplifiers elsewhere, and no shared base identity.
func Validate(data Lookup, members []models.TeamMember) error {
	if len(members) != models.TeamSize {
		return errTeamSize
	}
	damage, sustain := 0, 0
	bases := make(map[string]bool, models.TeamSize)
	for _, m := range members {
		switch {
		case m.Role.IsDamage():
			damage++
		case m.Role == models.RoleSustain:
			sustain++
		case m.Role == models.RoleAmplifier:
		default:
			return fmt.Errorf("member %s has invalid role %s", m.UnitID, m.Role)
		}
		u, ok := data.Unit(m.UnitID)
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownUnit, m.UnitID)
		}
		if !u.HasRole(m.Role) {
			return fmt.Errorf("member %s cannot fill %s", m.UnitID, m.Role)
		}
		base := u.CanonicalID()
		if bases[base] {
			return fmt.Errorf("%w: %s", errDuplicateBase, base)
		}
		bases[base] = true
	}
	if damage > MaxDamageUnits {
		return errTooManyDamage
	}
	if sustain != SustainSlots {
		return errSustainCount
	}
	return nil
}

// assignRoles picks one role per unit so the team satisfies the invariants
// with at least one damage dealer. If anchor is set and can deal damage it is
// given a damage role. Among valid assignments the one giving the most units
// their primary role wins, then the one with fewer damage units, then the
// lowest role sequence.
func assignRoles(units []*models.Unit, anchor string) ([models.TeamSize]models.TeamMember, bool) {
	var best [models.TeamSize]models.TeamMember
	if len(units) != models.TeamSize {
		return best, false
	}

	anchorDamage := false
	for _, u := range units {
		if u.ID == anchor && u.IsDamageDealer() {
			anchorDamage = true
		}
	}

	found := false
	bestPrimary, bestDamage := -1, 0
	var bestSeq [models.TeamSize]models.Role
	var cur [models.TeamSize]models.Role

	var walk func(i, damage, sustain, primary int)
	walk = func(i, damage, sustain, primary int) {
		if i == models.TeamSize {
			if damage == 0 || sustain != SustainSlots {
				return
			}
			better := !found ||
				primary > bestPrimary ||
				(primary == bestPrimary && damage < bestDamage) ||
				(primary == bestPrimary && damage == bestDamage && roleSeqLess(cur, bestSeq))
			if better {
				found = true
				bestPrimary, bestDamage, bestSeq = primary, damage, cur
			}
			return
		}
		u := units[i]
		for ri, r := range u.Roles {
			d, s := damage, sustain
			switch {
			case r.IsDamage():
				d++
			case r == models.RoleSustain:
				s++
			}
			if d > MaxDamageUnits || s > SustainSlots {
				continue
			}
			if anchorDamage && u.ID == anchor && !r.IsDamage() {
				continue
			}
			p := primary
			if ri == 0 {
				p++
			}
			cur[i] = r
			walk(i+1, d, s, p)
		}
	}
	walk(0, 0, 0, 0)

	if !found {
		return best, false
	}
	for i, u := range units {
		best[i] = models.TeamMember{UnitID: u.ID, Role: bestSeq[i]}
	}
	orderMembers(&best, anchor)
	return best, true
}

func roleSeqLess(a, b [models.TeamSize]models.Role) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// orderMembers sorts slots damage first, then Sub-DPS, Amplifiers and the
// Sustain. The anchor leads its role group; other ties keep input order.
func orderMembers(members *[models.TeamSize]models.TeamMember, anchor string) {
	sort.SliceStable(members[:], func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return a.UnitID == anchor && b.UnitID != anchor
	})
}

// SelectionProblem explains why a user selection cannot form a team.
type SelectionProblem string

const (
	SelectionOK              SelectionProblem = ""
	SelectionTooMany         SelectionProblem = "more than 4 units selected"
	SelectionTooManyDamage   SelectionProblem = "more than 2 damage dealers selected"
	SelectionTooManySustains SelectionProblem = "more than 1 sustain selected"
	SelectionDuplicateUnit   SelectionProblem = "the same unit is selected twice"
	SelectionUnknownUnit     SelectionProblem = "an unknown unit is selected"
)

// ValidateSelection rejects selections that no role assignment can turn into
// a valid team. Units that can only deal damage count against the damage cap,
// units that can only sustain count against the sustain slot.
func ValidateSelection(data Lookup, ids []string) SelectionProblem {
	if len(ids) > models.TeamSize {
		return SelectionTooMany
	}
	damageOnly, sustainOnly := 0, 0
	bases := make(map[string]bool, len(ids))
	for _, id := range ids {
		u, ok := data.Unit(id)
		if !ok {
			return SelectionUnknownUnit
		}
		if bases[u.CanonicalID()] {
			return SelectionDuplicateUnit
		}
		bases[u.CanonicalID()] = true
		if u.DamageOnly() {
			damageOnly++
		}
		if len(u.Roles) == 1 && u.Roles[0] == models.RoleSustain {
			sustainOnly++
		}
	}
	if damageOnly > MaxDamageUnits {
		return SelectionTooManyDamage
	}
	if sustainOnly > SustainSlots {
		return SelectionTooManySustains
	}
	return SelectionOK
}
